package signal

import (
	"encoding/json"
	"regexp"
	"strings"

	"ai-crm-be/internal/entity"
)

// Verdict is the typed outcome of a signal analysis.
type Verdict struct {
	Signal    entity.DealSignal `json:"signal"`
	Rationale string            `json:"rationale"`
}

// Tier records which parse strategy produced the verdict. The analyzer logs
// anything below TierStrict: a drift toward lower tiers means the upstream
// model has stopped honoring the output contract.
type Tier int

const (
	TierStrict Tier = iota
	TierLenient
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierLenient:
		return "lenient"
	default:
		return "fallback"
	}
}

// ParseResult tags the verdict with the tier that produced it, so each tier's
// precondition and output stay independently testable.
type ParseResult struct {
	Verdict Verdict
	Tier    Tier
}

// InconclusiveRationale is the fixed tier-three rationale. A wrong-but-
// confident verdict would be worse than an honest unknown.
const InconclusiveRationale = "Unable to fully analyze deal signal. Please review manually."

// The lenient tier anchors on the field names the prompt template demands.
// It assumes double-quoted JSON-ish text; a model emitting single-quoted or
// unquoted key-value pairs would need these adjusted.
var (
	signalPattern    = regexp.MustCompile(`"signal":\s*"(positive|neutral|negative)"`)
	rationalePattern = regexp.MustCompile(`"rationale":\s*"([^"]+)"`)
)

// Parse turns raw model output into a verdict using a three-tier fallback:
//
//  1. strict: the whole trimmed response is a JSON object with valid
//     "signal" and non-empty "rationale" fields;
//  2. lenient: both fields are findable as quoted substrings even though the
//     response as a whole is malformed (extra prose, broken brackets);
//  3. fallback: a safe neutral/inconclusive default.
//
// Parse never fails: signal inference is advisory, so the caller always gets
// a well-formed verdict rather than a parse error.
func Parse(raw string) ParseResult {
	if verdict, ok := parseStrict(raw); ok {
		return ParseResult{Verdict: verdict, Tier: TierStrict}
	}
	if verdict, ok := extractLenient(raw); ok {
		return ParseResult{Verdict: verdict, Tier: TierLenient}
	}
	return ParseResult{
		Verdict: Verdict{Signal: entity.SignalNeutral, Rationale: InconclusiveRationale},
		Tier:    TierFallback,
	}
}

func parseStrict(raw string) (Verdict, bool) {
	var parsed struct {
		Signal    string `json:"signal"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return Verdict{}, false
	}

	signal := entity.DealSignal(parsed.Signal)
	if !signal.Valid() || parsed.Rationale == "" {
		return Verdict{}, false
	}
	return Verdict{Signal: signal, Rationale: parsed.Rationale}, true
}

func extractLenient(raw string) (Verdict, bool) {
	signalMatch := signalPattern.FindStringSubmatch(raw)
	rationaleMatch := rationalePattern.FindStringSubmatch(raw)
	if signalMatch == nil || rationaleMatch == nil {
		return Verdict{}, false
	}
	return Verdict{
		Signal:    entity.DealSignal(signalMatch[1]),
		Rationale: rationaleMatch[1],
	}, true
}
