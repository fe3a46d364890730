package signal

import (
	"testing"

	"ai-crm-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantSignal    entity.DealSignal
		wantRationale string
		wantTier      Tier
	}{
		{
			name:          "strict json object",
			raw:           `{"signal": "positive", "rationale": "x"}`,
			wantSignal:    entity.SignalPositive,
			wantRationale: "x",
			wantTier:      TierStrict,
		},
		{
			name:          "strict with surrounding whitespace",
			raw:           "\n  {\"signal\": \"negative\", \"rationale\": \"stalled for weeks\"}  \n",
			wantSignal:    entity.SignalNegative,
			wantRationale: "stalled for weeks",
			wantTier:      TierStrict,
		},
		{
			name:          "lenient extraction from prose wrapper",
			raw:           `Here is my answer: "signal": "negative" because of inactivity, "rationale": "No contact in 30 days"`,
			wantSignal:    entity.SignalNegative,
			wantRationale: "No contact in 30 days",
			wantTier:      TierLenient,
		},
		{
			name:          "lenient extraction from fenced code block",
			raw:           "```json\n{\"signal\": \"neutral\", \"rationale\": \"mixed engagement\"}\n```",
			wantSignal:    entity.SignalNeutral,
			wantRationale: "mixed engagement",
			wantTier:      TierLenient,
		},
		{
			name:          "refusal falls back to neutral",
			raw:           "I cannot determine this.",
			wantSignal:    entity.SignalNeutral,
			wantRationale: InconclusiveRationale,
			wantTier:      TierFallback,
		},
		{
			name:          "empty response falls back",
			raw:           "",
			wantSignal:    entity.SignalNeutral,
			wantRationale: InconclusiveRationale,
			wantTier:      TierFallback,
		},
		{
			name:          "invalid signal value falls back",
			raw:           `{"signal": "maybe", "rationale": "unsure"}`,
			wantSignal:    entity.SignalNeutral,
			wantRationale: InconclusiveRationale,
			wantTier:      TierFallback,
		},
		{
			name:          "empty rationale is not a strict parse",
			raw:           `{"signal": "positive", "rationale": ""}`,
			wantSignal:    entity.SignalNeutral,
			wantRationale: InconclusiveRationale,
			wantTier:      TierFallback,
		},
		{
			name:          "signal without rationale falls back",
			raw:           `The signal is "signal": "positive" I think`,
			wantSignal:    entity.SignalNeutral,
			wantRationale: InconclusiveRationale,
			wantTier:      TierFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.wantSignal, got.Verdict.Signal)
			assert.Equal(t, tt.wantRationale, got.Verdict.Rationale)
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "strict", TierStrict.String())
	assert.Equal(t, "lenient", TierLenient.String())
	assert.Equal(t, "fallback", TierFallback.String())
}
