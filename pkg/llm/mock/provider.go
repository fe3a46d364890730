package mock

import (
	"context"
	"strings"

	"ai-crm-be/pkg/llm"
)

// MockProvider returns deterministic canned responses so the whole insight
// surface can be exercised offline. Selected via LLM_PROVIDER=mock (or
// USE_MOCK_AI=true); the analyzer and services never know the difference.
type MockProvider struct{}

var _ llm.Provider = &MockProvider{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

const mockSignalResponse = `{"signal": "neutral", "rationale": "The deal shows moderate engagement with a handful of recent touchpoints, but no clear buying signals have surfaced yet. Activity frequency is steady rather than accelerating, and no budget or timeline commitments appear in the history. Recommended next step: schedule a discovery call to qualify intent. Note: this is a MOCK response generated without a completion provider."}`

const mockNextAction = `**Next Best Action: Schedule Follow-up Call**

**Timing:** Within 2-3 business days

**Rationale:** Based on the contact's recent activity and current relationship stage, a follow-up call would be most effective to:
- Re-engage after recent silence
- Address any outstanding questions
- Move the relationship forward

*Note: This is a MOCK response. Configure a completion provider for real insights.*`

const mockRelationshipHealth = `**Relationship Health: Good**

**Strengths:**
- Regular communication pattern
- Mutual engagement in conversations

**Risks:**
- Recent decrease in activity
- No deals in pipeline currently

*Note: This is a MOCK response. Configure a completion provider for real insights.*`

const mockGeneric = `**Contextual Research & Insights**

**Company Intelligence:**
- Industry trends suggest growth potential

**Conversation Starters:**
- "How are you approaching [current industry challenge]?"

**Strategic Value:**
- Potential for long-term partnership

*Note: This is a MOCK response. Configure a completion provider for real insights.*`

func (p *MockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	var userPrompt string
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			userPrompt = history[i].Content
			break
		}
	}
	return respond(userPrompt), nil
}

func (p *MockProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...llm.Option) (string, error) {
	return respond(userPrompt), nil
}

func respond(userPrompt string) string {
	switch {
	case strings.Contains(userPrompt, "determine its signal"):
		return mockSignalResponse
	case strings.Contains(userPrompt, "next best action"):
		return mockNextAction
	case strings.Contains(userPrompt, "relationship health"):
		return mockRelationshipHealth
	default:
		return mockGeneric
	}
}
