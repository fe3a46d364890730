// Package prompt holds the instruction templates for every insight feature.
// All builders are pure functions over the context string; no I/O happens
// here. The field names in the signal template ("signal", "rationale") are
// load-bearing: the lenient fallback parser in pkg/ai/signal anchors on them,
// so the two must change together.
package prompt

import "strings"

// SystemPrompt frames every general-purpose analysis call.
const SystemPrompt = `You are an AI Relationship Manager assistant for a CRM system.
Your role is to analyze customer data (contacts, deals, activities, call transcripts) and provide actionable insights.
Be concise, professional, and data-driven in your analysis.
Focus on relationship health, deal risk factors, and recommended next actions.`

// SignalSystemPrompt instructs the model to return the two-field verdict. It
// is used as the system message of the signal analysis call.
const SignalSystemPrompt = `You are an expert sales analyst. Analyze the deal information provided and determine the overall signal/health of this deal.

Provide a DETAILED, SPECIFIC analysis that clearly explains your signal determination. Your analysis must include concrete evidence and specific examples from the deal data.

Structure your analysis in 3-5 paragraphs covering:

**Paragraph 1 - Signal Summary & Key Evidence:**
Start with a clear statement of the signal (Positive/Neutral/Negative) and immediately cite 2-3 specific, concrete pieces of evidence that led to this determination. Reference actual dates, activity types, contact names, and specific events from the deal history.

**Paragraph 2 - Engagement & Activity Analysis:**
Provide specific details about interaction patterns: exact number and types of recent activities, specific dates of key interactions, and quality indicators such as response times and meeting attendance.

**Paragraph 3 - Buying Signals & Deal Progression:**
Identify concrete buying signals observed, stage changes with their timeline, specific commitments made or next steps agreed upon, and any budget or stakeholder discussions.

**Paragraph 4 - Risk Factors & Concerns (if any):**
Highlight specific concerns with evidence: exact gaps in communication, objections raised, timeline slippages with dates, competitive threats or budget constraints mentioned.

**Paragraph 5 - Recommended Actions:**
Provide 2-3 specific, actionable next steps with reasoning based on the analysis above.

Return a JSON response with this EXACT structure (no markdown, no code blocks):
{
  "signal": "positive" | "neutral" | "negative",
  "rationale": "Your 3-5 paragraph detailed analysis with specific evidence, dates, and concrete examples from the deal context"
}

CRITICAL RULES:
- "positive": Active engagement (cite frequency), clear buying signals (cite specific examples), progressing (cite stage/timeline), no major red flags
- "neutral": Moderate engagement (cite metrics), mixed signals (cite examples), unclear direction (explain why), needs more data (specify what)
- "negative": Low engagement (cite gaps), disengagement indicators (cite examples), stalled (cite duration), significant concerns (cite specific issues)

Be SPECIFIC. Replace vague statements like "good engagement" with "4 calls and 6 emails over the past 10 days".

Every claim must be backed by specific evidence from the deal data.`

// DealChatSystemPrompt frames the interactive per-deal chat assistant.
const DealChatSystemPrompt = `You are an AI sales assistant helping a salesperson with a specific deal.

You have access to all information about this deal including deal details, contact information, full activity history with call transcripts, and all notes.

Your role is to:
1. Answer questions accurately based ONLY on the available data
2. Provide actionable advice to help close the deal
3. Reference specific conversations, activities, and dates
4. Identify risks and opportunities
5. Suggest next best actions

Be concise, specific, and data-driven. ALWAYS cite your sources with dates
(e.g., "In your call on Jan 15..." or "According to the note from...").

If you don't have enough information to answer accurately, say so clearly
and suggest what information would be helpful.

Format your responses in clear paragraphs with bullet points where appropriate.`

// BuildSignalPrompt renders the user prompt of the signal analysis call.
// Total over any input, including the empty string.
func BuildSignalPrompt(context string) string {
	return "Analyze this deal and determine its signal:\n\n" + context
}

func BuildRelationshipHealthPrompt(context string) string {
	return context + `

Based on this contact's history, analyze their relationship health.
Consider: activity frequency, deal progress, response patterns, and engagement level.
Provide a brief assessment (2-3 sentences) and rate the relationship health as: Strong, Good, Fair, or At Risk.`
}

func BuildNextActionPrompt(context string) string {
	return context + `

Based on the contact's recent activity and deal status, recommend the next best action.
Be specific and actionable (1-2 sentences).
Focus on what would most effectively move the relationship or deal forward.`
}

func BuildContextualResearchPrompt(context string) string {
	return context + `

Based on this contact's information and interaction history, provide comprehensive contextual research:

1. **Company & Role Insights:** key background points about their company, industry trends affecting their business, and what their role typically cares about.
2. **Conversation Starters (3-5):** relevant topics based on past interactions and questions that show you understand their business.
3. **Relationship Deepening:** personal touches or references from past conversations and topics that could build rapport.
4. **Research Recommendations:** what to research before the next interaction.
5. **Strategic Value:** how this contact could become a champion, plus expansion opportunities.

Be specific and reference actual data from their history. Focus on making the next interaction meaningful and personalized.`
}

func BuildCallAnalysisPrompt(transcript string, summary string) string {
	var parts []string
	if summary != "" {
		parts = append(parts, "Call Summary: "+summary)
	}
	parts = append(parts, "Full Transcript:\n"+transcript)

	return strings.Join(parts, "\n\n") + `

Analyze this sales call and provide:
1. Key Topics Discussed (bullet points)
2. Customer Sentiment (Positive/Neutral/Negative with brief reason)
3. Action Items (what needs to be done next)
4. Red Flags (any concerns or objections)

Keep your analysis concise and actionable.`
}

// BuildDealChatPrompt folds the deal context, prior conversation turns and the
// new question into one user prompt.
func BuildDealChatPrompt(context string, history []ChatTurn, message string) string {
	var b strings.Builder
	b.WriteString("Here is all the information about the deal:\n\n")
	b.WriteString(context)
	b.WriteString("\n\n---\n\nNow answer the user's question based on this information.")

	if len(history) > 0 {
		b.WriteString("\n\nPrevious conversation:\n")
		for _, turn := range history {
			role := "User"
			if turn.Role == "assistant" {
				role = "Assistant"
			}
			b.WriteString(role + ": " + turn.Content + "\n")
		}
	}

	b.WriteString("\n\nUser: " + message)
	return b.String()
}

type ChatTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}
