package workflow

import (
	"fmt"
	"strings"
)

const intentClassificationPrompt = `You are a support ticket classifier.

Analyze the following message and classify its intent.

Message:
%s

Valid intents: billing, technical, account, refund, general, complaint, off_topic

Rules:
- Use "off_topic" for messages that are NOT customer support requests (greetings, casual chat, jokes, questions about AI, unrelated topics)
- confidence must be a number between 0.0 and 1.0
- If the message is clearly off-topic, use high confidence (0.9+)
- If unsure whether it's a support request, use lower confidence`

// Prose prompt for streaming: readable token-by-token text, no envelope.
const solutionGenerationPromptProse = `You are a senior customer support agent.

Customer Issue:
%s

Detected Intent: %s

Relevant Knowledge:
%s

Generate a helpful, step-by-step solution for the customer.

Rules:
- Respond with ONLY the solution text, no JSON, no metadata
- Number each step clearly (1., 2., 3., etc.)
- Keep the solution clear, actionable, and customer-friendly
- Do NOT include any JSON formatting or code blocks`

// JSON prompt for the non-streaming path.
const solutionGenerationPrompt = `You are a senior customer support agent.

Customer Issue:
%s

Detected Intent: %s

Relevant Knowledge:
%s

Generate a helpful solution for the customer.

Rules:
- Keep the solution clear and actionable
- Set requires_followup to true if the issue needs additional verification or actions`

func buildIntentPrompt(ticketText string) string {
	return fmt.Sprintf(intentClassificationPrompt, ticketText)
}

func buildSolutionPrompt(template, ticketText, intent string, docs []Document) string {
	if intent == "" {
		intent = "unknown"
	}
	return fmt.Sprintf(template, ticketText, intent, formatDocs(docs))
}

// formatDocs renders retrieved documents as a bulleted list, or a literal
// marker when there is no context to offer.
func formatDocs(docs []Document) string {
	if len(docs) == 0 {
		return "No relevant knowledge found."
	}
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		lines = append(lines, "- "+doc.Content)
	}
	return strings.Join(lines, "\n")
}
