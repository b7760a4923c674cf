// Package orchestrator implements the extraction orchestrator (spec §4.7):
// it drives the LLM adapter with a context-seeded prompt, parses the
// structured response defensively, and normalizes the result into the
// domain's five memory kinds.
package orchestrator

import (
	"fmt"
	"strings"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

// ExistingEntitySummary feeds the existing-context block so the LLM can
// reuse canonical names and skip facts it has already told us (spec §4.7
// step 2).
type ExistingEntitySummary struct {
	Name  string
	Facts []string // already truncated by the caller
}

const extractionPromptV1 = `You are a knowledge extraction engine for a long-term memory system.
Read the conversation below and extract structured knowledge as strict JSON
with exactly these top-level keys: "entities", "relations", "knowledge",
"episodes", "procedures" — each a JSON array (use [] if there is nothing to
report). Do not wrap the JSON in markdown code fences and do not add any
prose before or after it.

entities: [{"name": string, "type": "person"|"project"|"technology"|"company"|"concept"|"place"|"activity", "facts": [string or {"fact": string, "when": string}]}]
relations: [{"from": string, "type": string, "to": string, "description": string}]
knowledge: [{"entity": string, "type": string, "title": string, "date": string, "content": string, "language": string, "artifact": string}]
episodes: [{"summary": string, "context": string, "outcome": string, "participants": [string], "valence": "positive"|"negative"|"neutral"|"mixed", "importance": number, "happened_at": string}]
procedures: [{"name": string, "trigger": string, "steps": [{"action": string, "detail": string}], "entities": [string]}]
%s
Conversation:
%s`

// FormatConversation renders messages as "{Role}: {content}" blocks (spec
// §4.7 step 1), with Role capitalized (User / Assistant).
func FormatConversation(messages []llmprovider.Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := "User"
		if m.Role == llmprovider.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildExistingContextBlock renders the tenant's current entities with
// truncated facts (spec §4.7 step 2). Returns "" when entities is empty, so
// the caller can omit the section entirely.
func BuildExistingContextBlock(entities []ExistingEntitySummary) string {
	if len(entities) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nKnown entities (reuse these exact names, do not repeat known facts):\n")
	for _, e := range entities {
		fmt.Fprintf(&b, "- %s", e.Name)
		if len(e.Facts) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(e.Facts, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildPrompt renders the full extraction prompt (spec §4.7 step 3).
func BuildPrompt(conversationText string, existingContextBlock string) string {
	return fmt.Sprintf(extractionPromptV1, existingContextBlock, conversationText)
}
