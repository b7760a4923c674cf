package orchestrator

import (
	"context"

	"github.com/alibaizhanov/mengram/internal/domain/extraction"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

// Orchestrator drives the LLM adapter to produce an ExtractionResult from a
// conversation or free text (spec §4.7).
type Orchestrator struct {
	llm *llmprovider.Adapter
}

// New creates an Orchestrator backed by llm.
func New(llm *llmprovider.Adapter) *Orchestrator {
	return &Orchestrator{llm: llm}
}

// Extract builds the prompt, calls the LLM once, and defensively parses the
// response into an ExtractionResult (spec §4.7). It passes Temperature 0 in
// Options; the providers treat a zero temperature as unset and send none,
// so the vendor's default temperature applies.
func (o *Orchestrator) Extract(ctx context.Context, messages []llmprovider.Message, existing []ExistingEntitySummary) (extraction.Result, error) {
	conversation := FormatConversation(messages)
	contextBlock := BuildExistingContextBlock(existing)
	prompt := BuildPrompt(conversation, contextBlock)

	raw, err := o.llm.Complete(ctx, prompt, "", llmprovider.Options{Temperature: 0})
	if err != nil {
		return extraction.Result{}, err
	}

	return parseResponse(raw), nil
}
