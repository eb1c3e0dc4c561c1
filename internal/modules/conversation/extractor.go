// README: LLM-backed slot extraction with placeholder filtering.
package conversation

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"skylane/internal/ai"
)

// placeholderTokens are template fragments a model sometimes echoes back
// instead of a real value. Matching is case-insensitive: "Iata Code" and
// "yyyy-mm-dd" are placeholders too.
var placeholderTokens = []string{"IATA CODE", "YYYY-MM-DD"}

// Extractor pulls field updates out of a user message given the current
// state. It returns only the fields the message actually mentioned; a
// failed call returns an empty update set, which leaves state untouched.
type Extractor struct {
	provider ai.Provider
}

func NewExtractor(provider ai.Provider) *Extractor {
	return &Extractor{provider: provider}
}

func (e *Extractor) Extract(ctx context.Context, intent Intent, state SlotState, message string) map[string]any {
	stateJSON, err := json.Marshal(state.Snapshot())
	if err != nil {
		log.Printf("[conversation] state snapshot marshal failed: %v", err)
		return nil
	}

	raw, err := e.provider.CompleteStructured(ctx, ai.StateUpdatePrompt(string(intent), string(stateJSON)), message)
	if err != nil {
		log.Printf("[conversation] slot extraction failed: %v", err)
		return nil
	}

	var updates map[string]any
	if err := json.Unmarshal(raw, &updates); err != nil {
		log.Printf("[conversation] extraction reply not parseable: %v", err)
		return nil
	}

	known := make(map[string]bool, len(state.Fields()))
	for _, f := range state.Fields() {
		known[f] = true
	}

	filtered := make(map[string]any, len(updates))
	for field, value := range updates {
		if !known[field] {
			continue
		}
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && isPlaceholder(s) {
			continue
		}
		filtered[field] = value
	}
	return filtered
}

func isPlaceholder(s string) bool {
	upper := strings.ToUpper(s)
	for _, tok := range placeholderTokens {
		if strings.Contains(upper, tok) {
			return true
		}
	}
	return false
}
