// README: LLM-backed intent classification.
package conversation

import (
	"context"
	"encoding/json"
	"log"

	"skylane/internal/ai"
)

// Classifier decides which kind of search a message asks for. Any failure,
// malformed reply, or out-of-set label degrades to IntentUnknown so the
// conversation can ask for clarification instead of erroring out.
type Classifier struct {
	provider ai.Provider
}

func NewClassifier(provider ai.Provider) *Classifier {
	return &Classifier{provider: provider}
}

func (c *Classifier) Classify(ctx context.Context, message string) Intent {
	raw, err := c.provider.CompleteStructured(ctx, ai.IntentPrompt(), message)
	if err != nil {
		log.Printf("[conversation] intent classification failed: %v", err)
		return IntentUnknown
	}

	var reply struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		log.Printf("[conversation] intent reply not parseable: %v", err)
		return IntentUnknown
	}

	intent, ok := ParseIntent(reply.Intent)
	if !ok {
		log.Printf("[conversation] intent %q outside known set", reply.Intent)
		return IntentUnknown
	}
	return intent
}
