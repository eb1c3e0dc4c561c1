// README: Assistant reply generation and canned fallbacks.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"skylane/internal/ai"
)

const (
	// clarifyReply is sent whenever intent is still unknown.
	clarifyReply = "I'm not sure what you're looking for. Can you please clarify if you want to book a specific flight or get travel suggestions?"

	// fallbackReply covers reply generation failures.
	fallbackReply = "I'm having trouble processing your request. Could you please rephrase it?"
)

// Responder phrases the assistant's next turn from the current intent and
// state: asking for missing fields, or confirming a search was launched.
type Responder struct {
	provider ai.Provider
}

func NewResponder(provider ai.Provider) *Responder {
	return &Responder{provider: provider}
}

func (r *Responder) Generate(ctx context.Context, intent Intent, state SlotState, message string) string {
	stateJSON, err := json.Marshal(state.Snapshot())
	if err != nil {
		log.Printf("[conversation] state snapshot marshal failed: %v", err)
		return fallbackReply
	}

	prompt := fmt.Sprintf("Current intent: %s\nCurrent state: %s\nUser message: %s\nGenerate response", intent, stateJSON, message)
	raw, err := r.provider.CompleteStructured(ctx, ai.ResponsePrompt(), prompt)
	if err != nil {
		log.Printf("[conversation] response generation failed: %v", err)
		return fallbackReply
	}

	var reply struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil || reply.Response == "" {
		log.Printf("[conversation] response reply not usable: %v", err)
		return fallbackReply
	}
	return reply.Response
}
