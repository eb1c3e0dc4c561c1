package ai

import (
	"context"
	"encoding/json"
)

// Provider defines the contract for the external NLU capability.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type Provider interface {
	// CompleteStructured sends a system instruction plus one user message and
	// returns the model's reply, which must be a single valid JSON object.
	CompleteStructured(ctx context.Context, systemInstruction, userMessage string) (json.RawMessage, error)
}
