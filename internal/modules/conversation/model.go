// README: Conversation intents, slot-state variants, and per-session state.
package conversation

import (
	"strings"
	"sync"
	"time"

	"skylane/internal/amadeus"
)

type Intent string

const (
	IntentUnknown      Intent = "unknown"
	IntentDirectFlight Intent = "direct_flight"
	IntentInspiration  Intent = "inspiration"
)

// ParseIntent maps a classifier reply onto the closed intent set. The match
// is case-insensitive; models occasionally upcase the label.
func ParseIntent(s string) (Intent, bool) {
	switch intent := Intent(strings.ToLower(s)); intent {
	case IntentUnknown, IntentDirectFlight, IntentInspiration:
		return intent, true
	}
	return IntentUnknown, false
}

// SlotState is the typed partial record for one query shape. The variant set
// is closed: exactly DirectFlightSlots and InspirationSlots implement it.
type SlotState interface {
	// Update applies one extracted field value. It reports whether the field
	// belongs to this variant's schema and carried a usable value.
	Update(field string, value any) bool
	// Get returns the current value of a field, or nil for unknown fields.
	Get(field string) any
	// Clear resets a field to its zero (or default) value.
	Clear(field string)
	// IsComplete reports whether every required field is filled.
	IsComplete() bool
	// Missing lists the required fields still unfilled.
	Missing() []string
	// Snapshot renders the full field set for prompts and history entries.
	Snapshot() map[string]any
	// Fields lists every schema field name of this variant.
	Fields() []string
}

// NewSlotState instantiates the variant matching a classified intent.
// Unknown yields nil: no state object exists until intent is known.
func NewSlotState(intent Intent) SlotState {
	switch intent {
	case IntentDirectFlight:
		return NewDirectFlightSlots()
	case IntentInspiration:
		return NewInspirationSlots()
	}
	return nil
}

// Turn is one user/assistant exchange, recorded append-only.
type Turn struct {
	User      string         `json:"user"`
	Assistant string         `json:"assistant"`
	Intent    Intent         `json:"intent"`
	State     map[string]any `json:"state"`
	At        time.Time      `json:"at"`
}

// Session owns everything for one conversation: the write-once intent, the
// slot state created when the intent resolves, the turn history, the one-shot
// search flag, and the most recent search results. Sessions are isolated;
// nothing is shared between them.
type Session struct {
	ID              string
	Intent          Intent
	State           SlotState
	History         []Turn
	SearchCompleted bool
	Flights         *amadeus.FlightResult
	Inspiration     []amadeus.Destination
	CreatedAt       time.Time

	// mu serializes message processing: each message runs classify ->
	// extract -> dispatch -> respond to completion before the next starts.
	mu sync.Mutex
}

// Results returns the session's search results, if any. Taken under the
// session lock so readers never observe a turn in progress.
func (s *Session) Results() (*amadeus.FlightResult, []amadeus.Destination) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Flights, s.Inspiration
}
