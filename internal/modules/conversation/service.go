// README: Session lifecycle and the per-message conversation pipeline.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"skylane/internal/ai"
	"skylane/internal/amadeus"
)

var ErrSessionNotFound = errors.New("session not found")

// FlightSearcher is the search backend the conversation dispatches to.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q amadeus.FlightQuery) (*amadeus.FlightResult, error)
	SearchInspiration(ctx context.Context, q amadeus.InspirationQuery) ([]amadeus.Destination, error)
}

// Service runs conversations: it owns the session registry and drives the
// classify, extract, dispatch, respond pipeline for each message.
type Service struct {
	classifier *Classifier
	extractor  *Extractor
	responder  *Responder
	searcher   FlightSearcher
	store      *Store

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService wires the pipeline. store may be nil, which disables the turn
// archive entirely.
func NewService(provider ai.Provider, searcher FlightSearcher, store *Store) *Service {
	return &Service{
		classifier: NewClassifier(provider),
		extractor:  NewExtractor(provider),
		responder:  NewResponder(provider),
		searcher:   searcher,
		store:      store,
		sessions:   make(map[string]*Session),
	}
}

func (s *Service) CreateSession() *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		Intent:    IntentUnknown,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ResetSession discards a session's state entirely.
func (s *Service) ResetSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// TurnResult is what one processed message yields: the assistant reply plus
// a consistent snapshot of the session fields a caller may echo. An empty
// reply means the search results hold the answer.
type TurnResult struct {
	Reply           string
	Intent          Intent
	SearchCompleted bool
}

// ProcessMessage runs one full turn. Concurrent messages to the same session
// serialize on the session mutex; the returned snapshot is taken under that
// lock, so callers never read session fields mid-turn.
func (s *Service) ProcessMessage(ctx context.Context, sess *Session, message string) TurnResult {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Intent == IntentUnknown {
		sess.Intent = s.classifier.Classify(ctx, message)
		if sess.Intent == IntentUnknown {
			s.recordTurn(ctx, sess, message, clarifyReply)
			return TurnResult{Reply: clarifyReply, Intent: IntentUnknown}
		}
		sess.State = NewSlotState(sess.Intent)
	}

	if !sess.State.IsComplete() {
		updates := s.extractor.Extract(ctx, sess.Intent, sess.State, message)
		for field, value := range updates {
			sess.State.Update(field, value)
		}
	}

	var reply string
	switch {
	case sess.State.IsComplete() && !sess.SearchCompleted:
		reply = s.dispatch(ctx, sess)
	case sess.SearchCompleted:
		reply = ""
	default:
		reply = s.responder.Generate(ctx, sess.Intent, sess.State, message)
	}

	s.recordTurn(ctx, sess, message, reply)
	return TurnResult{Reply: reply, Intent: sess.Intent, SearchCompleted: sess.SearchCompleted}
}

// dispatch fires the search exactly once per session. A successful search
// sets SearchCompleted and returns an empty reply, leaving the stored
// results to speak for themselves; a failed one leaves the flag unset so a
// later corrected turn can try again.
func (s *Service) dispatch(ctx context.Context, sess *Session) string {
	if sess.State == nil || !sess.State.IsComplete() {
		panic("conversation: dispatch on incomplete state")
	}

	var err error
	switch state := sess.State.(type) {
	case *DirectFlightSlots:
		var result *amadeus.FlightResult
		result, err = s.searcher.SearchFlights(ctx, state.Query())
		if err == nil {
			sess.Flights = result
		}
	case *InspirationSlots:
		var destinations []amadeus.Destination
		destinations, err = s.searcher.SearchInspiration(ctx, state.Query())
		if err == nil {
			sess.Inspiration = destinations
		}
	default:
		panic(fmt.Sprintf("conversation: unknown state variant %T", sess.State))
	}

	if err != nil {
		log.Printf("[conversation] session %s search failed: %v", sess.ID, err)
		s.recoverSlots(sess, err)
		return apologyFor(err)
	}

	sess.SearchCompleted = true
	return ""
}

// recoverSlots clears the slot a validation error names, putting the state
// back below the completeness threshold so the next message can supply a
// corrected value and re-trigger the search.
func (s *Service) recoverSlots(sess *Session, err error) {
	var verr *amadeus.ValidationError
	if errors.As(err, &verr) {
		sess.State.Clear(verr.Field)
	}
}

func apologyFor(err error) string {
	var verr *amadeus.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("That %s doesn't work: %s. Could you give me a different value?", prettyField(verr.Field), verr.Reason)
	case errors.Is(err, amadeus.ErrNoFlights):
		return "I couldn't find any flights matching those criteria. Would you like to start a new search with different dates or destinations?"
	case errors.Is(err, amadeus.ErrTimeout):
		return "The flight search is taking too long right now. Please try sending your request again in a moment."
	default:
		return "Something went wrong while searching for flights. Please try again in a moment."
	}
}

func prettyField(field string) string {
	switch field {
	case "departure_date":
		return "departure date"
	case "return_date":
		return "return date"
	case "date_range":
		return "travel date"
	case "travel_class":
		return "travel class"
	case "max_price":
		return "budget"
	}
	return field
}

// recordTurn appends to the in-memory history and, when an archive store is
// configured, writes the turn out best-effort.
func (s *Service) recordTurn(ctx context.Context, sess *Session, user, assistant string) {
	var snapshot map[string]any
	if sess.State != nil {
		snapshot = sess.State.Snapshot()
	}
	turn := Turn{
		User:      user,
		Assistant: assistant,
		Intent:    sess.Intent,
		State:     snapshot,
		At:        time.Now(),
	}
	sess.History = append(sess.History, turn)

	if s.store != nil {
		if err := s.store.AppendTurn(ctx, sess.ID, turn); err != nil {
			log.Printf("[conversation] turn archive write failed: %v", err)
		}
	}
}
