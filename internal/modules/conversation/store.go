// README: Turn archive backed by PostgreSQL (append-only, best-effort).
package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists conversation turns for offline analysis. The conversation
// itself never reads from it; a nil *Store disables archiving.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) AppendTurn(ctx context.Context, sessionID string, turn Turn) error {
	stateJSON, err := json.Marshal(turn.State)
	if err != nil {
		return fmt.Errorf("marshal turn state: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO conversation_turns (
            session_id, user_message, assistant_reply, intent, state, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		sessionID,
		turn.User,
		turn.Assistant,
		string(turn.Intent),
		stateJSON,
		turn.At,
	)
	return err
}
