package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/pkg/log"
)

// SessionRepo persists session snapshots. History and facts are stored
// as JSON text columns; the scalar context fields get their own
// columns so they stay inspectable with plain SQL.
type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// LoadSession returns the stored snapshot, or a zero snapshot when the
// session was never saved. A malformed JSON column is logged and read
// as empty rather than failing the turn.
func (r *SessionRepo) LoadSession(ctx context.Context, sessionID string) (core.SessionSnapshot, error) {
	query := `SELECT history, facts, weather_place, weather_day, weather_turn,
		last_event_id, last_event_turn, turn
		FROM sessions WHERE session_id = ?`

	var snap core.SessionSnapshot
	var historyJSON, factsJSON string

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&historyJSON, &factsJSON,
		&snap.WeatherPlace, &snap.WeatherDay, &snap.WeatherTurn,
		&snap.LastEventID, &snap.LastEventTurn, &snap.Turn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SessionSnapshot{}, nil
	}
	if err != nil {
		return core.SessionSnapshot{}, fmt.Errorf("failed to query session: %w", err)
	}

	if err := json.Unmarshal([]byte(historyJSON), &snap.History); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).
			Msg("malformed history column, dropping it")
		snap.History = nil
	}
	if err := json.Unmarshal([]byte(factsJSON), &snap.Facts); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).
			Msg("malformed facts column, dropping it")
		snap.Facts = nil
	}
	return snap, nil
}

func (r *SessionRepo) SaveSession(ctx context.Context, sessionID string, snap core.SessionSnapshot) error {
	history := snap.History
	if history == nil {
		history = []core.Message{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	facts := snap.Facts
	if facts == nil {
		facts = map[string]string{}
	}
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to marshal facts: %w", err)
	}

	query := `INSERT INTO sessions
		(session_id, history, facts, weather_place, weather_day, weather_turn,
		 last_event_id, last_event_turn, turn, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET
		 history = excluded.history,
		 facts = excluded.facts,
		 weather_place = excluded.weather_place,
		 weather_day = excluded.weather_day,
		 weather_turn = excluded.weather_turn,
		 last_event_id = excluded.last_event_id,
		 last_event_turn = excluded.last_event_turn,
		 turn = excluded.turn,
		 updated_at = CURRENT_TIMESTAMP`

	_, err = r.db.ExecContext(ctx, query, sessionID,
		string(historyJSON), string(factsJSON),
		snap.WeatherPlace, snap.WeatherDay, snap.WeatherTurn,
		snap.LastEventID, snap.LastEventTurn, snap.Turn,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}
