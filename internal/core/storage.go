package core

import "context"

// SessionSnapshot is the persisted form of one session's context. A
// missing or malformed store loads as the zero snapshot, never as an
// error surfaced to the turn.
type SessionSnapshot struct {
	History       []Message         `json:"history"`
	Facts         map[string]string `json:"facts"`
	WeatherPlace  string            `json:"weather_place,omitempty"`
	WeatherDay    string            `json:"weather_day,omitempty"`
	WeatherTurn   int               `json:"weather_turn,omitempty"`
	LastEventID   int64             `json:"last_event_id,omitempty"`
	LastEventTurn int               `json:"last_event_turn,omitempty"`
	Turn          int               `json:"turn"`
}

type SessionRepository interface {
	LoadSession(ctx context.Context, sessionID string) (SessionSnapshot, error)
	SaveSession(ctx context.Context, sessionID string, snap SessionSnapshot) error
}
