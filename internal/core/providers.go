package core

import (
	"context"
	"errors"
)

// ErrDayNotInForecast is returned by a WeatherProvider when the
// requested day is absent from the forecast payload.
var ErrDayNotInForecast = errors.New("day not in forecast")

type WeatherProvider interface {
	ForecastForDay(ctx context.Context, place, day string) (Forecast, error)
}

type CalendarProvider interface {
	ListEvents(ctx context.Context) ([]Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEvent(ctx context.Context, id int64, fields map[string]string) (Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type ChatProvider interface {
	Chat(ctx context.Context, system string, history []Message, userText string) (string, error)
}

type SlotExtractor interface {
	ClassifyAndExtract(ctx context.Context, text string, view ConversationView) (Extraction, error)
}
