package slots

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/calendar"
	"github.com/sandevgo/voxbot/internal/service/dialog"
	"github.com/sandevgo/voxbot/internal/service/nlp"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/sandevgo/voxbot/pkg/log"
)

// eventFields are the slot keys forwarded to the calendar collaborator
// on update. Anything else (event_id, day) is resolver bookkeeping.
var eventFields = []string{"title", "description", "start_time", "end_time", "location"}

// Resolver is the slot-filling turn strategy: one LLM extraction call
// per turn, follow-up questions until the intent's required fields are
// collected, then a single dispatch. Intent and slots are cleared on a
// confirmed successful dispatch and retained on failure so the user
// can retry.
type Resolver struct {
	machine  *Machine
	weather  core.WeatherProvider
	calendar core.CalendarProvider

	// per-session states; transports run in separate goroutines, so
	// the map itself needs guarding even though each session handles
	// one turn at a time
	mu     sync.Mutex
	states map[string]*State
	now    func() time.Time
}

func NewResolver(extractor core.SlotExtractor, weather core.WeatherProvider, calendarAPI core.CalendarProvider) *Resolver {
	return &Resolver{
		machine:  NewMachine(extractor),
		weather:  weather,
		calendar: calendarAPI,
		states:   make(map[string]*State),
		now:      time.Now,
	}
}

func (r *Resolver) stateFor(sessionID string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[sessionID]
	if !ok {
		state = NewState()
		r.states[sessionID] = state
	}
	return state
}

// Reset drops the session's in-progress intent, slots and extraction
// history. Wired to the reset command so an abandoned task does not
// keep asking follow-up questions.
func (r *Resolver) Reset(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, sessionID)
}

func (r *Resolver) ResolveTurn(ctx context.Context, sess *session.Context, text string) (string, error) {
	state := r.stateFor(sess.ID)

	result, err := r.machine.HandleTurn(ctx, state, text)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("slot extraction failed")
		return "Sorry, I'm having trouble responding right now. Please try again.", nil
	}

	if result.Status == StatusMissing {
		return result.Question, nil
	}

	reply, err := r.dispatch(ctx, result, sess)
	if err != nil {
		// keep intent and slots so the next turn can retry
		log.FromCtx(ctx).Warn().Err(err).Str("intent", string(result.Intent)).
			Msg("slot dispatch failed")
		return "Sorry, I couldn't complete that right now. Please try again.", nil
	}

	state.AppendHistory(core.RoleAssistant, reply)
	state.Clear()
	return reply, nil
}

func (r *Resolver) dispatch(ctx context.Context, result Result, sess *session.Context) (string, error) {
	switch result.Intent {
	case core.SlotIntentCalendarCreate:
		created, err := r.calendar.CreateEvent(ctx, core.Event{
			Title:       result.Slots["title"],
			Description: result.Slots["description"],
			StartTime:   result.Slots["start_time"],
			EndTime:     result.Slots["end_time"],
			Location:    result.Slots["location"],
		})
		if err != nil {
			return "", fmt.Errorf("create event: %w", err)
		}
		sess.RememberEvent(created.ID)
		return fmt.Sprintf("Created event %q.", created.Title), nil

	case core.SlotIntentCalendarUpdate:
		id, err := eventID(result.Slots)
		if err != nil {
			return "", err
		}
		fields := make(map[string]string)
		for _, f := range eventFields {
			if v := result.Slots[f]; v != "" {
				fields[f] = v
			}
		}
		if _, err := r.calendar.UpdateEvent(ctx, id, fields); err != nil {
			return "", fmt.Errorf("update event %d: %w", id, err)
		}
		sess.RememberEvent(id)
		return fmt.Sprintf("Updated event #%d.", id), nil

	case core.SlotIntentCalendarDelete:
		id, err := eventID(result.Slots)
		if err != nil {
			return "", err
		}
		if err := r.calendar.DeleteEvent(ctx, id); err != nil {
			return "", fmt.Errorf("delete event %d: %w", id, err)
		}
		sess.ForgetEvent()
		return fmt.Sprintf("Deleted event #%d.", id), nil

	case core.SlotIntentCalendarGet:
		events, err := r.calendar.ListEvents(ctx)
		if err != nil {
			return "", fmt.Errorf("list events: %w", err)
		}
		if len(events) == 0 {
			return "You have no calendar events.", nil
		}
		now := r.now()
		lines := []string{"Your events:"}
		for _, e := range events {
			lines = append(lines, "- "+calendar.FormatEventLine(e, now))
		}
		return strings.Join(lines, "\n"), nil

	case core.SlotIntentWeather:
		day := strings.ToLower(result.Slots["day"])
		day = nlp.ResolveDay(day, r.now())
		forecast, err := r.weather.ForecastForDay(ctx, result.Slots["location"], day)
		if err != nil {
			return "", fmt.Errorf("forecast: %w", err)
		}
		return dialog.FormatForecast(forecast, "", false, false), nil
	}

	return "How may I help you?", nil
}

func eventID(slots map[string]string) (int64, error) {
	id, err := strconv.ParseInt(slots["event_id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad event_id %q: %w", slots["event_id"], err)
	}
	return id, nil
}
