package calendar

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/nlp"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/sandevgo/voxbot/pkg/log"
)

// wireTime is the format used when writing event times. Reads accept a
// wider set of layouts, see parseEventTime.
const wireTime = "2006-01-02T15:04:05"

// defaultEventHour is the start hour used when an utterance names a day
// but no time of day.
const defaultEventHour = 9

var (
	allRe   = regexp.MustCompile(`(?i)\ball\b`)
	nextRe  = regexp.MustCompile(`(?i)\bnext\b`)
	todayRe = regexp.MustCompile(`(?i)\btoday\b`)
)

// Resolver decides and parametrizes exactly one calendar action per
// turn: delete, update, add or list, in that priority.
type Resolver struct {
	api          core.CalendarProvider
	defaultPlace string
	now          func() time.Time
}

func NewResolver(api core.CalendarProvider, defaultPlace string) *Resolver {
	return &Resolver{
		api:          api,
		defaultPlace: defaultPlace,
		now:          time.Now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, text string, sess *session.Context) (string, error) {
	op := nlp.ClassifyCalendarOp(text)
	now := r.now()

	events, err := r.api.ListEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("list events: %w", err)
	}
	upcoming := sortByStart(filterUpcoming(ctx, events, now))

	log.FromCtx(ctx).Debug().
		Str("op", string(op)).
		Int("upcoming", len(upcoming)).
		Msg("resolving calendar action")

	switch op {
	case core.OpDelete:
		return r.delete(ctx, text, upcoming, sess)
	case core.OpUpdate:
		return r.update(ctx, text, upcoming, sess, now)
	case core.OpAdd:
		return r.add(ctx, text, sess, now)
	default:
		return r.list(text, upcoming, now), nil
	}
}

// filterUpcoming drops events that already ended. An end time that
// fails to parse keeps its event (fail-open).
func filterUpcoming(ctx context.Context, events []core.Event, now time.Time) []core.Event {
	var upcoming []core.Event
	for _, e := range events {
		end, err := parseEventTime(e.EndTime)
		if err != nil {
			log.FromCtx(ctx).Debug().Int64("event", e.ID).Str("end", e.EndTime).
				Msg("unparseable end time, keeping event")
			upcoming = append(upcoming, e)
			continue
		}
		if end.Before(now) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	return upcoming
}

// sortByStart orders events ascending by start-time string, so "next"
// always means the head.
func sortByStart(events []core.Event) []core.Event {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime < events[j].StartTime
	})
	return events
}

func parseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable event time %q: %w", s, err)
}

func (r *Resolver) delete(ctx context.Context, text string, upcoming []core.Event, sess *session.Context) (string, error) {
	if allRe.MatchString(text) {
		if len(upcoming) == 0 {
			return "You have no upcoming events to delete.", nil
		}
		deleted := 0
		for _, e := range upcoming {
			if err := r.api.DeleteEvent(ctx, e.ID); err != nil {
				return "", fmt.Errorf("delete event %d: %w", e.ID, err)
			}
			deleted++
		}
		sess.ForgetEvent()
		return fmt.Sprintf("Deleted %d events.", deleted), nil
	}

	if title := nlp.ExplicitTitle(text); title != "" {
		for _, e := range upcoming {
			if strings.EqualFold(e.Title, title) {
				if err := r.api.DeleteEvent(ctx, e.ID); err != nil {
					return "", fmt.Errorf("delete event %d: %w", e.ID, err)
				}
				if last, ok := sess.LastEvent(); ok && last == e.ID {
					sess.ForgetEvent()
				}
				return fmt.Sprintf("Deleted event %q.", e.Title), nil
			}
		}
		return fmt.Sprintf("I couldn't find an upcoming event titled %q.", title), nil
	}

	if id, ok := sess.LastEvent(); ok {
		if err := r.api.DeleteEvent(ctx, id); err != nil {
			return "", fmt.Errorf("delete event %d: %w", id, err)
		}
		sess.ForgetEvent()
		return fmt.Sprintf("Deleted event #%d.", id), nil
	}

	return "There is nothing to delete.", nil
}

func (r *Resolver) update(ctx context.Context, text string, upcoming []core.Event, sess *session.Context, now time.Time) (string, error) {
	var target int64
	if id, ok := sess.LastEvent(); ok {
		target = id
	} else if len(upcoming) > 0 {
		target = upcoming[0].ID
	} else {
		return "You have no events to update.", nil
	}

	// A date in the utterance beats a location. When both appear only
	// the date is applied; the user has to ask again for the location.
	if start, ok := r.utteranceDate(text, now); ok {
		startAt := time.Date(start.Year(), start.Month(), start.Day(),
			defaultEventHour, 0, 0, 0, start.Location())
		fields := map[string]string{"start_time": startAt.Format(wireTime)}
		if _, err := r.api.UpdateEvent(ctx, target, fields); err != nil {
			return "", fmt.Errorf("update event %d: %w", target, err)
		}
		sess.RememberEvent(target)
		return fmt.Sprintf("Moved event #%d to %s at %02d:00.",
			target, startAt.Format("2 January"), defaultEventHour), nil
	}

	if loc := nlp.Location(text); loc != "" {
		fields := map[string]string{"location": loc}
		if _, err := r.api.UpdateEvent(ctx, target, fields); err != nil {
			return "", fmt.Errorf("update event %d: %w", target, err)
		}
		sess.RememberEvent(target)
		return fmt.Sprintf("Updated event #%d location to %s.", target, loc), nil
	}

	return "Tell me what to change: a new date or a new location.", nil
}

func (r *Resolver) add(ctx context.Context, text string, sess *session.Context, now time.Time) (string, error) {
	title := nlp.Title(text)

	start := now
	if date, ok := r.utteranceDate(text, now); ok {
		start = time.Date(date.Year(), date.Month(), date.Day(),
			defaultEventHour, 0, 0, 0, date.Location())
	}
	end := start.Add(time.Hour)

	location := nlp.Location(text)
	if location == "" {
		if fact, ok := sess.Fact("location"); ok {
			location = fact
		} else {
			location = r.defaultPlace
		}
	}

	created, err := r.api.CreateEvent(ctx, core.Event{
		Title:       title,
		Description: "Created via voice assistant",
		StartTime:   start.Format(wireTime),
		EndTime:     end.Format(wireTime),
		Location:    location,
	})
	if err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	sess.RememberEvent(created.ID)

	return fmt.Sprintf("Created event %q on %s in %s.",
		created.Title, start.Format("2 January"), location), nil
}

func (r *Resolver) list(text string, upcoming []core.Event, now time.Time) string {
	if len(upcoming) == 0 {
		return "You have no upcoming events."
	}

	if nextRe.MatchString(text) {
		return "Your next event: " + FormatEventLine(upcoming[0], now)
	}

	if todayRe.MatchString(text) {
		var todays []core.Event
		for _, e := range upcoming {
			start, err := parseEventTime(e.StartTime)
			if err == nil && sameDate(start, now) {
				todays = append(todays, e)
			}
		}
		if len(todays) == 0 {
			return "You have nothing scheduled today."
		}
		return renderEvents("Today's events:", todays, now)
	}

	return renderEvents("Your upcoming events:", upcoming, now)
}

func renderEvents(header string, events []core.Event, now time.Time) string {
	lines := []string{header}
	for _, e := range events {
		lines = append(lines, "- "+FormatEventLine(e, now))
	}
	return strings.Join(lines, "\n")
}

// FormatEventLine renders one event with its date (year omitted when it
// is the current year) and location (omitted when absent).
func FormatEventLine(e core.Event, now time.Time) string {
	var when string
	start, err := parseEventTime(e.StartTime)
	if err != nil {
		when = e.StartTime
	} else if start.Year() == now.Year() {
		when = start.Format("2 January at 15:04")
	} else {
		when = start.Format("2 January 2006 at 15:04")
	}

	line := fmt.Sprintf("%s on %s", e.Title, when)
	if e.Location != "" {
		line += " in " + e.Location
	}
	return line
}

// utteranceDate resolves an explicit calendar date or a day keyword to
// a concrete date.
func (r *Resolver) utteranceDate(text string, now time.Time) (time.Time, bool) {
	if date, ok := nlp.CalendarDate(text, now); ok {
		return date, true
	}
	keyword := nlp.DayKeyword(text)
	if keyword == "" {
		return time.Time{}, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch keyword {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}

	// weekday name: next occurrence, today included
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, i)
		if strings.EqualFold(d.Weekday().String(), keyword) {
			return d, true
		}
	}
	return time.Time{}, false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
