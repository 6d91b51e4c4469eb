package nlp

import (
	"strings"

	"github.com/sandevgo/voxbot/internal/core"
)

var (
	weatherCues = []string{"weather", "forecast", "temperature", "temp", "rain", "sunny"}

	calendarCues = []string{"calendar", "appointment", "meeting", "schedule", "event", "reminder"}

	temperatureCues = []string{"temperature", "temp"}
)

// calendarRules is an ordered rule table. The order IS the dispatch
// priority: delete > update > add, with list as the default. A turn
// matching both a delete cue and an add cue resolves to delete, so the
// destructive reading is never ambiguous.
var calendarRules = []struct {
	Op   core.CalendarOp
	Cues []string
}{
	{core.OpDelete, []string{"delete", "remove", "cancel"}},
	{core.OpUpdate, []string{"change", "update", "edit"}},
	{core.OpAdd, []string{"add", "create", "schedule", "set up", "new appointment"}},
}

func containsAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}

// Classify routes an utterance to a coarse intent: weather cues first,
// then calendar cues, otherwise open chat.
func Classify(text string) core.Intent {
	t := strings.ToLower(text)
	if containsAny(t, weatherCues) {
		return core.IntentWeather
	}
	if containsAny(t, calendarCues) {
		return core.IntentCalendar
	}
	return core.IntentChat
}

// ClassifyCalendarOp walks the rule table in priority order.
func ClassifyCalendarOp(text string) core.CalendarOp {
	t := strings.ToLower(text)
	for _, rule := range calendarRules {
		if containsAny(t, rule.Cues) {
			return rule.Op
		}
	}
	return core.OpList
}

func IsTemperatureQuery(text string) bool {
	return containsAny(strings.ToLower(text), temperatureCues)
}
