package core

import (
	"fmt"
	"time"
)

const (
	VoxName    = "VoxBot"
	VoxVersion = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Intent is the coarse task category a turn is routed to.
type Intent string

const (
	IntentWeather  Intent = "weather"
	IntentCalendar Intent = "calendar"
	IntentChat     Intent = "chat"
)

// CalendarOp is a calendar sub-intent. Declaration order is the
// dispatch priority: delete beats update beats add beats list.
type CalendarOp string

const (
	OpDelete CalendarOp = "delete"
	OpUpdate CalendarOp = "update"
	OpAdd    CalendarOp = "add"
	OpList   CalendarOp = "list"
)

// SlotIntent is the closed intent set of the slot-filling mode.
type SlotIntent string

const (
	SlotIntentUnknown        SlotIntent = "unknown"
	SlotIntentWeather        SlotIntent = "weather"
	SlotIntentCalendarCreate SlotIntent = "calendar_create"
	SlotIntentCalendarUpdate SlotIntent = "calendar_update"
	SlotIntentCalendarDelete SlotIntent = "calendar_delete"
	SlotIntentCalendarGet    SlotIntent = "calendar_get"
)

// Event is a calendar event snapshot as returned by the calendar
// collaborator. The dialogue core never mutates one in place; it only
// issues create/update/delete requests.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
}

type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Forecast struct {
	Place       string    `json:"place"`
	Day         string    `json:"day"`
	Weather     string    `json:"weather"`
	Temperature TempRange `json:"temperature"`
}

// Entities holds best-effort extraction results for one utterance.
// Zero values mean "not found"; extraction never fails.
type Entities struct {
	Location   string
	DayKeyword string
	Date       time.Time
	HasDate    bool
	Condition  string
}

// Extraction is the structured-extraction collaborator result. All
// fields except Intent are optional; nil means the field was not
// mentioned and must not erase an already collected slot.
type Extraction struct {
	Intent      SlotIntent `json:"intent"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	Location    *string    `json:"location"`
	Day         *string    `json:"day"`
	EventID     *int64     `json:"event_id"`
}

// Slots returns the non-nil fields as slot name/value pairs.
func (e Extraction) Slots() map[string]string {
	slots := make(map[string]string)
	put := func(name string, v *string) {
		if v != nil && *v != "" {
			slots[name] = *v
		}
	}
	put("title", e.Title)
	put("description", e.Description)
	put("start_time", e.StartTime)
	put("end_time", e.EndTime)
	put("location", e.Location)
	put("day", e.Day)
	if e.EventID != nil {
		slots["event_id"] = fmt.Sprintf("%d", *e.EventID)
	}
	return slots
}

// ConversationView is the read-only snapshot of the slot-filling state
// handed to the structured-extraction collaborator.
type ConversationView struct {
	Intent  SlotIntent
	Slots   map[string]string
	History []Message
}
