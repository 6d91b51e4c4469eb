package slots

import (
	"github.com/sandevgo/voxbot/internal/core"
)

// maxHistoryTurns bounds the raw role-tagged turn list kept for the
// structured-extraction prompt.
const maxHistoryTurns = 4

// requiredFields lists what each intent needs before it can be
// dispatched. Order matters: follow-up questions name missing fields
// in this order.
var requiredFields = map[core.SlotIntent][]string{
	core.SlotIntentCalendarCreate: {"title", "description", "start_time", "end_time", "location"},
	core.SlotIntentCalendarUpdate: {"event_id"},
	core.SlotIntentCalendarDelete: {"event_id"},
	core.SlotIntentCalendarGet:    {},
	core.SlotIntentWeather:        {"location", "day"},
}

// State tracks a single in-progress intent and its collected slots
// across turns. Slots only ever hold keys relevant to the current
// intent; switching intent resets them atomically.
type State struct {
	Intent  core.SlotIntent
	Slots   map[string]string
	History []core.Message
}

func NewState() *State {
	return &State{
		Intent: core.SlotIntentUnknown,
		Slots:  make(map[string]string),
	}
}

func (s *State) View() core.ConversationView {
	return core.ConversationView{
		Intent:  s.Intent,
		Slots:   s.Slots,
		History: s.History,
	}
}

// SwitchIntent abandons the in-progress task for a new one: slots are
// cleared and the intent replaced in one step.
func (s *State) SwitchIntent(intent core.SlotIntent) {
	s.Slots = make(map[string]string)
	s.Intent = intent
}

// Merge folds extracted non-null fields into the slot set. Existing
// values for the same key are overwritten; absent extracted values
// never erase collected ones.
func (s *State) Merge(extracted core.Extraction) {
	for key, value := range extracted.Slots() {
		s.Slots[key] = value
	}
}

// Missing returns the required fields of the current intent that are
// absent or empty, in table order.
func (s *State) Missing() []string {
	var missing []string
	for _, field := range requiredFields[s.Intent] {
		if s.Slots[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

func (s *State) AppendHistory(role, content string) {
	s.History = append(s.History, core.Message{Role: role, Content: content})
	if len(s.History) > maxHistoryTurns {
		s.History = s.History[len(s.History)-maxHistoryTurns:]
	}
}

// Clear resets the intent and slots after a confirmed successful
// dispatch. The history window is kept.
func (s *State) Clear() {
	s.Intent = core.SlotIntentUnknown
	s.Slots = make(map[string]string)
}
