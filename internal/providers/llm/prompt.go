package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/voxbot/internal/core"
)

const extractionInstructions = `You are the intent classifier and slot extractor of a voice task assistant.
Classify the user's message and extract task fields. Respond with ONLY a JSON object, no other text:
{
  "intent": "weather" | "calendar_create" | "calendar_update" | "calendar_delete" | "calendar_get" | "unknown",
  "title": string or null,
  "description": string or null,
  "start_time": string or null (format: 2006-01-02T15:04:05),
  "end_time": string or null (format: 2006-01-02T15:04:05),
  "location": string or null,
  "day": string or null (a weekday name, "today" or "tomorrow"),
  "event_id": number or null
}
Rules:
- Use null for every field the message does not mention. Never invent values.
- If the message only answers an earlier question, keep "intent": "unknown".
- Extract only what the user actually said.`

// buildExtractionPrompt renders the system prompt for one extraction
// call: fixed instructions plus the in-progress task state so the
// model can interpret bare follow-up answers like "in Berlin".
func buildExtractionPrompt(view core.ConversationView) string {
	var b strings.Builder
	b.WriteString(extractionInstructions)

	if view.Intent != core.SlotIntentUnknown && view.Intent != "" {
		fmt.Fprintf(&b, "\n\nCurrent task: %s", view.Intent)
	}
	if len(view.Slots) > 0 {
		keys := make([]string, 0, len(view.Slots))
		for k := range view.Slots {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nCollected so far:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n- %s: %s", k, view.Slots[k])
		}
	}
	if len(view.History) > 0 {
		b.WriteString("\nRecent conversation:")
		for _, msg := range view.History {
			fmt.Fprintf(&b, "\n%s: %s", msg.Role, msg.Content)
		}
	}
	return b.String()
}

var knownIntents = map[core.SlotIntent]bool{
	core.SlotIntentUnknown:        true,
	core.SlotIntentWeather:        true,
	core.SlotIntentCalendarCreate: true,
	core.SlotIntentCalendarUpdate: true,
	core.SlotIntentCalendarDelete: true,
	core.SlotIntentCalendarGet:    true,
}

// normalizeExtraction maps anything outside the closed intent set to
// unknown so a creative model cannot corrupt the state machine.
func normalizeExtraction(e core.Extraction) core.Extraction {
	e.Intent = core.SlotIntent(strings.ToLower(strings.TrimSpace(string(e.Intent))))
	if !knownIntents[e.Intent] {
		e.Intent = core.SlotIntentUnknown
	}
	return e
}
