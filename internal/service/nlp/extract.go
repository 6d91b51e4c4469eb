package nlp

import (
	"regexp"
	"strings"
	"time"

	"github.com/tsawler/prose/v3"
)

// Extraction is best-effort: every function returns its zero value when
// nothing was found and never reports an error.

var (
	locationRe = regexp.MustCompile(`(?i)\b(?:in|at|to)\s+([A-Za-z][A-Za-z\s]*)`)
	dateRe     = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?([A-Za-z]+)`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	namedRe    = regexp.MustCompile(`(?i)\b(?:titled|called|named)\s+([A-Za-z0-9][A-Za-z0-9\s]*)`)

	dayTokenRe       = regexp.MustCompile(`(?i)\b(today|tomorrow|tomorow|tommorow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	locationFillerRe = regexp.MustCompile(`(?i)\b(will|be|like|weather|forecast|on|the|appointment|my|place)\b`)
	titleKeywordRe   = regexp.MustCompile(`(?i)\b(create|add|schedule|event|appointment|meeting|titled|title|for|named|name|on|an|a|and|the)\b`)
	setUpRe          = regexp.MustCompile(`(?i)\bset\s+up\b`)
	spacesRe         = regexp.MustCompile(`\s+`)
)

var weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Location pulls a place name out of a preposition phrase ("in Paris
// tomorrow" -> "Paris"). When the pattern finds nothing, a prose NER
// pass over the utterance backs it up.
func Location(text string) string {
	if m := locationRe.FindStringSubmatch(text); m != nil {
		loc := dayTokenRe.ReplaceAllString(m[1], " ")
		loc = locationFillerRe.ReplaceAllString(loc, " ")
		loc = strings.TrimSpace(spacesRe.ReplaceAllString(loc, " "))
		if loc != "" {
			return loc
		}
	}
	return nerPlace(text)
}

func nerPlace(text string) string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return ""
	}
	for _, ent := range doc.Entities() {
		switch strings.ToUpper(ent.Label) {
		case "GPE", "LOC":
			return ent.Text
		}
	}
	return ""
}

// DayKeyword scans for "today", "tomorrow" (including common
// misspellings), then the seven weekday names. First match wins.
func DayKeyword(text string) string {
	t := strings.ToLower(text)
	if strings.Contains(t, "today") {
		return "today"
	}
	for _, k := range []string{"tomorrow", "tomorow", "tommorow"} {
		if strings.Contains(t, k) {
			return "tomorrow"
		}
	}
	for _, d := range weekdays {
		if strings.Contains(t, d) {
			return d
		}
	}
	return ""
}

// ResolveDay turns a relative day keyword into a lowercase weekday
// name. Weekday names pass through unchanged.
func ResolveDay(keyword string, now time.Time) string {
	switch keyword {
	case "today":
		return strings.ToLower(now.Weekday().String())
	case "tomorrow":
		return strings.ToLower(now.Add(24 * time.Hour).Weekday().String())
	}
	return keyword
}

// CalendarDate parses "<day><ordinal?> (of)? <month-name>" against the
// current year. Every number+word pair in the utterance is tried so
// phrases like "at 2 pm" cannot shadow the real date; the first
// candidate with a parseable month wins. A date strictly before today
// rolls forward one year.
func CalendarDate(text string, now time.Time) (time.Time, bool) {
	for _, m := range dateRe.FindAllStringSubmatch(text, -1) {
		day := atoi(m[1])
		month, ok := parseMonth(m[2])
		if !ok || day < 1 || day > 31 {
			continue
		}

		date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if date.Month() != month {
			// day overflowed the month, e.g. 31st of February
			continue
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			date = date.AddDate(1, 0, 0)
		}
		return date, true
	}
	return time.Time{}, false
}

func parseMonth(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	name = strings.ToUpper(name[:1]) + name[1:]
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, name); err == nil {
			return t.Month(), true
		}
	}
	return 0, false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// Title strips everything that is not the event name: the location
// phrase (kept when it names the appointment itself), the date phrase,
// day tokens and scheduling keywords. What remains is title-cased;
// nothing left means "Untitled".
func Title(text string) string {
	if m := locationRe.FindString(text); m != "" {
		lower := strings.ToLower(m)
		if !strings.Contains(lower, "appointment") && !strings.Contains(lower, "meeting") {
			text = strings.Replace(text, m, " ", 1)
		}
	}
	if m := dateRe.FindString(text); m != "" {
		text = strings.Replace(text, m, " ", 1)
	}

	text = dayTokenRe.ReplaceAllString(text, " ")
	text = setUpRe.ReplaceAllString(text, " ")
	text = titleKeywordRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
	if text == "" {
		return "Untitled"
	}

	words := strings.Fields(text)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ExplicitTitle finds a quoted or explicitly named event title, used to
// target delete-by-title requests.
func ExplicitTitle(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[2])
	}
	if m := namedRe.FindStringSubmatch(text); m != nil {
		title := m[1]
		if i := strings.Index(strings.ToLower(title), " on "); i >= 0 {
			title = title[:i]
		}
		title = dayTokenRe.ReplaceAllString(title, " ")
		return strings.TrimSpace(spacesRe.ReplaceAllString(title, " "))
	}
	return ""
}
