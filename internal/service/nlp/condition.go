package nlp

import (
	"regexp"
	"strings"
)

// conditionVocabulary is scanned in order; the first whole-word match
// in the utterance wins. Inflected forms map onto their canonical
// keyword, and multi-word entries come before their prefixes.
var conditionVocabulary = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{conditionWord("clear sky"), "clear sky"},
	{conditionWord("thunderstorm"), "thunderstorm"},
	{conditionWord("drizzle"), "drizzle"},
	{conditionWord("rainy"), "rain"},
	{conditionWord("rain"), "rain"},
	{conditionWord("snowy"), "snow"},
	{conditionWord("snow"), "snow"},
	{conditionWord("misty"), "mist"},
	{conditionWord("mist"), "mist"},
	{conditionWord("foggy"), "fog"},
	{conditionWord("fog"), "fog"},
	{conditionWord("cloudy"), "cloud"},
	{conditionWord("cloud"), "cloud"},
	{conditionWord("sunny"), "sun"},
	{conditionWord("sun"), "sun"},
	{conditionWord("clear"), "clear"},
	{conditionWord("windy"), "wind"},
	{conditionWord("wind"), "wind"},
}

func conditionWord(entry string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(entry) + `\b`)
}

// conditionAccept maps a canonical condition keyword to the substrings
// of the actual forecast wording that count as a "yes".
var conditionAccept = map[string][]string{
	"sun":          {"sun", "clear"},
	"clear":        {"clear", "sun"},
	"clear sky":    {"clear"},
	"rain":         {"rain", "drizzle", "shower"},
	"drizzle":      {"drizzle", "rain"},
	"snow":         {"snow", "sleet"},
	"thunderstorm": {"thunder", "storm"},
	"mist":         {"mist", "fog", "haze"},
	"fog":          {"fog", "mist"},
	"cloud":        {"cloud", "overcast"},
	"wind":         {"wind"},
}

// Condition returns the canonical condition keyword asked about in the
// utterance, or "" when none is. Whole words only, so weekday names
// like "sunday" never read as a condition.
func Condition(text string) string {
	t := strings.ToLower(text)
	for _, entry := range conditionVocabulary {
		if entry.pattern.MatchString(t) {
			return entry.canonical
		}
	}
	return ""
}

// ConditionMatches answers whether the actual forecast wording
// satisfies the requested condition keyword.
func ConditionMatches(requested, actual string) bool {
	actual = strings.ToLower(actual)
	accept, ok := conditionAccept[strings.ToLower(requested)]
	if !ok {
		return strings.Contains(actual, strings.ToLower(requested))
	}
	for _, sub := range accept {
		if strings.Contains(actual, sub) {
			return true
		}
	}
	return false
}
