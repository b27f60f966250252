// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filters provides the pre-scoring document filters: recency,
// language, and text sanitation. Implements: prd001-ingest (R3, R4).
package filters

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jpreyes/paperradarai-bot/pkg/types"
)

// timeNow is the clock used by IsRecent. Tests substitute a fixed time.
var timeNow = time.Now

var whitespaceRE = regexp.MustCompile(`\s+`)

// SanitizeText unescapes HTML entities and collapses runs of whitespace.
func SanitizeText(s string) string {
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// englishStopMarkers are short function words whose presence suggests
// English prose. Used alongside the ASCII ratio check.
var englishStopMarkers = []string{" the ", " and ", " of ", " to ", " with ", " for ", " in "}

// EnglishOnly reports whether the text looks like English: mostly ASCII
// and containing at least one common English function word (R4.2).
func EnglishOnly(s string) bool {
	if s == "" {
		return false
	}
	ascii := 0
	for _, ch := range s {
		if ch < 128 {
			ascii++
		}
	}
	ratio := float64(ascii) / float64(max(1, len([]rune(s))))
	lower := strings.ToLower(s)
	hasMarker := false
	for _, w := range englishStopMarkers {
		if strings.Contains(lower, w) {
			hasMarker = true
			break
		}
	}
	return ratio > 0.9 && hasMarker
}

// ParseISO parses an ISO-8601 timestamp. It accepts date-only values
// ("2024-01-02"), bare datetimes ("2024-01-02T03:04:05"), and values with
// an explicit offset or trailing Z. Bare values are assumed UTC (R3.2).
// The second return value reports whether parsing succeeded.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		s += "T00:00:00+00:00"
	}
	if len(s) == 19 && s[4] == '-' && s[7] == '-' && s[10] == 'T' {
		s += "+00:00"
	}

	t, err := time.Parse("2006-01-02T15:04:05-07:00", s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// YearFromDate returns the year of an ISO timestamp as a string, or ""
// when the timestamp cannot be parsed.
func YearFromDate(s string) string {
	t, ok := ParseISO(s)
	if !ok {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// IsRecent reports whether published falls within maxAgeHours of now.
// A zero maxAgeHours disables the filter. Unparseable or empty timestamps
// are treated as recent: a bad date must not suppress content (R3.3).
func IsRecent(published string, maxAgeHours int) bool {
	if maxAgeHours <= 0 {
		return true
	}
	t, ok := ParseISO(published)
	if !ok {
		return true
	}
	return timeNow().UTC().Sub(t) <= time.Duration(maxAgeHours)*time.Hour
}

// Recent returns the documents within the age window, preserving input
// order. With maxAgeHours zero it returns docs unchanged.
func Recent(docs []types.Document, maxAgeHours int) []types.Document {
	if maxAgeHours <= 0 {
		return docs
	}
	var out []types.Document
	for _, d := range docs {
		if IsRecent(d.Published, maxAgeHours) {
			out = append(out, d)
		}
	}
	return out
}
