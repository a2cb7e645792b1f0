package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var (
	timeParser      = newTimeParser()
	compactClockRgx = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)
)

func newTimeParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}

// parseMatchTime accepts RFC3339 or natural language such as
// "tomorrow at 6pm" or "in 2 hours", resolved relative to now.
func parseMatchTime(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	// Normalize like "today 6pm" -> "today at 6pm" so the en rules pick it up.
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = strings.ReplaceAll(normalized, "tomorrow ", "tomorrow at ")
	normalized = strings.ReplaceAll(normalized, " at at ", " at ")
	normalized = compactClockRgx.ReplaceAllString(normalized, "$1:$2 $3")

	result, err := timeParser.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", input, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("could not understand time %q", input)
	}
	return result.Time.UTC(), nil
}
