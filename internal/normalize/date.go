package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	isoDate,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
}

// Layouts without a year; the most recent matching date not in the future is used.
var yearlessLayouts = []string{"Jan 2", "January 2"}

var (
	relativeAgo = regexp.MustCompile(`(?i)(\d+)\+?\s*(minute|min|hour|hr|day|week|month)s?\s+ago`)
	unixDigits  = regexp.MustCompile(`^\d{9,13}$`)
)

// postedDate converts whatever date text a source supplied into YYYY-MM-DD.
// Empty or unrecognized input falls back to now.
func postedDate(raw string, now time.Time) string {
	s := CleanText(raw)
	if s == "" {
		return now.Format(isoDate)
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoDate)
		}
	}

	if unixDigits.MatchString(s) {
		n, _ := strconv.ParseInt(s, 10, 64)
		if len(s) > 10 {
			return time.UnixMilli(n).UTC().Format(isoDate)
		}
		return time.Unix(n, 0).UTC().Format(isoDate)
	}

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			if t.After(now) {
				t = t.AddDate(-1, 0, 0)
			}
			return t.Format(isoDate)
		}
	}

	lower := strings.ToLower(s)
	if m := relativeAgo.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		var t time.Time
		switch m[2] {
		case "minute", "min":
			t = now.Add(-time.Duration(n) * time.Minute)
		case "hour", "hr":
			t = now.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = now.AddDate(0, 0, -n)
		case "week":
			t = now.AddDate(0, 0, -7*n)
		case "month":
			t = now.AddDate(0, -n, 0)
		}
		return t.Format(isoDate)
	}
	if strings.Contains(lower, "yesterday") {
		return now.AddDate(0, 0, -1).Format(isoDate)
	}

	// "today", "just posted", "new" and anything unrecognized
	return now.Format(isoDate)
}
