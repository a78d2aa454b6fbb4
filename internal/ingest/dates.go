package ingest

import (
	"fmt"
	"strings"
	"time"
)

// Layouts seen on Nigerian bank statements and exports. Day-first forms are
// tried before month-first ones.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"02-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate parses a statement date in any of the supported layouts. The
// result is midnight UTC unless a time was given.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
