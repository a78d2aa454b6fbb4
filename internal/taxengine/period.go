package taxengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/naijatax/backend/internal/model"
)

// CurrentPeriod returns the monthly period label (YYYY-MM) for now.
func CurrentPeriod(now time.Time) string {
	return now.Format("2006-01")
}

// ParsePeriod converts a period label into an inclusive UTC date range.
// Accepted forms are "2026" (tax year), "2026-03" (month) and "2026-Q1".
func ParsePeriod(period string) (start, end time.Time, err error) {
	p := strings.ToUpper(strings.TrimSpace(period))
	switch {
	case len(p) == 4:
		year, err := strconv.Atoi(p)
		if err != nil {
			return start, end, fmt.Errorf("invalid period %q", period)
		}
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond), nil

	case len(p) == 7 && p[4] == '-' && p[5] == 'Q':
		year, yErr := strconv.Atoi(p[:4])
		quarter, qErr := strconv.Atoi(p[6:])
		if yErr != nil || qErr != nil || quarter < 1 || quarter > 4 {
			return start, end, fmt.Errorf("invalid period %q", period)
		}
		start = time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 3, 0).Add(-time.Nanosecond), nil

	case len(p) == 7 && p[4] == '-':
		t, pErr := time.Parse("2006-01", p)
		if pErr != nil {
			return start, end, fmt.Errorf("invalid period %q", period)
		}
		return t, t.AddDate(0, 1, 0).Add(-time.Nanosecond), nil

	default:
		return start, end, fmt.Errorf("invalid period %q: want YYYY, YYYY-MM or YYYY-Qn", period)
	}
}

// FilterByPeriod keeps transactions dated within [start, end].
func FilterByPeriod(txs []model.Transaction, start, end time.Time) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
