// Package biztime holds the business timezone. Everything is stored and
// compared in UTC; the business zone only decides where a calendar day
// starts and ends when a provider reports a bare date.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init sets the business timezone once. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

func Location() *time.Location {
	if bizLocation == nil {
		MustInit("")
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// EndOfDayUTC returns 23:59:59.999999999 of t's business day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 23, 59, 59, 999999999, Location()).UTC()
}

// ParseDateInBizTimezone parses YYYY-MM-DD as business-timezone midnight and returns it in UTC.
func ParseDateInBizTimezone(dateStr string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", dateStr, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t.UTC(), nil
}

// StartOfDayUTC returns midnight of the business day that is days before t, in UTC.
func StartOfDayUTC(t time.Time, days int) time.Time {
	b := t.In(Location()).AddDate(0, 0, -days)
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}
