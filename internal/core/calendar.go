package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimezone is returned when a timezone identifier cannot be
// resolved against the IANA database. Callers must not fall back silently.
var ErrInvalidTimezone = errors.New("invalid timezone")

// LoadZone resolves a timezone name to a *time.Location.
//
// The literal "auto" resolves to the runtime's local timezone. An empty
// name resolves to DefaultTZ. Any other name must be a valid IANA
// identifier; unknown names fail with ErrInvalidTimezone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTZ
	}
	if name == AutoTZ {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// LocalDateString converts an epoch-seconds timestamp to a YYYY-MM-DD
// date string using the timezone's civil calendar. DST transitions are
// handled by the location's rules, never by offset arithmetic.
func LocalDateString(timestampSec int64, loc *time.Location) string {
	return time.Unix(timestampSec, 0).In(loc).Format(DateFmt)
}

// TodayString returns today's YYYY-MM-DD date in the given timezone.
func TodayString(loc *time.Location) string {
	return TodayStringAt(time.Now(), loc)
}

// TodayStringAt is TodayString with an explicit clock.
func TodayStringAt(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateFmt)
}

// IsOnDate reports whether the timestamp falls on targetDate in the
// given timezone.
func IsOnDate(timestampSec int64, targetDate string, loc *time.Location) bool {
	return LocalDateString(timestampSec, loc) == targetDate
}

// DaysAgoDate returns the date n calendar days before today in the given
// timezone. AddDate keeps this correct across DST and month boundaries.
func DaysAgoDate(loc *time.Location, n int) string {
	return DaysAgoDateAt(time.Now(), loc, n)
}

// DaysAgoDateAt is DaysAgoDate with an explicit clock.
func DaysAgoDateAt(now time.Time, loc *time.Location, n int) string {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -n).Format(DateFmt)
}

// CurrentWeekBounds returns the Monday and Sunday dates of the
// Monday-start week containing today in the given timezone.
func CurrentWeekBounds(loc *time.Location) (string, string) {
	return CurrentWeekBoundsAt(time.Now(), loc)
}

// CurrentWeekBoundsAt is CurrentWeekBounds with an explicit clock.
func CurrentWeekBoundsAt(now time.Time, loc *time.Location) (string, string) {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	// Week starts on Monday; Go counts Sunday as 0.
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := today.AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(DateFmt), sunday.Format(DateFmt)
}

// TTLUntilMidnight returns the duration until the next local midnight in
// the given timezone.
func TTLUntilMidnight(loc *time.Location) time.Duration {
	return TTLUntilMidnightAt(time.Now(), loc)
}

// TTLUntilMidnightAt is TTLUntilMidnight with an explicit clock.
func TTLUntilMidnightAt(now time.Time, loc *time.Location) time.Duration {
	local := now.In(loc)
	nextMidnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return nextMidnight.Sub(now)
}

// EffectiveStrikesTTL caps the configured strikes TTL so a strikes entry
// never survives a local day rollover, with a floor to avoid near-zero
// TTL thrash just before midnight.
func EffectiveStrikesTTL(loc *time.Location) time.Duration {
	return EffectiveStrikesTTLAt(time.Now(), loc)
}

// EffectiveStrikesTTLAt is EffectiveStrikesTTL with an explicit clock.
func EffectiveStrikesTTLAt(now time.Time, loc *time.Location) time.Duration {
	ttl := TTLUntilMidnightAt(now, loc)
	if ttl > TTLStrikes {
		ttl = TTLStrikes
	}
	if ttl < StrikesTTLFloor {
		ttl = StrikesTTLFloor
	}
	return ttl
}
