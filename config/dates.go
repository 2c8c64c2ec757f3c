package config

import (
	"time"

	"github.com/pkg/errors"
)

// The LogDate layout is lexicographically chronological, so the from/to
// filters compare plain strings. FromBound and ToBound normalize the user's
// value into that layout: a record passes when bound checks of the form
// from <= LogDate < to hold.
const boundLayout = "2006-01-02 15:04:05"

type boundGrain int

const (
	grainSecond boundGrain = iota
	grainMinute
	grainDay
)

// FromBound - Normalizes a lower LogDate bound (inclusive). Empty input
// means no bound and returns an empty string.
func FromBound(value string, now time.Time) (string, error) {
	if value == "" {
		return "", nil
	}
	t, _, err := parseBound(value, now)
	if err != nil {
		return "", err
	}
	return t.Format(boundLayout), nil
}

// ToBound - Normalizes an upper LogDate bound. The user's value is
// inclusive at its own precision ("2020-03-01" means the whole day), so the
// returned string is the first instant past it, to be compared exclusively.
// Empty input means no bound and returns an empty string.
func ToBound(value string, now time.Time) (string, error) {
	if value == "" {
		return "", nil
	}
	t, grain, err := parseBound(value, now)
	if err != nil {
		return "", err
	}
	switch grain {
	case grainDay:
		t = t.AddDate(0, 0, 1)
	case grainMinute:
		t = t.Add(time.Minute)
	default:
		t = t.Add(time.Second)
	}
	return t.Format(boundLayout), nil
}

func parseBound(value string, now time.Time) (time.Time, boundGrain, error) {
	if value == "yesterday" {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return midnight.AddDate(0, 0, -1), grainDay, nil
	}
	if t, err := time.ParseInLocation(boundLayout, value, now.Location()); err == nil {
		return t, grainSecond, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, now.Location()); err == nil {
		return t, grainDay, nil
	}
	if t, err := time.ParseInLocation("15:04", value, now.Location()); err == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		return today, grainMinute, nil
	}
	return time.Time{}, grainSecond, errors.Errorf("cannot interpret %q as a date bound (expected \"YYYY-MM-DD HH:MM:SS\", \"YYYY-MM-DD\", \"HH:MM\" or \"yesterday\")", value)
}
