// Package timeutil parses the duration and time expressions accepted by config
// values and CLI flags: standard Go durations plus day/week suffixes, and
// relative times like "-2d".
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration string")
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	// time.ParseDuration stops at hours; accept day and week suffixes too.
	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		unit = 7 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", s[:len(s)-1])
	}
	return time.Duration(n) * unit, nil
}

// ParseRelativeTime accepts an RFC3339 timestamp or an offset from now, written
// as a signed duration ("-2d", "+3h").
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	sign := int64(1)
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return time.Time{}, fmt.Errorf("relative time must start with + or -: %s", s)
	}

	d, err := ParseDuration(s[1:])
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(time.Duration(sign) * d), nil
}
