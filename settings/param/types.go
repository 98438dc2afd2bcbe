package param

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Value patterns shared between option definitions and standalone parsing.
const (
	PatternUint      = `^[0-9]+$`
	PatternRatio     = `^0\.[0-9]+$`
	PatternFlag      = `^$`
	PatternAny       = `^.*$`
	PatternDuration  = `^[0-9]+[smh]$`
	PatternCount     = `^[0-9]+[bmk]?$`
	PatternRate      = `^[0-9]+/s$`
	PatternCommaList = `^[^=,]+(,[^=,]+)*$`
)

func ensurePattern(s string, pattern string) error {
	if !regexp.MustCompile(pattern).MatchString(s) {
		return fmt.Errorf("invalid value %q; must match pattern %s", s, pattern)
	}
	return nil
}

func ParseUint(s string) (uint64, error) {
	if err := ensurePattern(s, PatternUint); err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, 64)
}

// ParseRatio accepts fractions written as `0.x`.
func ParseRatio(s string) (float64, error) {
	if err := ensurePattern(s, PatternRatio); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// ParseDuration accepts `N[smh]` durations, e.g. `90s`, `15m`, `2h`.
func ParseDuration(s string) (time.Duration, error) {
	if err := ensurePattern(s, PatternDuration); err != nil {
		return 0, err
	}

	value, err := strconv.ParseUint(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0, err
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 's':
		unit = time.Second
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	}
	return time.Duration(value) * unit, nil
}

// ParseCount accepts `N[bmk]?` operation counts, the suffix being a billion,
// million or thousand multiplier.
func ParseCount(s string) (uint64, error) {
	if err := ensurePattern(s, PatternCount); err != nil {
		return 0, err
	}

	multiplier := uint64(1)
	number := s
	switch s[len(s)-1] {
	case 'k':
		multiplier = 1_000
		number = s[:len(s)-1]
	case 'm':
		multiplier = 1_000_000
		number = s[:len(s)-1]
	case 'b':
		multiplier = 1_000_000_000
		number = s[:len(s)-1]
	}

	value, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return 0, err
	}
	return value * multiplier, nil
}

// ParsePerSecond accepts `N/s` rates.
func ParsePerSecond(s string) (uint64, error) {
	if err := ensurePattern(s, PatternRate); err != nil {
		return 0, err
	}
	return strconv.ParseUint(s[:len(s)-2], 10, 64)
}

func ParseCommaList(s string) ([]string, error) {
	if err := ensurePattern(s, PatternCommaList); err != nil {
		return nil, err
	}
	return strings.Split(s, ","), nil
}
