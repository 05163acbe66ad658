package sqlvalue

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationUnits = []struct {
	name string
	size time.Duration
}{
	{"y", year},
	{"w", week},
	{"d", day},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
	{"µs", time.Microsecond},
	{"ns", time.Nanosecond},
}

// FormatDuration writes d as a sequence of unit terms, largest first,
// omitting zero terms: 1h30m, 2w3d, 150ms. Zero is 0ns.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0ns"
	}
	var b strings.Builder
	rest := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		rest = uint64(-d)
	}
	for _, u := range durationUnits {
		n := rest / uint64(u.size)
		if n == 0 {
			continue
		}
		rest -= n * uint64(u.size)
		b.WriteString(strconv.FormatUint(n, 10))
		b.WriteString(u.name)
	}
	return b.String()
}

// ParseDuration reads the terms FormatDuration writes. It also accepts
// "us" for microseconds, so any text time.ParseDuration accepts without
// fractions parses here too.
func ParseDuration(s string) (Duration, error) {
	orig := s
	if s == "" {
		return 0, fmt.Errorf("invalid duration %q", orig)
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
		if s == "" {
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
	}
	var total uint64
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
		n, err := strconv.ParseUint(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", orig, err)
		}
		s = s[i:]
		j := 0
		for j < len(s) && (s[j] < '0' || s[j] > '9') {
			j++
		}
		unit := s[:j]
		s = s[j:]
		if unit == "us" {
			unit = "µs"
		}
		size := time.Duration(0)
		for _, u := range durationUnits {
			if u.name == unit {
				size = u.size
				break
			}
		}
		if size == 0 {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", orig, unit)
		}
		if n > (1<<63)/uint64(size) || n*uint64(size) > 1<<63-total {
			return 0, fmt.Errorf("invalid duration %q: overflow", orig)
		}
		total += n * uint64(size)
	}
	if neg {
		return Duration(-int64(total - 1) - 1), nil
	}
	if total > 1<<63-1 {
		return 0, fmt.Errorf("invalid duration %q: overflow", orig)
	}
	return Duration(total), nil
}
