package store

import (
	"fmt"
	"strconv"
)

// FormatID renders a record id: the collection letter followed by the
// number zero-padded to at least three digits (P001, P999, P1000).
func FormatID(c Collection, n int) string {
	return fmt.Sprintf("%s%03d", c.Prefix(), n)
}

// ParseIDNumber strips the leading type letter and parses the remaining
// digits. The letter itself is not checked; seeded inventory mixes M and E.
func ParseIDNumber(id string) (int, error) {
	if len(id) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	suffix := id[1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIDFormat, id)
	}
	return n, nil
}

// NextIDFrom computes the id the next appended record receives. It uses the
// numeric maximum of the existing suffixes, so ids keep increasing after the
// suffix grows past three digits. Records without an id are ignored.
func NextIDFrom(c Collection, records []Record) (string, error) {
	highest := 0
	for _, rec := range records {
		raw, ok := rec["id"]
		if !ok || raw == nil {
			continue
		}
		id, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%w: %v", ErrInvalidIDFormat, raw)
		}
		n, err := ParseIDNumber(id)
		if err != nil {
			return "", err
		}
		if n > highest {
			highest = n
		}
	}
	return FormatID(c, highest+1), nil
}
