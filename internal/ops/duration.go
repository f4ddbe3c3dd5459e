package ops

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Offset is a calendar-aware span such as "1y2mo3d4h".
type Offset struct {
	Years, Months, Days int
	Clock               time.Duration
}

// From returns t shifted by o. Calendar parts are applied before clock parts.
func (o Offset) From(t time.Time) time.Time {
	return t.AddDate(o.Years, o.Months, o.Days).Add(o.Clock)
}

// ParseUnlockAfter parses a sequence of <count><unit> pairs.
// Units: y (years), mo (months), w (weeks), d (days), h, m (minutes), s.
func ParseUnlockAfter(s string) (Offset, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Offset{}, fmt.Errorf("unlock_after must not be empty")
	}

	var off Offset
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Offset{}, fmt.Errorf("unlock_after: expected a number at %q", s)
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return Offset{}, fmt.Errorf("unlock_after: %w", err)
		}
		s = s[i:]

		j := 0
		for j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
			j++
		}
		unit := s[:j]
		s = s[j:]

		switch unit {
		case "y":
			off.Years += n
		case "mo":
			off.Months += n
		case "w":
			off.Days += 7 * n
		case "d":
			off.Days += n
		case "h":
			off.Clock += time.Duration(n) * time.Hour
		case "m":
			off.Clock += time.Duration(n) * time.Minute
		case "s":
			off.Clock += time.Duration(n) * time.Second
		case "":
			return Offset{}, fmt.Errorf("unlock_after: missing unit after %d", n)
		default:
			return Offset{}, fmt.Errorf("unlock_after: unknown unit %q (use y, mo, w, d, h, m, s)", unit)
		}
	}
	return off, nil
}
