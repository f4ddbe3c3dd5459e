package entry

import (
	"fmt"
	"slices"
	"strings"
)

// LockFilter selects entries by lock state.
type LockFilter string

const (
	LockAll      LockFilter = "all"
	LockLocked   LockFilter = "locked"
	LockUnlocked LockFilter = "unlocked"
)

// ParseLockFilter parses a lock filter; the empty string means LockAll.
func ParseLockFilter(s string) (LockFilter, error) {
	switch LockFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", LockAll:
		return LockAll, nil
	case LockLocked:
		return LockLocked, nil
	case LockUnlocked:
		return LockUnlocked, nil
	}
	return "", fmt.Errorf("lock filter must be one of: all, locked, unlocked")
}

// SortOrder orders query results.
type SortOrder string

const (
	SortNewest           SortOrder = "newest"
	SortOldest           SortOrder = "oldest"
	SortRecentlyUnlocked SortOrder = "recently_unlocked"
)

// ParseSortOrder parses a sort order; the empty string means SortNewest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	case SortRecentlyUnlocked:
		return SortRecentlyUnlocked, nil
	}
	return "", fmt.Errorf("sort must be one of: newest, oldest, recently_unlocked")
}

// Query filters and orders entries. Zero values match everything and sort newest first.
type Query struct {
	// Text matches title or content, case-insensitively.
	Text string
	Lock LockFilter
	// Emotion and Weather only match entries that carry that condition.
	Emotion *Emotion
	Weather *Weather
	Sort    SortOrder
}

// Matches reports whether e passes every filter of q.
func (q Query) Matches(e Entry) bool {
	if text := Normalize(q.Text); text != "" {
		if !strings.Contains(Normalize(e.Title), text) && !strings.Contains(Normalize(e.Content), text) {
			return false
		}
	}

	switch q.Lock {
	case LockLocked:
		if !e.IsLocked() {
			return false
		}
	case LockUnlocked:
		if e.IsLocked() {
			return false
		}
	}

	if q.Emotion != nil && (e.Emotion == nil || *e.Emotion != *q.Emotion) {
		return false
	}
	if q.Weather != nil && (e.Weather == nil || *e.Weather != *q.Weather) {
		return false
	}
	return true
}

// Apply returns the entries matching q in q.Sort order. Input order breaks ties.
func Apply(entries []Entry, q Query) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	SortEntries(out, q.Sort)
	return out
}

// SortEntries sorts entries in place with a stable sort.
// For SortRecentlyUnlocked, locked entries sort last.
func SortEntries(entries []Entry, order SortOrder) {
	switch order {
	case SortOldest:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return a.CreationDate.Compare(b.CreationDate)
		})
	case SortRecentlyUnlocked:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			switch {
			case a.UnlockedAt == nil && b.UnlockedAt == nil:
				return 0
			case a.UnlockedAt == nil:
				return 1
			case b.UnlockedAt == nil:
				return -1
			}
			return b.UnlockedAt.Compare(*a.UnlockedAt)
		})
	default:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return b.CreationDate.Compare(a.CreationDate)
		})
	}
}
