// Package ops implements the boundary operations shared by the CLI and the MCP server.
package ops

import (
	"time"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// timeNow is replaced in tests.
var timeNow = time.Now

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

func newPagination(limit, offset, total int) Pagination {
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
		Total:   total,
	}
}

// clampPage applies the default and maximum limit and floors offset at zero.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GeofenceInput describes a geofence to attach to an entry.
type GeofenceInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

func (g GeofenceInput) build() (*entry.Geofence, error) {
	fence := entry.NewGeofence(g.Latitude, g.Longitude, g.Radius)
	if err := entry.ValidateGeofence(fence); err != nil {
		return nil, err
	}
	return &fence, nil
}

// SummaryItem is an entry without its content.
type SummaryItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	CreationDate   time.Time      `json:"creation_date"`
	Locked         bool           `json:"locked"`
	UnlockedAt     *time.Time     `json:"unlocked_at,omitempty"`
	HasLocation    bool           `json:"has_location"`
	Weather        *entry.Weather `json:"weather,omitempty"`
	Emotion        *entry.Emotion `json:"emotion,omitempty"`
	EarliestUnlock *time.Time     `json:"earliest_unlock,omitempty"`
}

func summarize(e entry.Entry) SummaryItem {
	e = e.Clone()
	item := SummaryItem{
		ID:           e.ID,
		Title:        e.Title,
		CreationDate: e.CreationDate,
		Locked:       e.IsLocked(),
		UnlockedAt:   e.UnlockedAt,
		HasLocation:  e.Geofence != nil,
		Weather:      e.Weather,
		Emotion:      e.Emotion,
	}
	if e.HasTimeCondition() {
		at := e.EarliestUnlock
		item.EarliestUnlock = &at
	}
	return item
}

func summarizeAll(entries []entry.Entry) []SummaryItem {
	items := make([]SummaryItem, len(entries))
	for i, e := range entries {
		items[i] = summarize(e)
	}
	return items
}

// parseWeatherCondition parses an optional weather requirement. nil or blank means none.
func parseWeatherCondition(s *string) (*entry.Weather, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	w, err := entry.ParseWeather(*s)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if w == entry.WeatherUnknown {
		return nil, errors.NewInvalidRequest("weather \"unknown\" cannot be used as an unlock condition")
	}
	return &w, nil
}

// parseEmotionCondition parses an optional emotion requirement. nil or blank means none.
func parseEmotionCondition(s *string) (*entry.Emotion, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	em, err := entry.ParseEmotion(*s)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return &em, nil
}

// resolveEarliestUnlock turns the absolute or relative earliest-unlock inputs
// into an instant. With neither set it returns base.
func resolveEarliestUnlock(base time.Time, absolute, after *string) (time.Time, error) {
	hasAbs := absolute != nil && *absolute != ""
	hasAfter := after != nil && *after != ""
	if hasAbs && hasAfter {
		return time.Time{}, errors.NewInvalidRequest("specify earliest_unlock or unlock_after, not both")
	}

	switch {
	case hasAbs:
		t, err := time.Parse(time.RFC3339, *absolute)
		if err != nil {
			return time.Time{}, errors.NewInvalidRequest("earliest_unlock must be an RFC 3339 timestamp")
		}
		return t.UTC(), nil
	case hasAfter:
		off, err := ParseUnlockAfter(*after)
		if err != nil {
			return time.Time{}, errors.NewInvalidRequest(err.Error())
		}
		return off.From(base).UTC(), nil
	}
	return base, nil
}
