package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID          string
	IncludeHTML bool
}

// FetchOutput is a single entry as the reader sees it. Content stays hidden
// while the entry is locked; Unmet lists what still blocks it.
type FetchOutput struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Content        string            `json:"content,omitempty"`
	ContentHTML    string            `json:"content_html,omitempty"`
	CreationDate   time.Time         `json:"creation_date"`
	Locked         bool              `json:"locked"`
	UnlockedAt     *time.Time        `json:"unlocked_at,omitempty"`
	Geofence       *entry.Geofence   `json:"geofence,omitempty"`
	Weather        *entry.Weather    `json:"weather,omitempty"`
	Emotion        *entry.Emotion    `json:"emotion,omitempty"`
	EarliestUnlock time.Time         `json:"earliest_unlock"`
	Unmet          []entry.Condition `json:"unmet,omitempty"`
}

// Fetch returns one entry. sn may be nil, in which case only the clock is known.
func Fetch(st *store.Store, sn *sensors.Sensors, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	e, err := st.Get(id)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{
		ID:             e.ID,
		Title:          e.Title,
		CreationDate:   e.CreationDate,
		Locked:         e.IsLocked(),
		UnlockedAt:     e.UnlockedAt,
		Geofence:       e.Geofence,
		Weather:        e.Weather,
		Emotion:        e.Emotion,
		EarliestUnlock: e.EarliestUnlock,
	}

	if e.IsLocked() {
		ctx := entry.Context{Now: timeNow().UTC()}
		if sn != nil {
			ctx = sn.Context()
		}
		out.Unmet = entry.Evaluate(e, ctx).Unmet
		return out, nil
	}

	out.Content = e.Content
	if input.IncludeHTML {
		out.ContentHTML = renderMarkdown(e.Content)
	}
	return out, nil
}
