package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/store"
)

// UpdateInput contains parameters for the Update operation.
// nil fields are left unchanged.
type UpdateInput struct {
	ID      string // required
	Title   *string
	Content *string

	Geofence      *GeofenceInput
	ClearGeofence bool
	Weather       *string // "" removes the condition
	Emotion       *string // "" removes the condition

	EarliestUnlock *string // RFC 3339; "" resets to the creation date
	UnlockAfter    *string // relative to now
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID             string    `json:"id"`
	Locked         bool      `json:"locked"`
	EarliestUnlock time.Time `json:"earliest_unlock"`
}

// Update edits an existing entry. The lock state never changes here.
func Update(st *store.Store, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Geofence != nil && input.ClearGeofence {
		return nil, errors.NewInvalidRequest("specify geofence or clear_geofence, not both")
	}

	e, err := st.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		e.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		e.Content = *input.Content
	}

	switch {
	case input.ClearGeofence:
		e.Geofence = nil
	case input.Geofence != nil:
		if e.Geofence, err = input.Geofence.build(); err != nil {
			return nil, err
		}
	}

	if input.Weather != nil {
		if e.Weather, err = parseWeatherCondition(input.Weather); err != nil {
			return nil, err
		}
	}
	if input.Emotion != nil {
		if e.Emotion, err = parseEmotionCondition(input.Emotion); err != nil {
			return nil, err
		}
	}

	if input.EarliestUnlock != nil && *input.EarliestUnlock == "" && (input.UnlockAfter == nil || *input.UnlockAfter == "") {
		e.EarliestUnlock = e.CreationDate
	} else if input.EarliestUnlock != nil || input.UnlockAfter != nil {
		if e.EarliestUnlock, err = resolveEarliestUnlock(timeNow().UTC(), input.EarliestUnlock, input.UnlockAfter); err != nil {
			return nil, err
		}
	}

	if err := entry.Validate(e, cfg.EntryMaxChars); err != nil {
		return nil, err
	}

	updated, err := st.Update(e)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{
		ID:             updated.ID,
		Locked:         updated.IsLocked(),
		EarliestUnlock: updated.EarliestUnlock,
	}, nil
}
