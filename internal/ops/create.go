package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/store"
)

// CreateMode controls id collision behavior.
type CreateMode string

const (
	CreateModeError   CreateMode = "error"   // default: fail when the id exists
	CreateModeReplace CreateMode = "replace" // overwrite the entry with that id
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	ID       string // optional; a fresh uuid when empty
	Title    string // required
	Content  string
	Geofence *GeofenceInput
	Weather  *string
	Emotion  *string

	// At most one of these may be set.
	EarliestUnlock *string // RFC 3339
	UnlockAfter    *string // e.g. "90m", "2d", "1y2mo"

	Mode CreateMode // default: CreateModeError
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID             string    `json:"id"`
	Created        bool      `json:"created"`
	Locked         bool      `json:"locked"`
	EarliestUnlock time.Time `json:"earliest_unlock"`
}

// Create authors a new locked entry.
func Create(st *store.Store, cfg *config.Config, input CreateInput) (*CreateOutput, error) {
	if input.Mode == "" {
		input.Mode = CreateModeError
	}
	if input.Mode != CreateModeError && input.Mode != CreateModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	e := entry.New(strings.TrimSpace(input.Title), input.Content, timeNow())
	if id := strings.TrimSpace(input.ID); id != "" {
		e.ID = id
	}

	if input.Geofence != nil {
		fence, err := input.Geofence.build()
		if err != nil {
			return nil, err
		}
		e.Geofence = fence
	}

	var err error
	if e.Weather, err = parseWeatherCondition(input.Weather); err != nil {
		return nil, err
	}
	if e.Emotion, err = parseEmotionCondition(input.Emotion); err != nil {
		return nil, err
	}
	if e.EarliestUnlock, err = resolveEarliestUnlock(e.CreationDate, input.EarliestUnlock, input.UnlockAfter); err != nil {
		return nil, err
	}

	if err := entry.Validate(e, cfg.EntryMaxChars); err != nil {
		return nil, err
	}

	var (
		saved   entry.Entry
		created = true
	)
	if input.Mode == CreateModeReplace {
		saved, created, err = st.Put(e)
	} else {
		saved, err = st.Add(e)
	}
	if err != nil {
		return nil, err
	}

	return &CreateOutput{
		ID:             saved.ID,
		Created:        created,
		Locked:         saved.IsLocked(),
		EarliestUnlock: saved.EarliestUnlock,
	}, nil
}
