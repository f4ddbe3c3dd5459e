package ops

import (
	"time"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

// ReevaluateInput carries optional fresh readings applied before evaluation.
type ReevaluateInput struct {
	Latitude      *float64
	Longitude     *float64
	ClearLocation bool
	Permission    *string // notDetermined, denied, authorized
	Weather       *string
	Emotion       *string
}

// ContextSummary describes the readings an evaluation used.
type ContextSummary struct {
	Permission sensors.Permission `json:"location_permission"`
	Location   *entry.Coordinate  `json:"location,omitempty"`
	Weather    entry.Weather      `json:"weather"`
	Emotion    entry.Emotion      `json:"emotion"`
	Now        time.Time          `json:"now"`
}

// ReevaluateOutput contains the result of the Reevaluate operation.
type ReevaluateOutput struct {
	Unlocked    []SummaryItem  `json:"unlocked"`
	StillLocked int            `json:"still_locked"`
	Context     ContextSummary `json:"context"`
}

// Reevaluate applies the given readings to the sensors and unlocks every entry
// whose conditions now hold. A position fix while permission is still
// undetermined counts as granting it; a denied permission ignores the fix.
func Reevaluate(st *store.Store, sn *sensors.Sensors, input ReevaluateInput) (*ReevaluateOutput, error) {
	if err := applyReadings(sn, input); err != nil {
		return nil, err
	}
	return reevaluate(st, sn)
}

func applyReadings(sn *sensors.Sensors, input ReevaluateInput) error {
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return errors.NewInvalidRequest("latitude and longitude must be given together")
	}
	if input.Latitude != nil && input.ClearLocation {
		return errors.NewInvalidRequest("specify a location or clear_location, not both")
	}
	var fix *entry.Coordinate
	if input.Latitude != nil {
		fix = &entry.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
		if err := entry.ValidateCoordinate(*fix); err != nil {
			return err
		}
	}

	if input.Permission != nil {
		p, err := sensors.ParsePermission(*input.Permission)
		if err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
		if err := sn.Location.SetPermission(p); err != nil {
			return err
		}
	}

	if input.ClearLocation {
		sn.Location.Clear()
	}
	if fix != nil {
		if sn.Location.Permission() == sensors.PermissionNotDetermined {
			if err := sn.Location.SetPermission(sensors.PermissionAuthorized); err != nil {
				return err
			}
		}
		if err := sn.Location.Set(*fix); err != nil {
			return err
		}
	}

	if input.Weather != nil {
		w, err := entry.ParseWeather(*input.Weather)
		if err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
		sn.Weather.Report(w, nil)
	}

	if input.Emotion != nil {
		em, err := entry.ParseEmotion(*input.Emotion)
		if err != nil {
			return errors.NewInvalidRequest(err.Error())
		}
		if err := sn.Emotion.Set(em); err != nil {
			return err
		}
	}
	return nil
}

func reevaluate(st *store.Store, sn *sensors.Sensors) (*ReevaluateOutput, error) {
	ctx := sn.Context()
	unlocked, err := st.ReevaluateAll(ctx)
	if err != nil {
		return nil, err
	}

	locked := 0
	for _, e := range st.Snapshot() {
		if e.IsLocked() {
			locked++
		}
	}

	return &ReevaluateOutput{
		Unlocked:    summarizeAll(unlocked),
		StillLocked: locked,
		Context:     summarizeContext(sn, ctx),
	}, nil
}

func summarizeContext(sn *sensors.Sensors, ctx entry.Context) ContextSummary {
	return ContextSummary{
		Permission: sn.Location.Permission(),
		Location:   ctx.Coordinate,
		Weather:    sn.Weather.Current(),
		Emotion:    sn.Emotion.Current(),
		Now:        ctx.Now,
	}
}
