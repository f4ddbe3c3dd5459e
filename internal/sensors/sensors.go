// Package sensors holds the collaborators that feed readings into the unlock
// engine: location, weather and the user's self-reported emotion.
package sensors

import (
	"database/sql"
	"time"

	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
)

// Preferences is the small key/value store the collaborators remember their
// last values in.
type Preferences interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// DBPreferences stores preferences in the spark database.
type DBPreferences struct {
	DB *sql.DB
}

// Get implements Preferences.
func (p DBPreferences) Get(key string) (string, bool, error) {
	return db.GetPreference(p.DB, key)
}

// Set implements Preferences.
func (p DBPreferences) Set(key, value string) error {
	return db.SetPreference(p.DB, key, value)
}

// Sensors bundles the collaborators and produces evaluation contexts.
type Sensors struct {
	Location *Location
	Weather  *Weather
	Emotion  *Emotion

	// Now defaults to time.Now.
	Now func() time.Time
}

// Context snapshots the current readings. A missing or unknown reading is
// left nil so only conditions depending on it fail.
func (s *Sensors) Context() entry.Context {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ctx := entry.Context{Now: now().UTC()}

	if s.Location != nil {
		ctx.Coordinate = s.Location.Current()
	}
	if s.Weather != nil {
		if w := s.Weather.Current(); w != entry.WeatherUnknown {
			ctx.Weather = &w
		}
	}
	if s.Emotion != nil {
		em := s.Emotion.Current()
		ctx.Emotion = &em
	}
	return ctx
}
