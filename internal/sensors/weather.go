package sensors

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/logging"
)

// Weather holds the last known condition. Fetch failures keep the previous value.
type Weather struct {
	mu    sync.Mutex
	last  entry.Weather
	prefs Preferences
	log   logrus.FieldLogger
}

// NewWeather restores the last known condition, or unknown. prefs may be nil.
func NewWeather(prefs Preferences, log logrus.FieldLogger) *Weather {
	w := &Weather{
		last:  entry.WeatherUnknown,
		prefs: prefs,
		log:   logging.OrDiscard(log),
	}
	if prefs == nil {
		return w
	}
	v, ok, err := prefs.Get(db.PrefLastWeather)
	if err != nil {
		w.log.WithError(err).Warn("could not read last weather")
		return w
	}
	if ok {
		if parsed, err := entry.ParseWeather(v); err == nil {
			w.last = parsed
		}
	}
	return w
}

// Report delivers the outcome of a weather fetch. A non-nil err is logged and
// the last known value stays current.
func (w *Weather) Report(value entry.Weather, err error) {
	if err != nil {
		w.log.WithError(err).Warn("weather fetch failed, keeping last known value")
		return
	}

	w.mu.Lock()
	w.last = value
	w.mu.Unlock()

	if w.prefs != nil {
		if err := w.prefs.Set(db.PrefLastWeather, string(value)); err != nil {
			w.log.WithError(err).Warn("could not remember weather")
		}
	}
}

// Current returns the last known condition.
func (w *Weather) Current() entry.Weather {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
