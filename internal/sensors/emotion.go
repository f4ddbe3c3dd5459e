package sensors

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
	"github.com/hpungsan/spark/internal/logging"
)

// Emotion holds the user's self-reported mood.
type Emotion struct {
	mu      sync.Mutex
	current entry.Emotion
	prefs   Preferences
	log     logrus.FieldLogger
}

// NewEmotion restores the remembered mood, falling back to def. prefs may be nil.
func NewEmotion(prefs Preferences, def entry.Emotion, log logrus.FieldLogger) *Emotion {
	if def == "" {
		def = entry.EmotionHappy
	}
	e := &Emotion{
		current: def,
		prefs:   prefs,
		log:     logging.OrDiscard(log),
	}
	if prefs == nil {
		return e
	}
	v, ok, err := prefs.Get(db.PrefEmotion)
	if err != nil {
		e.log.WithError(err).Warn("could not read emotion")
		return e
	}
	if ok {
		if parsed, err := entry.ParseEmotion(v); err == nil {
			e.current = parsed
		}
	}
	return e
}

// Current returns the current mood.
func (e *Emotion) Current() entry.Emotion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Set changes the mood and remembers it.
func (e *Emotion) Set(value entry.Emotion) error {
	if _, err := entry.ParseEmotion(string(value)); err != nil {
		return errors.NewInvalidRequest(err.Error())
	}

	e.mu.Lock()
	e.current = value
	e.mu.Unlock()

	if e.prefs != nil {
		return e.prefs.Set(db.PrefEmotion, string(value))
	}
	return nil
}
