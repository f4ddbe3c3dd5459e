package entry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Weather is an observable weather state. Tags match the stored document format.
type Weather string

const (
	WeatherClear        Weather = "clear"
	WeatherPartlyCloudy Weather = "partlyCloudy"
	WeatherCloudy       Weather = "cloudy"
	WeatherFoggy        Weather = "foggy"
	WeatherDrizzle      Weather = "drizzle"
	WeatherRain         Weather = "rain"
	WeatherFreezingRain Weather = "freezingRain"
	WeatherSnow         Weather = "snow"
	WeatherSnowGrains   Weather = "snowGrains"
	WeatherThunderstorm Weather = "thunderstorm"

	// WeatherUnknown means no reading is available. It never satisfies a requirement.
	WeatherUnknown Weather = "unknown"
)

// AllWeather lists every weather state, including WeatherUnknown, in display order.
var AllWeather = []Weather{
	WeatherClear, WeatherPartlyCloudy, WeatherCloudy, WeatherFoggy, WeatherDrizzle,
	WeatherRain, WeatherFreezingRain, WeatherSnow, WeatherSnowGrains, WeatherThunderstorm,
	WeatherUnknown,
}

// ParseWeather parses a weather tag. Matching ignores case and the
// separators '-', '_' and ' ', so "partly-cloudy" and "partlyCloudy" are equal.
func ParseWeather(s string) (Weather, error) {
	key := foldTag(s)
	for _, w := range AllWeather {
		if foldTag(string(w)) == key {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown weather %q", s)
}

// UnmarshalText rejects tags outside the enumeration.
func (w *Weather) UnmarshalText(b []byte) error {
	parsed, err := ParseWeather(string(b))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Emotion is a self-reported mood.
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionRelaxed   Emotion = "relaxed"
	EmotionExcited   Emotion = "excited"
	EmotionStressed  Emotion = "stressed"
	EmotionBored     Emotion = "bored"
	EmotionAnxious   Emotion = "anxious"
	EmotionGrateful  Emotion = "grateful"
	EmotionCalm      Emotion = "calm"
	EmotionEnergetic Emotion = "energetic"
	EmotionTired     Emotion = "tired"
)

// AllEmotions lists every emotion in display order.
var AllEmotions = []Emotion{
	EmotionHappy, EmotionSad, EmotionAngry, EmotionRelaxed, EmotionExcited, EmotionStressed,
	EmotionBored, EmotionAnxious, EmotionGrateful, EmotionCalm, EmotionEnergetic, EmotionTired,
}

// ParseEmotion parses an emotion tag, ignoring case and surrounding whitespace.
func ParseEmotion(s string) (Emotion, error) {
	key := foldTag(s)
	for _, e := range AllEmotions {
		if string(e) == key {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown emotion %q", s)
}

// UnmarshalText rejects tags outside the enumeration.
func (e *Emotion) UnmarshalText(b []byte) error {
	parsed, err := ParseEmotion(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func foldTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// Coordinate is a point on the earth's surface in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geofence is a circular zone. Radius is in meters and must be positive.
type Geofence struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// NewGeofence creates a geofence with a fresh id.
func NewGeofence(latitude, longitude, radius float64) Geofence {
	return Geofence{
		ID:        uuid.NewString(),
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    radius,
	}
}

// Center returns the geofence center as a Coordinate.
func (g Geofence) Center() Coordinate {
	return Coordinate{Latitude: g.Latitude, Longitude: g.Longitude}
}

// Entry is a journal note plus its unlock conditions and lock state.
// Field order is the serialized field order of the entries document.
type Entry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CreationDate time.Time `json:"creationDate"`

	// Unlock conditions; nil means the condition is not set.
	Geofence *Geofence `json:"geofence"`
	Weather  *Weather  `json:"weather"`
	Emotion  *Emotion  `json:"emotion"`

	// UnlockedAt is nil while locked. Once set it is never cleared.
	UnlockedAt *time.Time `json:"unlockedAt"`

	// EarliestUnlock is always present. It defaults to CreationDate.
	EarliestUnlock time.Time `json:"earliestUnlock"`
}

// New creates a locked entry with a fresh id, created at now, with no conditions.
func New(title, content string, now time.Time) Entry {
	created := now.UTC()
	return Entry{
		ID:             uuid.NewString(),
		Title:          title,
		Content:        content,
		CreationDate:   created,
		EarliestUnlock: created,
	}
}

// IsLocked reports whether the entry has not been unlocked yet.
func (e Entry) IsLocked() bool {
	return e.UnlockedAt == nil
}

// HasConditions reports whether any location, weather or emotion condition is set.
func (e Entry) HasConditions() bool {
	return e.Geofence != nil || e.Weather != nil || e.Emotion != nil
}

// HasTimeCondition reports whether EarliestUnlock lies after CreationDate.
// An earliest unlock at or before creation is always satisfied.
func (e Entry) HasTimeCondition() bool {
	return e.EarliestUnlock.After(e.CreationDate)
}

// Clone returns a deep copy so callers cannot mutate shared pointers.
func (e Entry) Clone() Entry {
	c := e
	if e.Geofence != nil {
		g := *e.Geofence
		c.Geofence = &g
	}
	if e.Weather != nil {
		w := *e.Weather
		c.Weather = &w
	}
	if e.Emotion != nil {
		em := *e.Emotion
		c.Emotion = &em
	}
	if e.UnlockedAt != nil {
		u := *e.UnlockedAt
		c.UnlockedAt = &u
	}
	return c
}

// CloneAll deep-copies a slice of entries.
func CloneAll(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
