package ops

import (
	"time"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/store"
)

// SeedDemoInput contains parameters for the SeedDemo operation.
type SeedDemoInput struct {
	Replace bool // clear existing entries first
}

// SeedDemoOutput contains the result of the SeedDemo operation.
type SeedDemoOutput struct {
	Added int      `json:"added"`
	IDs   []string `json:"ids"`
}

// SeedDemo adds the sample notes used to try the app out. Dates are relative to now.
func SeedDemo(st *store.Store, input SeedDemoInput) (*SeedDemoOutput, error) {
	if input.Replace {
		if _, err := st.ClearAll(); err != nil {
			return nil, err
		}
	}

	out := &SeedDemoOutput{IDs: []string{}}
	for _, e := range demoEntries(timeNow().UTC()) {
		saved, err := st.Add(e)
		if err != nil {
			return nil, err
		}
		out.IDs = append(out.IDs, saved.ID)
		out.Added++
	}
	return out, nil
}

func demoEntries(now time.Time) []entry.Entry {
	days := func(n int) time.Time { return now.AddDate(0, 0, -n) }
	hours := func(n int) time.Time { return now.Add(-time.Duration(n) * time.Hour) }
	weather := func(w entry.Weather) *entry.Weather { return &w }
	emotion := func(e entry.Emotion) *entry.Emotion { return &e }
	fence := func(lat, lon, r float64) *entry.Geofence {
		g := entry.NewGeofence(lat, lon, r)
		return &g
	}
	opened := func(t time.Time) *time.Time { return &t }

	note := func(title, content string, created time.Time) entry.Entry {
		return entry.New(title, content, created)
	}

	centralPark := note("Memories from Central Park", "I remember walking through Central Park...", days(5))
	centralPark.Geofence = fence(40.7851, -73.9683, 150)

	grateful := note("Grateful for Today", "Today was amazing!", days(7))
	grateful.Emotion = emotion(entry.EmotionGrateful)
	grateful.UnlockedAt = opened(hours(2))

	rainy := note("Rainy Day Thoughts", "There's something peaceful about rainy days...", days(3))
	rainy.Weather = weather(entry.WeatherRain)

	celebration := note("Celebration Note", "I want to capture this moment of pure joy!", days(10))
	celebration.Emotion = emotion(entry.EmotionHappy)

	beach := note("Beach Sunset Memory", "The perfect beach sunset...", days(14))
	beach.Geofence = fence(34.0522, -118.2437, 200)
	beach.Weather = weather(entry.WeatherClear)

	morning := note("Morning Reflection", "Early mornings have become my favorite time.", days(20))
	morning.UnlockedAt = opened(days(1))

	winter := note("Winter Wonderland", "Snow days are magical.", days(2))
	winter.Weather = weather(entry.WeatherSnow)

	perfect := note("Perfect Day Memory", "Everything aligned perfectly that day...", days(8))
	perfect.Geofence = fence(37.7749, -122.4194, 150)
	perfect.Weather = weather(entry.WeatherPartlyCloudy)
	perfect.Emotion = emotion(entry.EmotionCalm)

	future := note("Future Me", "Hey future me!", hours(12))

	quick := note("Quick Note", "Just a quick thought...", days(4))
	quick.Emotion = emotion(entry.EmotionExcited)
	quick.UnlockedAt = opened(hours(5))

	return []entry.Entry{
		centralPark, grateful, rainy, celebration, beach,
		morning, winter, perfect, future, quick,
	}
}
