package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func fixture() []Entry {
	day := 24 * time.Hour
	mk := func(title, content string, ageDays int) Entry {
		return New(title, content, baseTime.Add(-time.Duration(ageDays)*day))
	}

	park := mk("Memories from Central Park", "I remember walking through Central Park", 5)
	fence := NewGeofence(40.7851, -73.9683, 150)
	park.Geofence = &fence

	grateful := mk("Grateful for Today", "Today was amazing!", 7)
	grateful.Emotion = emotionPtr(EmotionGrateful)
	u1 := baseTime.Add(-2 * time.Hour)
	grateful.UnlockedAt = &u1

	rainy := mk("Rainy Day Thoughts", "There's something peaceful about rainy days", 3)
	rainy.Weather = weatherPtr(WeatherRain)

	morning := mk("Morning Reflection", "Early   MORNINGS have become my favorite", 20)
	u2 := baseTime.Add(-24 * time.Hour)
	morning.UnlockedAt = &u2

	quick := mk("Quick Note", "Just a quick thought", 4)
	quick.Emotion = emotionPtr(EmotionExcited)
	u3 := baseTime.Add(-5 * time.Hour)
	quick.UnlockedAt = &u3

	return []Entry{park, grateful, rainy, morning, quick}
}

func TestApply_DefaultNewestFirst(t *testing.T) {
	got := Apply(fixture(), Query{})
	assert.Equal(t, []string{
		"Rainy Day Thoughts",
		"Quick Note",
		"Memories from Central Park",
		"Grateful for Today",
		"Morning Reflection",
	}, titles(got))
}

func TestApply_OldestFirst(t *testing.T) {
	got := Apply(fixture(), Query{Sort: SortOldest})
	assert.Equal(t, "Morning Reflection", got[0].Title)
	assert.Equal(t, "Rainy Day Thoughts", got[len(got)-1].Title)
}

func TestApply_RecentlyUnlockedLockedLast(t *testing.T) {
	got := Apply(fixture(), Query{Sort: SortRecentlyUnlocked})
	assert.Equal(t, []string{
		"Grateful for Today",
		"Quick Note",
		"Morning Reflection",
		// locked entries keep insertion order
		"Memories from Central Park",
		"Rainy Day Thoughts",
	}, titles(got))
}

func TestApply_StableForEqualKeys(t *testing.T) {
	a := New("a", "", baseTime)
	b := New("b", "", baseTime)
	c := New("c", "", baseTime)

	for _, order := range []SortOrder{SortNewest, SortOldest, SortRecentlyUnlocked} {
		got := Apply([]Entry{a, b, c}, Query{Sort: order})
		assert.Equal(t, []string{"a", "b", "c"}, titles(got), "order %s", order)
	}
}

func TestApply_TextFilter(t *testing.T) {
	got := Apply(fixture(), Query{Text: "  central   park "})
	require.Len(t, got, 1)
	assert.Equal(t, "Memories from Central Park", got[0].Title)

	got = Apply(fixture(), Query{Text: "early mornings"})
	require.Len(t, got, 1)
	assert.Equal(t, "Morning Reflection", got[0].Title)

	assert.Empty(t, Apply(fixture(), Query{Text: "nothing like this"}))
}

func TestApply_LockFilter(t *testing.T) {
	locked := Apply(fixture(), Query{Lock: LockLocked})
	assert.ElementsMatch(t, []string{"Memories from Central Park", "Rainy Day Thoughts"}, titles(locked))

	unlocked := Apply(fixture(), Query{Lock: LockUnlocked})
	assert.Len(t, unlocked, 3)
	for _, e := range unlocked {
		assert.False(t, e.IsLocked())
	}
}

func TestApply_ConditionFilters(t *testing.T) {
	got := Apply(fixture(), Query{Emotion: emotionPtr(EmotionGrateful)})
	assert.Equal(t, []string{"Grateful for Today"}, titles(got))

	got = Apply(fixture(), Query{Weather: weatherPtr(WeatherRain)})
	assert.Equal(t, []string{"Rainy Day Thoughts"}, titles(got))

	assert.Empty(t, Apply(fixture(), Query{Weather: weatherPtr(WeatherSnow)}))
}

func TestApply_CombinedFilters(t *testing.T) {
	got := Apply(fixture(), Query{Lock: LockUnlocked, Emotion: emotionPtr(EmotionExcited), Text: "quick"})
	assert.Equal(t, []string{"Quick Note"}, titles(got))
}

func TestParseLockFilter(t *testing.T) {
	for in, want := range map[string]LockFilter{"": LockAll, "ALL": LockAll, "locked": LockLocked, " unlocked ": LockUnlocked} {
		got, err := ParseLockFilter(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLockFilter("sometimes")
	assert.Error(t, err)
}

func TestParseSortOrder(t *testing.T) {
	for in, want := range map[string]SortOrder{"": SortNewest, "newest": SortNewest, "Oldest": SortOldest, "recently-unlocked": SortRecentlyUnlocked} {
		got, err := ParseSortOrder(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortOrder("random")
	assert.Error(t, err)
}
