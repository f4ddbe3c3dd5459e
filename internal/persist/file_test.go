package persist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/errors"
)

var created = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

func sampleEntries() []entry.Entry {
	plain := entry.New("Morning", "coffee on the balcony", created)

	geo := entry.New("Harbor", "waves", created.Add(time.Hour))
	g := entry.NewGeofence(37.7749, -122.4194, 150)
	geo.Geofence = &g
	w := entry.WeatherRain
	geo.Weather = &w
	em := entry.EmotionCalm
	geo.Emotion = &em
	geo.EarliestUnlock = created.Add(48 * time.Hour)

	opened := entry.New("Opened", "already read", created.Add(2*time.Hour))
	at := created.Add(3 * time.Hour)
	opened.UnlockedAt = &at

	return []entry.Entry{plain, geo, opened}
}

func TestLoad_MissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "entries.json"), nil)

	entries, err := f.Load()
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	f := NewFile(path, nil)
	want := sampleEntries()

	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.True(t, want[i].CreationDate.Equal(got[i].CreationDate))
		assert.True(t, want[i].EarliestUnlock.Equal(got[i].EarliestUnlock))
		assert.Equal(t, want[i].Geofence, got[i].Geofence)
		assert.Equal(t, want[i].Weather, got[i].Weather)
		assert.Equal(t, want[i].Emotion, got[i].Emotion)
		assert.Equal(t, want[i].IsLocked(), got[i].IsLocked())
	}
}

func TestSave_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	f := NewFile(path, nil)
	require.NoError(t, f.Save(sampleEntries()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := f.Load()
	require.NoError(t, err)
	require.NoError(t, f.Save(loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err = f.Load()
	require.NoError(t, err)
	require.NoError(t, f.Save(loaded))
	third, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, string(second), string(third))
}

func TestSave_EmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	f := NewFile(path, nil)

	require.NoError(t, f.Save(nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSave_ExplicitNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	f := NewFile(path, nil)

	require.NoError(t, f.Save([]entry.Entry{entry.New("t", "c", created)}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"geofence": null`)
	assert.Contains(t, text, `"unlockedAt": null`)
	assert.Contains(t, text, `"creationDate": "2025-11-20T09:00:00Z"`)
	assert.Contains(t, text, `"earliestUnlock": "2025-11-20T09:00:00Z"`)
}

func TestSave_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "entries.json"), nil)
	require.NoError(t, f.Save(sampleEntries()))
	require.NoError(t, f.Save(sampleEntries()[:1]))

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, n := range names {
		assert.False(t, strings.HasSuffix(n.Name(), ".tmp"), "leftover temp file %s", n.Name())
	}
}

func TestLoad_CorruptQuarantined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x", "title": `), 0600))
	f := NewFile(path, nil)

	entries, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, `[{"id": "x", "title": `, string(data))

	// A later save succeeds and the next load sees it.
	require.NoError(t, f.Save(sampleEntries()[:1]))
	entries, err = f.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoad_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"object instead of array", `{"entries": []}`},
		{"null document", `null`},
		{"missing id", `[{"title": "a", "creationDate": "2025-11-20T09:00:00Z"}]`},
		{"unknown weather", `[{"id": "a", "title": "a", "weather": "hail", "creationDate": "2025-11-20T09:00:00Z"}]`},
		{"duplicate ids", `[{"id": "a", "title": "a"}, {"id": "a", "title": "b"}]`},
		{"empty file", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "entries.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0600))

			entries, err := NewFile(path, nil).Load()
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestLoad_LegacyWithoutEarliestUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	doc := `[{"id": "a", "title": "old", "content": "", "creationDate": "2024-01-02T03:04:05Z",
		"geofence": null, "weather": "snow", "emotion": null, "unlockedAt": null}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	entries, err := NewFile(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.True(t, e.EarliestUnlock.Equal(e.CreationDate))
	assert.False(t, e.HasTimeCondition())
	require.NotNil(t, e.Weather)
	assert.Equal(t, entry.WeatherSnow, *e.Weather)
}

func TestSave_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entries.json")

	// A non-empty directory at the document path cannot be renamed over.
	require.NoError(t, os.Mkdir(path, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0600))

	err := NewFile(path, nil).Save(sampleEntries())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWriteFailure))

	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, n := range names {
		assert.False(t, strings.HasSuffix(n.Name(), ".tmp"), "leftover temp file %s", n.Name())
	}
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSave_SymlinkRejected(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(target, []byte("[]\n"), 0600))
	link := filepath.Join(dir, "entries.json")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	err := NewFile(link, nil).Save(sampleEntries())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWriteFailure))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSave_TwoAdaptersSamePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	a := NewFile(path, nil)
	b := NewFile(path, nil)

	require.NoError(t, a.Save(sampleEntries()))
	require.NoError(t, b.Save(sampleEntries()[:2]))

	entries, err := a.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
