package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/logging"
)

func TestOpen_FreshBaseDir(t *testing.T) {
	baseDir := t.TempDir()

	a, err := Open(baseDir, config.DefaultConfig(), logging.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 0, a.Store.Len())
	assert.Equal(t, entry.EmotionHappy, a.Sensors.Emotion.Current())
	assert.FileExists(t, filepath.Join(baseDir, db.FileName))
}

func TestOpen_InvalidDefaultEmotion(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DefaultEmotion = "ecstatic"

	_, err := Open(t.TempDir(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_emotion")
}

func TestOpen_RestoresStateAcrossRuns(t *testing.T) {
	baseDir := t.TempDir()
	cfg := config.DefaultConfig()

	a, err := Open(baseDir, cfg, nil)
	require.NoError(t, err)

	e := entry.New("calm", "body", a.Sensors.Context().Now)
	calm := entry.EmotionCalm
	e.Emotion = &calm
	_, err = a.Store.Add(e)
	require.NoError(t, err)

	require.NoError(t, a.Sensors.Emotion.Set(entry.EmotionCalm))
	unlocked, err := a.Store.ReevaluateAll(a.Sensors.Context())
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	require.NoError(t, a.Close())

	b, err := Open(baseDir, cfg, nil)
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Store.Get(e.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLocked())
	assert.Equal(t, entry.EmotionCalm, b.Sensors.Emotion.Current())

	events, total, err := db.ListUnlocks(b.DB, db.ListUnlocksFilters{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, e.ID, events[0].EntryID)
}

func TestOpen_EntriesFileOverride(t *testing.T) {
	baseDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.EntriesFile = filepath.Join(t.TempDir(), "journal.json")

	a, err := Open(baseDir, cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Store.Add(entry.New("x", "", a.Sensors.Context().Now))
	require.NoError(t, err)

	_, err = os.Stat(cfg.EntriesFile)
	assert.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(baseDir, "entries.json"))
}
