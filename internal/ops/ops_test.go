package ops

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/db"
	"github.com/hpungsan/spark/internal/entry"
	"github.com/hpungsan/spark/internal/persist"
	"github.com/hpungsan/spark/internal/sensors"
	"github.com/hpungsan/spark/internal/store"
)

var testNow = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	baseDir string
	cfg     *config.Config
	db      *sql.DB
	store   *store.Store
	sensors *sensors.Sensors
	clock   *time.Time
}

// setupEnv wires a store, sensors and database in a temp dir with a frozen clock.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	baseDir := t.TempDir()

	clock := testNow
	prev := timeNow
	timeNow = func() time.Time { return clock }
	t.Cleanup(func() { timeNow = prev })

	database, err := db.Init(baseDir)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	st, err := store.Open(persist.NewFile(cfg.EntriesPath(baseDir), nil))
	require.NoError(t, err)

	prefs := sensors.DBPreferences{DB: database}
	sn := &sensors.Sensors{
		Location: sensors.NewLocation(prefs, nil),
		Weather:  sensors.NewWeather(prefs, nil),
		Emotion:  sensors.NewEmotion(prefs, entry.EmotionHappy, nil),
		Now:      func() time.Time { return clock },
	}

	return &testEnv{baseDir: baseDir, cfg: cfg, db: database, store: st, sensors: sn, clock: &clock}
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

// reopen loads the entries document into a fresh store.
func (e *testEnv) reopen(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(persist.NewFile(e.cfg.EntriesPath(e.baseDir), nil))
	require.NoError(t, err)
	return st
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func exportsPath(e *testEnv, name string) string {
	return filepath.Join(config.ExportsDir(e.baseDir), name)
}

func TestClampPage(t *testing.T) {
	limit, offset := clampPage(0, -3)
	assert.Equal(t, DefaultListLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _ = clampPage(1000, 0)
	assert.Equal(t, MaxListLimit, limit)
}

func TestNewPagination(t *testing.T) {
	p := newPagination(10, 0, 25)
	assert.True(t, p.HasMore)
	p = newPagination(10, 20, 25)
	assert.False(t, p.HasMore)
	assert.Equal(t, 25, p.Total)
}

func TestResolveEarliestUnlock(t *testing.T) {
	got, err := resolveEarliestUnlock(testNow, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, testNow, got)

	got, err = resolveEarliestUnlock(testNow, strPtr("2026-01-01T00:00:00+02:00"), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC), got)

	got, err = resolveEarliestUnlock(testNow, nil, strPtr("2d"))
	require.NoError(t, err)
	assert.Equal(t, testNow.AddDate(0, 0, 2), got)

	_, err = resolveEarliestUnlock(testNow, strPtr("2026-01-01T00:00:00Z"), strPtr("2d"))
	assert.Error(t, err)

	_, err = resolveEarliestUnlock(testNow, strPtr("tomorrow"), nil)
	assert.Error(t, err)
}
