package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/spark/internal/errors"
)

func TestUpdate(t *testing.T) {
	env := setupEnv(t)
	created, err := Create(env.store, env.cfg, CreateInput{
		Title:    "draft",
		Content:  "v1",
		Weather:  strPtr("rain"),
		Emotion:  strPtr("sad"),
		Geofence: &GeofenceInput{Latitude: 1, Longitude: 1, Radius: 10},
	})
	require.NoError(t, err)

	env.advance(time.Hour)
	out, err := Update(env.store, env.cfg, UpdateInput{
		ID:            created.ID,
		Title:         strPtr("final"),
		Content:       strPtr("v2"),
		Weather:       strPtr(""),
		ClearGeofence: true,
		UnlockAfter:   strPtr("2h"),
	})
	require.NoError(t, err)
	assert.True(t, out.Locked)
	assert.Equal(t, testNow.Add(3*time.Hour), out.EarliestUnlock)

	e, err := env.store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", e.Title)
	assert.Equal(t, "v2", e.Content)
	assert.Nil(t, e.Weather)
	assert.Nil(t, e.Geofence)
	require.NotNil(t, e.Emotion, "untouched condition kept")
	assert.Equal(t, testNow, e.CreationDate)
}

func TestUpdate_ResetEarliestUnlock(t *testing.T) {
	env := setupEnv(t)
	created, err := Create(env.store, env.cfg, CreateInput{Title: "t", UnlockAfter: strPtr("3d")})
	require.NoError(t, err)

	out, err := Update(env.store, env.cfg, UpdateInput{ID: created.ID, EarliestUnlock: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, testNow, out.EarliestUnlock)
}

func TestUpdate_KeepsUnlocked(t *testing.T) {
	env := setupEnv(t)
	created, err := Create(env.store, env.cfg, CreateInput{Title: "t"})
	require.NoError(t, err)
	_, err = Reevaluate(env.store, env.sensors, ReevaluateInput{})
	require.NoError(t, err)

	out, err := Update(env.store, env.cfg, UpdateInput{ID: created.ID, Weather: strPtr("snow")})
	require.NoError(t, err)
	assert.False(t, out.Locked)
}

func TestUpdate_Errors(t *testing.T) {
	env := setupEnv(t)
	created, err := Create(env.store, env.cfg, CreateInput{Title: "t"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input UpdateInput
		code  errors.ErrorCode
	}{
		{"missing id", UpdateInput{}, errors.ErrInvalidRequest},
		{"unknown id", UpdateInput{ID: "ghost", Title: strPtr("x")}, errors.ErrNotFound},
		{"blank title", UpdateInput{ID: created.ID, Title: strPtr(" ")}, errors.ErrInvalidRequest},
		{"geofence and clear", UpdateInput{ID: created.ID, Geofence: &GeofenceInput{Radius: 1}, ClearGeofence: true}, errors.ErrInvalidRequest},
		{"bad emotion", UpdateInput{ID: created.ID, Emotion: strPtr("meh")}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Update(env.store, env.cfg, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	e, err := env.store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", e.Title)
}
