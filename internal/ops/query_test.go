package ops

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/spark/internal/errors"
)

func TestQuery(t *testing.T) {
	env := setupEnv(t)
	for _, in := range []CreateInput{
		{Title: "Rainy walk", Weather: strPtr("rain")},
		{Title: "Calm morning", Emotion: strPtr("calm")},
		{Title: "Open note"},
	} {
		_, err := Create(env.store, env.cfg, in)
		require.NoError(t, err)
		env.advance(time.Minute)
	}
	_, err := Reevaluate(env.store, env.sensors, ReevaluateInput{})
	require.NoError(t, err)

	out, err := Query(env.store, QueryInput{})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "Open note", out.Items[0].Title)
	assert.Equal(t, 3, out.Pagination.Total)

	out, err = Query(env.store, QueryInput{Lock: "locked", Sort: "oldest"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Rainy walk", out.Items[0].Title)

	out, err = Query(env.store, QueryInput{Lock: "unlocked", Sort: "recently-unlocked"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Open note", out.Items[0].Title)
	assert.NotNil(t, out.Items[0].UnlockedAt)

	out, err = Query(env.store, QueryInput{Weather: "RAIN"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Rainy walk", out.Items[0].Title)

	out, err = Query(env.store, QueryInput{Text: "  CALM   morn "})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
}

func TestQuery_Pagination(t *testing.T) {
	env := setupEnv(t)
	for i := 0; i < 5; i++ {
		_, err := Create(env.store, env.cfg, CreateInput{Title: "n"})
		require.NoError(t, err)
	}

	out, err := Query(env.store, QueryInput{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.False(t, out.Pagination.HasMore)

	out, err = Query(env.store, QueryInput{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}

func TestQuery_InvalidFilters(t *testing.T) {
	env := setupEnv(t)

	for _, in := range []QueryInput{
		{Lock: "sealed"},
		{Sort: "random"},
		{Emotion: "meh"},
		{Weather: "hail"},
	} {
		_, err := Query(env.store, in)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "input %+v", in)
	}
}
