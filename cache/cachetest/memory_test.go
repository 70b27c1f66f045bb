package cachetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {

	ctx := context.Background()
	m := NewMemory()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.SetJSON(ctx, "posts:page:1", []string{"a"}, time.Minute))
	require.NoError(t, m.SetJSON(ctx, "posts:page:2", []string{"b"}, time.Minute))
	require.NoError(t, m.SetJSON(ctx, "settings:blog", "s", time.Minute))
	require.Equal(t, 3, m.Len())

	require.NoError(t, m.DeletePattern(ctx, "posts:page:*"))
	require.Equal(t, 1, m.Len())

	now = now.Add(2 * time.Minute)
	var out string
	found, err := m.GetJSON(ctx, "settings:blog", &out)
	require.NoError(t, err)
	require.False(t, found, "entry should have expired")

	_, found, err = m.Incr(ctx, "pc:x", 1)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.SetInt(ctx, "pc:x", 9, 0))
	n, found, err := m.Incr(ctx, "pc:x", 1)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 10, n)
}
