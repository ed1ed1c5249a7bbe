package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(rdb, zaptest.NewLogger(t)), mr
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Empty(t, s.History)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestManagerCreateWithIDIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first, err := m.CreateWithID(ctx, "sess-42")
	require.NoError(t, err)
	require.NoError(t, m.AddTurn(ctx, "sess-42", Turn{Role: "user", Content: "hello"}))

	again, err := m.CreateWithID(ctx, "sess-42")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, again.History, 1)
}

func TestManagerAddTurnCreatesSessionOnFirstWrite(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	// Fresh conversations write history without a prior Create call.
	require.NoError(t, m.AddTurn(ctx, "fresh-session", Turn{Role: "user", Content: "first question"}))

	got, err := m.Get(ctx, "fresh-session")
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, "first question", got.History[0].Content)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestManagerGetMissing(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerHistoryCappedAtMax(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)

	for i := 0; i < MaxHistory+5; i++ {
		require.NoError(t, m.AddTurn(ctx, s.ID, Turn{
			Role:    "user",
			Content: fmt.Sprintf("turn %d", i),
		}))
	}

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.History, MaxHistory)
	// Oldest turns were dropped.
	assert.Equal(t, "turn 5", got.History[0].Content)
	assert.Equal(t, fmt.Sprintf("turn %d", MaxHistory+4), got.History[MaxHistory-1].Content)
}

func TestManagerSurvivesLocalCacheLoss(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, m.AddTurn(ctx, s.ID, Turn{Role: "user", Content: "persisted"}))

	// A second manager over the same Redis sees the session.
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m2 := NewManager(rdb, zaptest.NewLogger(t))
	got, err := m2.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, "persisted", got.History[0].Content)
}

func TestManagerDelete(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, s.ID))

	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRecentHistory(t *testing.T) {
	s := &Session{History: []Turn{
		{Content: "a"}, {Content: "b"}, {Content: "c"},
	}}
	assert.Len(t, s.RecentHistory(2), 2)
	assert.Equal(t, "b", s.RecentHistory(2)[0].Content)
	assert.Len(t, s.RecentHistory(10), 3)
}
