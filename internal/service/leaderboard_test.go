package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/leaderboard"
	"ranked-clicker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaderboardStore struct {
	snap     *repository.Snapshot
	loadErr  error
	replaces int
	updates  int
}

func (f *fakeLeaderboardStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.snap == nil {
		return nil, sql.ErrNoRows
	}
	return f.snap, nil
}

func (f *fakeLeaderboardStore) Replace(ctx context.Context, snap *repository.Snapshot) error {
	f.snap = snap
	f.replaces++
	return nil
}

func (f *fakeLeaderboardStore) Update(ctx context.Context, snap *repository.Snapshot) error {
	f.snap = snap
	f.updates++
	return nil
}

func newTestLeaderboardService(store *fakeLeaderboardStore) *LeaderboardService {
	cfg := &config.Config{CurrentSeason: 2}
	return NewLeaderboardService(store, cfg, zerolog.Nop())
}

func TestLeaderboardGeneratesWhenEmpty(t *testing.T) {
	store := &fakeLeaderboardStore{}
	s := newTestLeaderboardService(store)

	top, err := s.Top(context.Background(), domain.Mode1v1)
	require.NoError(t, err)
	assert.Len(t, top, leaderboard.Size)
	assert.Equal(t, 1, store.replaces, "fresh population is persisted")
	require.NotNil(t, store.snap)
	assert.Equal(t, 2, store.snap.Season)

	// Subsequent reads hit the cache, not the store.
	_, err = s.Top(context.Background(), domain.Mode2v2)
	require.NoError(t, err)
	assert.Equal(t, 1, store.replaces)
}

func TestLeaderboardRegeneratesOnSeasonChange(t *testing.T) {
	store := &fakeLeaderboardStore{snap: &repository.Snapshot{
		Players:    []domain.LeaderboardPlayer{{ID: "stale", Username: "OldGuard"}},
		Season:     1,
		LastUpdate: time.Now(),
	}}
	s := newTestLeaderboardService(store)

	top, err := s.Top(context.Background(), domain.Mode1v1)
	require.NoError(t, err)
	assert.Len(t, top, leaderboard.Size)
	assert.Equal(t, 1, store.replaces)
	for _, p := range top {
		assert.NotEqual(t, "OldGuard", p.Username)
	}
}

func TestLeaderboardRegeneratesOnLoadFailure(t *testing.T) {
	store := &fakeLeaderboardStore{loadErr: sql.ErrConnDone}
	s := newTestLeaderboardService(store)

	top, err := s.Top(context.Background(), domain.Mode1v1)
	require.NoError(t, err, "storage failure degrades to a fresh population")
	assert.Len(t, top, leaderboard.Size)
}

func TestLeaderboardDriftPersisted(t *testing.T) {
	store := &fakeLeaderboardStore{}
	s := newTestLeaderboardService(store)

	_, err := s.Top(context.Background(), domain.Mode1v1)
	require.NoError(t, err)

	// Age the cached snapshot past the drift interval.
	s.mu.Lock()
	s.cached.LastUpdate = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	_, err = s.Top(context.Background(), domain.Mode1v1)
	require.NoError(t, err)
	assert.Equal(t, 1, store.updates, "drift is written back")
}

func TestLeaderboardPlayerPosition(t *testing.T) {
	store := &fakeLeaderboardStore{}
	s := newTestLeaderboardService(store)
	ctx := context.Background()

	_, visible, err := s.PlayerPosition(ctx, domain.Mode1v1, 1200)
	require.NoError(t, err)
	assert.False(t, visible, "sub-gate ratings never place")

	pos, visible, err := s.PlayerPosition(ctx, domain.Mode1v1, 4000)
	require.NoError(t, err)
	require.True(t, visible)
	assert.Equal(t, 1, pos)

	assert.True(t, s.Visible(1650))
	assert.False(t, s.Visible(1599))
}
