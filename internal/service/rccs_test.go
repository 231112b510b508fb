package service

import (
	"context"
	"testing"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rccs"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRCCSService(t *testing.T) (*RCCSService, *GameService) {
	t.Helper()
	game, _, _ := newTestService(t)
	cfg := &config.Config{Username: "Tester", CurrentSeason: 2}
	return NewRCCSService(game, cfg, zerolog.Nop()), game
}

func TestRCCSWeek(t *testing.T) {
	s, _ := newTestRCCSService(t)

	week, description := s.Week(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, week)
	assert.Equal(t, "Regional Tournament 1", description)

	week, description = s.Week(time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 4, week)
	assert.Equal(t, "Major + Worlds", description)
}

func TestRCCSSimulateValidation(t *testing.T) {
	s, _ := newTestRCCSService(t)
	ctx := context.Background()

	_, err := s.Simulate(ctx, rccs.TournamentType("Showmatch"), domain.Mode1v1)
	assert.ErrorIs(t, err, ErrInvalidTournament)

	_, err = s.Simulate(ctx, rccs.Regional1, domain.Mode("5v5"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestRCCSSimulateAwardsTitles(t *testing.T) {
	s, game := newTestRCCSService(t)
	ctx := context.Background()

	outcome, err := s.Simulate(ctx, rccs.Regional1, domain.Mode1v1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, outcome.Result.Placement, 1)
	assert.LessOrEqual(t, outcome.Result.Placement, 32)

	if outcome.Result.Title != "" {
		assert.Contains(t, outcome.NewTitles, outcome.Result.Title)
		assert.True(t, game.Profile().HasTitle(outcome.Result.Title))
	}

	// Re-earning the same title awards nothing new.
	for i := 0; i < 20; i++ {
		repeat, err := s.Simulate(ctx, rccs.Regional1, domain.Mode1v1)
		require.NoError(t, err)
		for _, title := range repeat.NewTitles {
			assert.Equal(t, 1, countTitle(game, title))
		}
	}
}

func countTitle(game *GameService, title string) int {
	count := 0
	for _, t := range game.Profile().Titles {
		if t == title {
			count++
		}
	}
	return count
}

func TestRCCSEliteAwardedOnce(t *testing.T) {
	s, game := newTestRCCSService(t)
	ctx := context.Background()

	// Bank three qualifying titles; a fourth distinct one earned in the
	// bracket trips the elite award. Max out the rating so every run lands
	// champion or finalist.
	game.AwardTitles(ctx,
		"RCCS S2 1V1 REGIONAL CHAMPION",
		"RCCS S2 2V2 REGIONAL CHAMPION",
		"RCCS S2 3V3 MAJOR CHAMPION",
	)
	s.game.mu.Lock()
	s.game.profile.RankedMMR[domain.Mode2v2] = 2000
	s.game.mu.Unlock()

	eliteSeen := false
	for i := 0; i < 200 && !eliteSeen; i++ {
		outcome, err := s.Simulate(ctx, rccs.Regional2, domain.Mode2v2)
		require.NoError(t, err)
		eliteSeen = outcome.EliteEarned
	}
	require.True(t, eliteSeen, "an elite-eligible player eventually wins a fourth title")
	assert.True(t, game.Profile().HasTitle("RCCS S2 ELITE"))

	// Once earned, further wins never re-award it.
	for i := 0; i < 20; i++ {
		outcome, err := s.Simulate(ctx, rccs.Regional2, domain.Mode2v2)
		require.NoError(t, err)
		assert.False(t, outcome.EliteEarned)
	}
	assert.Equal(t, 1, countTitle(game, "RCCS S2 ELITE"))
}
