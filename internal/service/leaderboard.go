package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"sync"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/leaderboard"
	"ranked-clicker/internal/repository"

	"github.com/rs/zerolog"
)

// LeaderboardStore persists the synthetic population between runs.
type LeaderboardStore interface {
	Load(ctx context.Context) (*repository.Snapshot, error)
	Replace(ctx context.Context, snap *repository.Snapshot) error
	Update(ctx context.Context, snap *repository.Snapshot) error
}

// LeaderboardService lazily materializes the synthetic top ladder, drifts it
// on read, and regenerates it wholesale on season rollover.
type LeaderboardService struct {
	mu     sync.Mutex
	store  LeaderboardStore
	sim    *leaderboard.Simulator
	season int
	logger zerolog.Logger

	cached *repository.Snapshot
}

func NewLeaderboardService(store LeaderboardStore, cfg *config.Config, logger zerolog.Logger) *LeaderboardService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &LeaderboardService{
		store:  store,
		sim:    leaderboard.NewSimulator(rng, cfg.CurrentSeason),
		season: cfg.CurrentSeason,
		logger: logger,
	}
}

// Top returns the visible board for a mode, best rating first.
func (s *LeaderboardService) Top(ctx context.Context, mode domain.Mode) ([]domain.LeaderboardPlayer, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return leaderboard.TopN(snap.Players, mode), nil
}

// PlayerPosition reports where the real player would place on the board, if
// anywhere.
func (s *LeaderboardService) PlayerPosition(ctx context.Context, mode domain.Mode, playerMMR int) (int, bool, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, false, err
	}
	pos, ok := leaderboard.Position(snap.Players, mode, playerMMR)
	return pos, ok, nil
}

// Visible reports whether the real player clears the visibility gate.
func (s *LeaderboardService) Visible(playerMMR int) bool {
	return leaderboard.ShouldShow(playerMMR)
}

// snapshot loads or builds the population, then applies any pending drift.
// Persistence failures degrade to the in-memory copy and are only logged.
func (s *LeaderboardService) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		snap, err := s.store.Load(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			snap = nil
		case err != nil:
			s.logger.Warn().Err(err).Msg("failed to load leaderboard, regenerating")
			snap = nil
		}

		if snap != nil && snap.Season != s.season {
			s.logger.Info().
				Int("stored_season", snap.Season).
				Int("current_season", s.season).
				Msg("season changed, regenerating leaderboard")
			snap = nil
		}

		if snap == nil {
			players, err := s.sim.GeneratePopulation()
			if err != nil {
				return nil, err
			}
			snap = &repository.Snapshot{
				Players:    players,
				Season:     s.season,
				LastUpdate: time.Now(),
			}
			if err := s.store.Replace(ctx, snap); err != nil {
				s.logger.Warn().Err(err).Msg("failed to persist leaderboard")
			}
		}
		s.cached = snap
	}

	now := time.Now()
	if s.sim.Drift(s.cached.Players, s.cached.LastUpdate, now) {
		s.cached.LastUpdate = now
		if err := s.store.Update(ctx, s.cached); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist leaderboard drift")
		}
	}

	return s.cached, nil
}
