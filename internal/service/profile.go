package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/constants"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"
	"ranked-clicker/internal/rating"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProfileStore is the persistence collaborator for the player profile.
type ProfileStore interface {
	Get(ctx context.Context) (*domain.PlayerProfile, error)
	Upsert(ctx context.Context, p *domain.PlayerProfile) error
}

// ProfileService loads and saves the single player profile. Storage failures
// are never fatal: loads fall back to a default profile and saves only log.
type ProfileService struct {
	store  ProfileStore
	cfg    *config.Config
	logger zerolog.Logger
}

func NewProfileService(store ProfileStore, cfg *config.Config, logger zerolog.Logger) *ProfileService {
	return &ProfileService{store: store, cfg: cfg, logger: logger}
}

// LoadOrDefault returns the stored profile, or a fresh default when nothing
// usable is on disk.
func (s *ProfileService) LoadOrDefault(ctx context.Context) *domain.PlayerProfile {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	p, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug().Msg("no stored profile, starting fresh")
		} else {
			s.logger.Warn().Err(err).Msg("failed to load profile, starting fresh")
		}
		return s.Default()
	}

	s.logger.Info().
		Str("username", p.Username).
		Int("total_games", p.TotalGames).
		Msg("profile loaded")
	return p
}

// Default builds a brand-new profile at the baseline rating. Ranks are
// derived from MMR so the rank invariant holds from the first frame.
func (s *ProfileService) Default() *domain.PlayerProfile {
	p := &domain.PlayerProfile{
		Username:             s.cfg.Username,
		Level:                1,
		CasualMMR:            rating.DefaultMMR,
		PeakCasualMMR:        rating.DefaultMMR,
		RankedMMR:            make(map[domain.Mode]int),
		PeakRankedMMR:        make(map[domain.Mode]int),
		Rank:                 make(map[domain.Mode]domain.Standing),
		SeasonWins:           make(map[domain.Mode]int),
		SeasonRewardProgress: make(map[domain.Mode]domain.Rank),
		PlacementMatches:     make(map[domain.Mode]int),
		PlacementComplete:    make(map[domain.Mode]bool),
		Titles:               []string{fmt.Sprintf("SINCE S%d", s.cfg.CurrentSeason)},
		CreatedAt:            time.Now(),
	}
	for _, mode := range domain.Modes {
		p.RankedMMR[mode] = rating.DefaultMMR
		p.PeakRankedMMR[mode] = rating.DefaultMMR
		p.Rank[mode] = rank.FromMMR(rating.DefaultMMR)
		p.SeasonRewardProgress[mode] = rank.Order[0]
	}
	return p
}

// Save persists the profile synchronously. Failures are logged and returned
// but callers are free to ignore them.
func (s *ProfileService) Save(ctx context.Context, p *domain.PlayerProfile) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.store.Upsert(ctx, p); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save profile")
		return err
	}
	return nil
}

// SaveAsync persists a snapshot of the profile in the background. Used on
// the match-end path so a slow disk never stalls the game loop.
func (s *ProfileService) SaveAsync(p *domain.PlayerProfile) {
	snapshot := p.Clone()

	g := new(errgroup.Group)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
		defer cancel()
		return s.store.Upsert(ctx, snapshot)
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Warn().Err(err).Msg("background profile save failed")
		}
	}()
}
