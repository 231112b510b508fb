package service

import (
	"context"
	"math/rand"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rccs"

	"github.com/rs/zerolog"
)

// RCCSService runs simulated championship-series brackets for the player and
// banks the titles they earn.
type RCCSService struct {
	game   *GameService
	rng    *rand.Rand
	season int
	logger zerolog.Logger
}

func NewRCCSService(game *GameService, cfg *config.Config, logger zerolog.Logger) *RCCSService {
	return &RCCSService{
		game:   game,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		season: cfg.CurrentSeason,
		logger: logger,
	}
}

// Week reports where a date falls in the four-week tournament cycle.
func (s *RCCSService) Week(now time.Time) (int, string) {
	week := rccs.CurrentWeek(now)
	return week, rccs.WeekDescription(week)
}

// TournamentOutcome is one simulated bracket run plus any titles awarded.
type TournamentOutcome struct {
	Result      rccs.Result
	NewTitles   []string
	EliteEarned bool
}

// Simulate runs one tournament against the player's ranked rating for the
// mode. Earned titles, including the elite title once the player has enough
// championship results, are added idempotently.
func (s *RCCSService) Simulate(ctx context.Context, t rccs.TournamentType, mode domain.Mode) (*TournamentOutcome, error) {
	if !t.Valid() {
		return nil, ErrInvalidTournament
	}
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	profile := s.game.Profile()
	playerMMR := profile.RankedMMR[mode]

	result := rccs.Simulate(t, mode, s.season, playerMMR, s.rng)

	outcome := &TournamentOutcome{Result: result}
	if result.Title != "" {
		outcome.NewTitles = s.game.AwardTitles(ctx, result.Title)
	}

	if elite, ok := rccs.EliteTitle(s.game.Profile().Titles, s.season); ok {
		if added := s.game.AwardTitles(ctx, elite); len(added) > 0 {
			outcome.NewTitles = append(outcome.NewTitles, added...)
			outcome.EliteEarned = true
		}
	}

	s.logger.Info().
		Str("tournament", string(t)).
		Str("mode", string(mode)).
		Int("placement", result.Placement).
		Int("participants", result.Participants).
		Str("title", result.Title).
		Msg("tournament simulated")

	return outcome, nil
}
