package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"ranked-clicker/internal/config"
	"ranked-clicker/internal/constants"
	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/match"
	"ranked-clicker/internal/roster"
	"ranked-clicker/internal/season"

	"github.com/rs/zerolog"
)

var (
	ErrNoActiveMatch     = errors.New("service: no active match")
	ErrAlreadyQueuing    = errors.New("service: already in queue")
	ErrMatchInProgress   = errors.New("service: match already in progress")
	ErrInvalidMode       = errors.New("service: invalid game mode")
	ErrInvalidQueue      = errors.New("service: invalid queue type")
	ErrInvalidTournament = errors.New("service: invalid tournament type")
)

// HistoryStore records finished matches.
type HistoryStore interface {
	Insert(ctx context.Context, record domain.MatchRecord) error
	Recent(ctx context.Context, limit int) ([]domain.MatchRecord, error)
}

// XP awarded per match outcome.
const (
	xpPerWin  = 50
	xpPerLoss = 25
)

// GameService is the single owner of all mutable game state: the player
// profile, the queue, and the live match. Every command runs under one lock
// so updates are serialized exactly like the original cooperative loop.
type GameService struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	profiles *ProfileService
	history  HistoryStore
	rng      *rand.Rand
	gen      *roster.Generator
	season   int

	profile    *domain.PlayerProfile
	queueType  domain.QueueType
	mode       domain.Mode
	queue      domain.QueueState
	queueGen   int // invalidates delayed queue pops after a cancel
	match      *match.State
	settled    bool
	lastResult *domain.MatchResult
}

func NewGameService(profiles *ProfileService, history HistoryStore, cfg *config.Config, logger zerolog.Logger) *GameService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &GameService{
		logger:    logger,
		profiles:  profiles,
		history:   history,
		rng:       rng,
		gen:       roster.NewGenerator(rng, cfg.CurrentSeason),
		season:    cfg.CurrentSeason,
		queueType: domain.QueueCasual,
		mode:      domain.Mode1v1,
	}
	s.profile = profiles.LoadOrDefault(context.Background())
	return s
}

// Profile returns a snapshot of the player profile.
func (s *GameService) Profile() *domain.PlayerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

func (s *GameService) SelectMode(mode domain.Mode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

func (s *GameService) SelectQueueType(queue domain.QueueType) error {
	if !queue.Valid() {
		return ErrInvalidQueue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueType = queue
	return nil
}

// StartQueue enters matchmaking and schedules a simulated queue pop 5-15
// seconds out. The pop is tied to a generation counter: canceling the queue
// bumps the counter, turning any stale pop into a no-op.
func (s *GameService) StartQueue() (domain.QueueState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.IsQueuing {
		return s.queue, ErrAlreadyQueuing
	}
	if s.match != nil && s.match.Phase != match.PhaseEnded {
		return s.queue, ErrMatchInProgress
	}

	mmr := s.profile.MMRFor(s.queueType, s.mode)
	population := populationForHour(time.Now().Hour())

	s.queue = domain.QueueState{
		IsQueuing:     true,
		QueueType:     s.queueType,
		Mode:          s.mode,
		EstimatedWait: estimateWait(mmr, population),
		Population:    population,
	}
	s.queueGen++
	gen := s.queueGen

	wait := constants.QueueWaitMin +
		time.Duration(s.rng.Int63n(int64(constants.QueueWaitMax-constants.QueueWaitMin)))
	time.AfterFunc(wait, func() { s.matchFound(gen) })

	s.logger.Info().
		Str("queue", string(s.queueType)).
		Str("mode", string(s.mode)).
		Int("mmr", mmr).
		Str("population", population).
		Dur("wait", wait).
		Msg("queue started")

	return s.queue, nil
}

// CancelQueue leaves matchmaking. A pop that already fired for this queue
// generation will be ignored.
func (s *GameService) CancelQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.queue.IsQueuing {
		return
	}
	s.queue = domain.QueueState{}
	s.queueGen++
	s.logger.Info().Msg("queue canceled")
}

// matchFound is the delayed queue pop. Stale generations (canceled or
// re-queued since) do nothing.
func (s *GameService) matchFound(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.queue.IsQueuing || gen != s.queueGen {
		return
	}

	mmr := s.profile.MMRFor(s.queue.QueueType, s.queue.Mode)
	m, err := match.New(s.queue.Mode, s.queue.QueueType, mmr, s.gen, s.rng)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create match")
		s.queue = domain.QueueState{}
		return
	}

	s.match = m
	s.settled = false
	s.lastResult = nil
	s.queue = domain.QueueState{}

	s.logger.Info().
		Str("mode", string(m.Mode)).
		Str("queue", string(m.QueueType)).
		Str("player_team", string(m.PlayerTeam)).
		Int("roster", len(m.Roster)).
		Msg("match found")

	// The lobby "fills" shortly after the pop, then the countdown runs.
	time.AfterFunc(constants.AllJoinedDelay, func() { s.beginMatch(m) })
}

func (s *GameService) beginMatch(m *match.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match == m {
		m.Begin()
	}
}

// Tick advances the live match and settles it on the transition into the
// ended phase. playerClicked marks a click event since the last tick.
func (s *GameService) Tick(ctx context.Context, deltaMs float64, playerClicked bool) (*match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return nil, ErrNoActiveMatch
	}

	s.match.Update(deltaMs, playerClicked)

	if s.match.Phase == match.PhaseEnded && !s.settled {
		s.settle(ctx)
	}

	return s.snapshotLocked(), nil
}

// MatchState returns a snapshot of the live match.
func (s *GameService) MatchState() (*match.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match == nil {
		return nil, ErrNoActiveMatch
	}
	return s.snapshotLocked(), nil
}

// LastResult returns the most recent settled match result.
func (s *GameService) LastResult() (*domain.MatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil, false
	}
	result := *s.lastResult
	return &result, true
}

// settle folds the finished match into the profile: rating, XP, placement
// and season progress, match history, then a background save.
func (s *GameService) settle(ctx context.Context) {
	m := s.match
	currentMMR := s.profile.MMRFor(m.QueueType, m.Mode)

	result, err := m.Result(currentMMR, s.profile.TotalGames)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to settle match")
		return
	}
	s.settled = true
	s.lastResult = &result

	season.UpdateMMR(s.profile, m.Mode, m.QueueType, result.NewMMR)

	if result.Won {
		season.AddXP(s.profile, xpPerWin)
	} else {
		season.AddXP(s.profile, xpPerLoss)
	}

	if m.QueueType == domain.QueueRanked {
		season.CompleteMatch(s.profile, m.Mode, result.Won, result.NewMMR, s.season)
	} else {
		s.profile.TotalGames++
		if result.Won {
			s.profile.TotalWins++
		}
	}

	record := domain.MatchRecord{
		Mode:          m.Mode,
		QueueType:     m.QueueType,
		Won:           result.Won,
		PlayerScore:   m.PlayerTeamScore(),
		OpponentScore: m.OpponentTeamScore(),
		MMRChange:     result.MMRChange,
		NewMMR:        result.NewMMR,
		PlayedAt:      time.Now(),
	}
	if err := s.history.Insert(ctx, record); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record match history")
	}

	s.profiles.SaveAsync(s.profile)

	s.logger.Info().
		Bool("won", result.Won).
		Int("mmr_change", result.MMRChange).
		Int("new_mmr", result.NewMMR).
		Str("new_rank", string(result.NewStanding.Rank)).
		Msg("match settled")
}

// EquipTitle changes the displayed title; an empty title clears it. The
// equip applies in memory even if persistence fails; saves are log-only.
func (s *GameService) EquipTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := season.EquipTitle(s.profile, title); err != nil {
		return err
	}
	if err := s.profiles.Save(ctx, s.profile); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save equipped title")
	}
	return nil
}

// AwardTitles adds titles to the collection and reports the ones that were
// actually new. The profile is saved when anything changed.
func (s *GameService) AwardTitles(ctx context.Context, titles ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, title := range titles {
		if title == "" {
			continue
		}
		if season.AddTitle(s.profile, title) {
			added = append(added, title)
		}
	}
	if len(added) > 0 {
		if err := s.profiles.Save(ctx, s.profile); err != nil {
			s.logger.Warn().Err(err).Msg("failed to save awarded titles")
		}
	}
	return added
}

// ResetSeason applies the season-boundary soft reset and persists it.
func (s *GameService) ResetSeason(ctx context.Context) *domain.PlayerProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	season.ResetSeason(s.profile)
	if err := s.profiles.Save(ctx, s.profile); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save season reset")
	}
	return s.profile.Clone()
}

// History returns recent match records, newest first.
func (s *GameService) History(ctx context.Context) ([]domain.MatchRecord, error) {
	return s.history.Recent(ctx, constants.MatchHistoryLimit)
}

// QueueState returns the current matchmaking state.
func (s *GameService) QueueState() domain.QueueState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue
}

// snapshotLocked copies the match state for read-only consumers. The roster
// slice is duplicated so the caller cannot reach the live match.
func (s *GameService) snapshotLocked() *match.State {
	snapshot := *s.match
	snapshot.Roster = append([]domain.AIPlayer(nil), s.match.Roster...)
	return &snapshot
}

// populationForHour buckets the day into rough player-count tiers, which
// feed the estimated queue wait.
func populationForHour(hour int) string {
	switch {
	case hour >= 14 && hour <= 19:
		return "great"
	case hour >= 11 && hour <= 13, hour == 20, hour == 21:
		return "good"
	case hour >= 8 && hour <= 10, hour == 22:
		return "mid"
	case hour == 6, hour == 7, hour == 23:
		return "bad"
	default:
		return "poor"
	}
}

// estimateWait scales a base wait by rating (stronger players wait longer)
// and by the population tier.
func estimateWait(mmr int, population string) int {
	base := 15.0
	switch {
	case mmr > 1400:
		base += 20
	case mmr > 1200:
		base += 15
	case mmr > 1000:
		base += 10
	}

	multiplier := 1.0
	switch population {
	case "poor":
		multiplier = 2.5
	case "bad":
		multiplier = 2.0
	case "mid":
		multiplier = 1.5
	case "great":
		multiplier = 0.7
	}

	return int(base*multiplier + 0.5)
}
