package match

import (
	"errors"
	"math/rand"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"
	"ranked-clicker/internal/rating"
	"ranked-clicker/internal/roster"
)

type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseCountdown Phase = "countdown"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

const (
	// CountdownSeconds runs before the clicking starts.
	CountdownSeconds = 3
	// MatchSeconds is the fixed length of every match.
	MatchSeconds = 60

	// penaltyPoints is subtracted from a team's score for clicking during an
	// active stop-clicking window.
	penaltyPoints = 3
	// cpsWindowSeconds is the sliding window used to derive the player's
	// current clicks per second.
	cpsWindowSeconds = 5
)

var ErrNotEnded = errors.New("match: still in progress")

// State is the live state of one match. It is owned by a single controller
// and advanced synchronously, one tick at a time.
type State struct {
	Mode       domain.Mode
	QueueType  domain.QueueType
	PlayerTeam domain.Team

	Phase         Phase
	Countdown     float64 // seconds left in the countdown phase
	TimeRemaining float64 // seconds left of play

	RedScore     int
	BlueScore    int
	PlayerClicks int

	StopClickingActive        bool
	StopClickingTimeRemaining float64
	NextStopClickingIn        float64

	PlayerCurrentCPS float64

	Roster []domain.AIPlayer

	gen        *roster.Generator
	rng        *rand.Rand
	elapsed    float64   // seconds of play so far
	clickTimes []float64 // elapsed-time stamps of counted player clicks
}

// New builds a match in the waiting phase with a freshly generated roster.
// Roster size is one AI for 1v1, three for 2v2 and five for 3v3.
func New(mode domain.Mode, queue domain.QueueType, playerMMR int, gen *roster.Generator, rng *rand.Rand) (*State, error) {
	playerTeam := domain.TeamRed
	if rng.Float64() < 0.5 {
		playerTeam = domain.TeamBlue
	}

	aiCount := mode.TeamSize()*2 - 1
	players, err := gen.Generate(aiCount, playerMMR, mode, playerTeam)
	if err != nil {
		return nil, err
	}

	return &State{
		Mode:               mode,
		QueueType:          queue,
		PlayerTeam:         playerTeam,
		Phase:              PhaseWaiting,
		Countdown:          CountdownSeconds,
		TimeRemaining:      MatchSeconds,
		NextStopClickingIn: nextPenaltyDelay(rng),
		Roster:             players,
		gen:                gen,
		rng:                rng,
	}, nil
}

// Begin moves the match out of the waiting phase once all players have
// "joined". It is a no-op after the countdown has started.
func (s *State) Begin() {
	if s.Phase == PhaseWaiting {
		s.Phase = PhaseCountdown
	}
}

// Update advances the match by deltaMs milliseconds. playerClicked marks a
// discrete click event that occurred since the previous tick.
func (s *State) Update(deltaMs float64, playerClicked bool) {
	dt := deltaMs / 1000

	if s.Phase == PhaseCountdown {
		s.Countdown -= dt
		if s.Countdown <= 0 {
			s.Phase = PhasePlaying
		}
		return
	}

	if s.Phase != PhasePlaying {
		return
	}

	s.elapsed += dt
	s.TimeRemaining -= dt

	s.updatePenaltyWindow(dt)

	if playerClicked {
		if s.StopClickingActive {
			s.addScore(s.PlayerTeam, -penaltyPoints)
		} else {
			s.PlayerClicks++
			s.addScore(s.PlayerTeam, 1)
			s.clickTimes = append(s.clickTimes, s.elapsed)
		}
	}
	s.updateCPS()

	for _, ai := range s.Roster {
		s.addScore(ai.Team, s.gen.SimulateClicking(ai, deltaMs, s.StopClickingActive, s.PlayerCurrentCPS))
	}

	if s.TimeRemaining <= 0 {
		s.Phase = PhaseEnded
	}
}

// updatePenaltyWindow toggles the periodic stop-clicking event. An active
// window lasts 1-4 seconds; the next one is scheduled 10-25 seconds out.
func (s *State) updatePenaltyWindow(dt float64) {
	if s.StopClickingActive {
		s.StopClickingTimeRemaining -= dt
		if s.StopClickingTimeRemaining <= 0 {
			s.StopClickingActive = false
			s.NextStopClickingIn = nextPenaltyDelay(s.rng)
		}
		return
	}

	s.NextStopClickingIn -= dt
	if s.NextStopClickingIn <= 0 {
		s.StopClickingActive = true
		s.StopClickingTimeRemaining = 1 + s.rng.Float64()*3
	}
}

func nextPenaltyDelay(rng *rand.Rand) float64 {
	return 10 + rng.Float64()*15
}

// updateCPS recomputes the player's click rate over the trailing window.
// At least two samples are required for a rate to exist.
func (s *State) updateCPS() {
	cutoff := s.elapsed - cpsWindowSeconds
	kept := s.clickTimes[:0]
	for _, t := range s.clickTimes {
		if t >= cutoff {
			kept = append(kept, t)
		}
	}
	s.clickTimes = kept

	if len(s.clickTimes) < 2 {
		s.PlayerCurrentCPS = 0
		return
	}
	span := s.elapsed - s.clickTimes[0]
	if span <= 0 {
		s.PlayerCurrentCPS = 0
		return
	}
	s.PlayerCurrentCPS = float64(len(s.clickTimes)) / span
}

// addScore applies a delta to a team's score, clamping at zero.
func (s *State) addScore(team domain.Team, delta int) {
	if delta == 0 {
		return
	}
	if team == domain.TeamRed {
		s.RedScore += delta
		if s.RedScore < 0 {
			s.RedScore = 0
		}
		return
	}
	s.BlueScore += delta
	if s.BlueScore < 0 {
		s.BlueScore = 0
	}
}

// PlayerTeamScore returns the score of the team the player is on.
func (s *State) PlayerTeamScore() int {
	if s.PlayerTeam == domain.TeamRed {
		return s.RedScore
	}
	return s.BlueScore
}

// OpponentTeamScore returns the opposing team's score.
func (s *State) OpponentTeamScore() int {
	if s.PlayerTeam == domain.TeamRed {
		return s.BlueScore
	}
	return s.RedScore
}

// Result settles the match against the rating engine. A tie counts as a
// loss for the player. totalGames drives the provisional K-factor tier.
func (s *State) Result(playerMMR, totalGames int) (domain.MatchResult, error) {
	if s.Phase != PhaseEnded {
		return domain.MatchResult{}, ErrNotEnded
	}

	won := s.PlayerTeamScore() > s.OpponentTeamScore()

	var opponentMMRs []int
	var opponents []domain.OpponentSummary
	for _, ai := range s.Roster {
		if ai.Team != s.PlayerTeam {
			opponentMMRs = append(opponentMMRs, ai.MMR)
			opponents = append(opponents, domain.OpponentSummary{Username: ai.Username, MMR: ai.MMR})
		}
	}

	k := rating.KFactor(playerMMR, totalGames)
	delta, err := rating.EloDelta(playerMMR, opponentMMRs, won, k)
	if err != nil {
		return domain.MatchResult{}, err
	}
	newMMR := rating.Apply(playerMMR, delta)

	return domain.MatchResult{
		Won:         won,
		MMRChange:   delta,
		NewMMR:      newMMR,
		NewStanding: rank.FromMMR(newMMR),
		Opponents:   opponents,
	}, nil
}
