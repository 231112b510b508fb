package leaderboard

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"
	"ranked-clicker/internal/roster"
)

const (
	// Size is the number of entries the board exposes.
	Size = 30

	// Archetype counts for the synthetic population.
	specialistCount = 15
	versatileCount  = 10
	eliteCount      = 5

	// driftInterval is how often the population "plays" more matches.
	driftInterval = time.Hour

	// Drift clamps: synthetic ratings never leave this range.
	driftFloorMMR   = 1400
	driftCeilingMMR = 3200
)

var flavorTitles = []string{"LEGEND", "ELITE", "MASTER", "CHAMPION", "ACE", "PRO"}

// Simulator maintains a synthetic population of top players. Ratings drift
// over time so the board looks alive between sessions.
type Simulator struct {
	rng    *rand.Rand
	season int
}

func NewSimulator(rng *rand.Rand, season int) *Simulator {
	return &Simulator{rng: rng, season: season}
}

// GeneratePopulation builds a fresh season population: mode specialists,
// versatile all-rounders and a small elite with very high ratings everywhere.
func (s *Simulator) GeneratePopulation() ([]domain.LeaderboardPlayer, error) {
	total := specialistCount + versatileCount + eliteCount
	names, err := roster.UniqueNames(s.rng, total)
	if err != nil {
		return nil, err
	}

	players := make([]domain.LeaderboardPlayer, 0, total)
	now := time.Now()

	for i := 0; i < total; i++ {
		var (
			mmrs           map[domain.Mode]int
			titleChance    float64
			specialization domain.Mode
		)

		switch {
		case i < specialistCount:
			specialization = domain.Modes[i%len(domain.Modes)]
			mmrs = s.specialistMMRs(specialization)
			titleChance = 0.3
		case i < specialistCount+versatileCount:
			mmrs = s.spreadMMRs(1700+s.rng.Float64()*600, 150, 1600)
			titleChance = 0.5
		default:
			mmrs = s.spreadMMRs(2200+s.rng.Float64()*800, 100, 1800)
			titleChance = 0.8
		}

		standings := make(map[domain.Mode]domain.Standing, len(mmrs))
		for mode, mmr := range mmrs {
			standings[mode] = rank.FromMMR(mmr)
		}

		players = append(players, domain.LeaderboardPlayer{
			ID:             fmt.Sprintf("leaderboard_%d", i),
			Username:       names[i],
			MMR:            mmrs,
			Standing:       standings,
			Title:          s.title(mmrs, titleChance),
			Specialization: specialization,
			LastUpdate:     now,
		})
	}

	sort.SliceStable(players, func(i, j int) bool {
		return bestMMR(players[i]) > bestMMR(players[j])
	})
	return players, nil
}

// specialistMMRs puts the main mode 200-600 MMR above the others.
func (s *Simulator) specialistMMRs(main domain.Mode) map[domain.Mode]int {
	mainMMR := 1800 + s.rng.Float64()*800
	other := mainMMR - 200 - s.rng.Float64()*400
	if other < 1400 {
		other = 1400
	}

	mmrs := make(map[domain.Mode]int, len(domain.Modes))
	for _, mode := range domain.Modes {
		if mode == main {
			mmrs[mode] = int(math.Round(mainMMR))
		} else {
			mmrs[mode] = int(math.Round(other))
		}
	}
	return mmrs
}

// spreadMMRs jitters a base rating per mode with a hard floor.
func (s *Simulator) spreadMMRs(base, jitter, floor float64) map[domain.Mode]int {
	mmrs := make(map[domain.Mode]int, len(domain.Modes))
	for _, mode := range domain.Modes {
		mmr := base + (s.rng.Float64()-0.5)*jitter
		if mmr < floor {
			mmr = floor
		}
		mmrs[mode] = int(math.Round(mmr))
	}
	return mmrs
}

func (s *Simulator) title(mmrs map[domain.Mode]int, chance float64) string {
	if s.rng.Float64() >= chance {
		return ""
	}

	if s.rng.Float64() < 0.7 {
		best := 0
		for _, mmr := range mmrs {
			if mmr > best {
				best = mmr
			}
		}
		seasonNum := s.season - s.rng.Intn(3)
		if seasonNum < 1 {
			seasonNum = 1
		}
		return fmt.Sprintf("S%d %s", seasonNum, strings.ToUpper(string(rank.FromMMR(best).Rank)))
	}
	return flavorTitles[s.rng.Intn(len(flavorTitles))]
}

// Drift lets every synthetic player "play" up to four matches when at least
// an hour has passed since the last drift. Reports whether anything changed.
func (s *Simulator) Drift(players []domain.LeaderboardPlayer, lastUpdate, now time.Time) bool {
	if now.Sub(lastUpdate) < driftInterval {
		return false
	}

	for i := range players {
		games := s.rng.Intn(5)
		for g := 0; g < games; g++ {
			mode := domain.Modes[s.rng.Intn(len(domain.Modes))]
			change := s.rng.Intn(25) + 5
			if s.rng.Float64() >= 0.5 {
				change = -change
			}

			mmr := players[i].MMR[mode] + change
			if mmr < driftFloorMMR {
				mmr = driftFloorMMR
			}
			if mmr > driftCeilingMMR {
				mmr = driftCeilingMMR
			}
			players[i].MMR[mode] = mmr
			players[i].Standing[mode] = rank.FromMMR(mmr)
		}
		players[i].LastUpdate = now
	}
	return true
}

// TopN returns the top entries for a mode, best rating first.
func TopN(players []domain.LeaderboardPlayer, mode domain.Mode) []domain.LeaderboardPlayer {
	sorted := make([]domain.LeaderboardPlayer, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MMR[mode] > sorted[j].MMR[mode]
	})
	if len(sorted) > Size {
		sorted = sorted[:Size]
	}
	return sorted
}

// Position computes where the real player would slot into the visible board.
// The board is capped at Size entries: a player who would place beyond it
// gets no position even if their rating beats uncached entries.
func Position(players []domain.LeaderboardPlayer, mode domain.Mode, playerMMR int) (int, bool) {
	board := TopN(players, mode)
	for i, p := range board {
		if playerMMR > p.MMR[mode] {
			return i + 1, true
		}
	}
	if ShouldShow(playerMMR) && len(board) < Size {
		return len(board) + 1, true
	}
	return 0, false
}

// ShouldShow gates leaderboard visibility at the Grand Champion floor.
func ShouldShow(playerMMR int) bool {
	return playerMMR >= rank.MinMMR(domain.RankGrandChampion)
}

func bestMMR(p domain.LeaderboardPlayer) int {
	best := 0
	for _, mmr := range p.MMR {
		if mmr > best {
			best = mmr
		}
	}
	return best
}
