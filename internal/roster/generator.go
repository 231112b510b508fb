package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"
)

// ErrNamePoolExhausted is returned when more unique identities are requested
// than the username pool holds.
var ErrNamePoolExhausted = errors.New("roster: username pool exhausted")

const (
	// mmrVariance is how far an AI rating may stray from the player's.
	mmrVariance = 150
	// cpsJitter is the multiplicative spread applied to the base click rate.
	cpsJitter = 0.3
	// minCPS is the slowest any AI is allowed to click.
	minCPS = 0.5
	// titleChance is the probability an AI carries any cosmetic title.
	titleChance = 0.75
	// seasonTitleChance applies to AI above 1000 MMR.
	seasonTitleChance = 0.6
)

// Generator produces synthetic opponents and teammates calibrated to the
// player's rating. All randomness flows through the injected source so match
// setups are reproducible under test.
type Generator struct {
	rng    *rand.Rand
	season int
}

func NewGenerator(rng *rand.Rand, season int) *Generator {
	return &Generator{rng: rng, season: season}
}

// Generate builds count AI players for a match. The player's own team is
// filled with teammates first; everyone else lands on the opposing team.
func (g *Generator) Generate(count, playerMMR int, mode domain.Mode, playerTeam domain.Team) ([]domain.AIPlayer, error) {
	if count > len(usernames) {
		return nil, fmt.Errorf("%w: need %d names, pool has %d", ErrNamePoolExhausted, count, len(usernames))
	}

	nameOrder := g.rng.Perm(len(usernames))
	teammatesNeeded := mode.TeamSize() - 1

	players := make([]domain.AIPlayer, 0, count)
	onPlayerTeam := 0
	for i := 0; i < count; i++ {
		team := playerTeam.Opposite()
		if onPlayerTeam < teammatesNeeded {
			team = playerTeam
			onPlayerTeam++
		}

		mmr := g.aiMMR(playerMMR)
		standing := rank.FromMMR(mmr)

		players = append(players, domain.AIPlayer{
			ID:              fmt.Sprintf("ai_%d", i),
			Username:        usernames[nameOrder[i]],
			MMR:             mmr,
			Standing:        standing,
			Title:           g.title(standing.Rank, mmr),
			Team:            team,
			ClicksPerSecond: g.clickRate(mmr),
			Variance:        cpsJitter,
		})
	}

	return players, nil
}

// aiMMR draws a rating uniformly within ±mmrVariance of the player's,
// floored at zero.
func (g *Generator) aiMMR(playerMMR int) int {
	min := playerMMR - mmrVariance
	if min < 0 {
		min = 0
	}
	max := playerMMR + mmrVariance
	return min + g.rng.Intn(max-min+1)
}

// clickRate derives clicks per second from MMR. Below 1200 the curve is
// linear at mmr/200; above it grows one CPS per 100 MMR with no cap. A
// final ±15% jitter keeps rosters from feeling uniform.
func (g *Generator) clickRate(mmr int) float64 {
	var base float64
	if mmr >= 1200 {
		base = 6 + float64(mmr-1200)/100
	} else {
		base = float64(mmr) / 200
		if base < 1 {
			base = 1
		}
	}

	jitter := 1 + (g.rng.Float64()-0.5)*cpsJitter
	cps := base * jitter
	if cps < minCPS {
		cps = minCPS
	}
	return cps
}

func (g *Generator) title(r domain.Rank, mmr int) string {
	if g.rng.Float64() >= titleChance {
		return ""
	}
	if mmr > 1000 && g.rng.Float64() < seasonTitleChance {
		season := g.rng.Intn(g.season) + 1
		return fmt.Sprintf("S%d %s", season, strings.ToUpper(string(r)))
	}
	return flavorTitles[g.rng.Intn(len(flavorTitles))]
}

// SimulateClicking advances one AI for a tick of deltaMs milliseconds and
// returns its score contribution. When the human is actively clicking the AI
// adapts toward the human's pace, more strongly at higher ratings. During a
// penalty window the AI usually holds still, but may slip and return -3.
func (g *Generator) SimulateClicking(ai domain.AIPlayer, deltaMs float64, penaltyActive bool, humanCPS float64) int {
	cps := ai.ClicksPerSecond
	if humanCPS > 0 {
		pace := 0.8 + g.rng.Float64()*0.4
		target := humanCPS * pace

		adaptation := float64(ai.MMR) / 1500
		if adaptation > 0.8 {
			adaptation = 0.8
		}
		cps = ai.ClicksPerSecond*(1-adaptation) + target*adaptation
	}

	base := cps * deltaMs / 1000
	jitter := 1 + (g.rng.Float64()-0.5)*ai.Variance
	clicks := int(base*jitter + g.rng.Float64())

	if penaltyActive && clicks > 0 {
		mistake := (1200 - float64(ai.MMR)) / 2000
		if mistake < 0.05 {
			mistake = 0.05
		}
		if g.rng.Float64() < mistake {
			return -3
		}
		return 0
	}

	return clicks
}
