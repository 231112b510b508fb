package rank

import (
	"fmt"
	"math"

	"ranked-clicker/internal/domain"
)

// Order is the fixed rank ladder from lowest to highest.
var Order = []domain.Rank{
	domain.RankBronze,
	domain.RankSilver,
	domain.RankGold,
	domain.RankPlatinum,
	domain.RankDiamond,
	domain.RankChampion,
	domain.RankGrandChampion,
}

var Divisions = []domain.Division{
	domain.DivisionI,
	domain.DivisionII,
	domain.DivisionIII,
	domain.DivisionIV,
	domain.DivisionV,
}

// DivisionWidth is 40 MMR per division in every rank, independent of band
// width. Divisions are intentionally not derived from the band size.
const DivisionWidth = 40

// RewardWinsPerTier is the number of season wins needed per reward rank.
const RewardWinsPerTier = 10

type band struct {
	rank domain.Rank
	min  int
	max  int // math.MaxInt for the open-ended top band
}

var bands = []band{
	{domain.RankBronze, 0, 599},
	{domain.RankSilver, 600, 799},
	{domain.RankGold, 800, 999},
	{domain.RankPlatinum, 1000, 1199},
	{domain.RankDiamond, 1200, 1399},
	{domain.RankChampion, 1400, 1599},
	{domain.RankGrandChampion, 1600, math.MaxInt},
}

// MinMMR returns the lower bound of the rank's MMR band.
func MinMMR(r domain.Rank) int {
	for _, b := range bands {
		if b.rank == r {
			return b.min
		}
	}
	return 0
}

// FromMMR maps an MMR value onto the rank ladder. Grand Champion carries no
// division. Negative input is treated as Bronze.
func FromMMR(mmr int) domain.Standing {
	b := bands[0]
	for _, candidate := range bands {
		if mmr >= candidate.min && mmr <= candidate.max {
			b = candidate
			break
		}
	}

	if b.rank == domain.RankGrandChampion {
		return domain.Standing{Rank: b.rank}
	}

	idx := (mmr - b.min) / DivisionWidth
	if idx < 0 {
		idx = 0
	}
	if idx > len(Divisions)-1 {
		idx = len(Divisions) - 1
	}
	return domain.Standing{Rank: b.rank, Division: Divisions[idx]}
}

// Format renders a standing for display, e.g. "Gold III" or "Grand Champion".
func Format(s domain.Standing) string {
	if s.Division == "" {
		return string(s.Rank)
	}
	return fmt.Sprintf("%s %s", s.Rank, s.Division)
}

// Index returns the position of the rank on the ladder, or -1 if unknown.
func Index(r domain.Rank) int {
	for i, candidate := range Order {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Next returns the rank above the given one.
func Next(r domain.Rank) (domain.Rank, bool) {
	i := Index(r)
	if i == -1 || i == len(Order)-1 {
		return "", false
	}
	return Order[i+1], true
}

// Previous returns the rank below the given one.
func Previous(r domain.Rank) (domain.Rank, bool) {
	i := Index(r)
	if i <= 0 {
		return "", false
	}
	return Order[i-1], true
}

// RewardProgress reports the reward rank currently earned for the given
// season win count, plus progress toward the next tier. Rewards never exceed
// the player's current rank.
func RewardProgress(seasonWins int, current domain.Rank) (earned domain.Rank, progress, total int) {
	maxIdx := Index(current)
	if maxIdx < 0 {
		maxIdx = 0
	}
	idx := seasonWins / RewardWinsPerTier
	if idx > maxIdx {
		idx = maxIdx
	}
	return Order[idx], seasonWins % RewardWinsPerTier, RewardWinsPerTier
}
