package season

import (
	"testing"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfile() *domain.PlayerProfile {
	p := &domain.PlayerProfile{
		Username:             "Tester",
		Level:                1,
		CasualMMR:            BaselineMMR,
		PeakCasualMMR:        BaselineMMR,
		RankedMMR:            map[domain.Mode]int{},
		PeakRankedMMR:        map[domain.Mode]int{},
		Rank:                 map[domain.Mode]domain.Standing{},
		SeasonWins:           map[domain.Mode]int{},
		SeasonRewardProgress: map[domain.Mode]domain.Rank{},
		PlacementMatches:     map[domain.Mode]int{},
		PlacementComplete:    map[domain.Mode]bool{},
	}
	for _, mode := range domain.Modes {
		p.RankedMMR[mode] = BaselineMMR
		p.PeakRankedMMR[mode] = BaselineMMR
		p.Rank[mode] = rank.FromMMR(BaselineMMR)
		p.SeasonRewardProgress[mode] = domain.RankBronze
	}
	return p
}

func TestCompleteMatchPlacement(t *testing.T) {
	p := newTestProfile()

	for i := 1; i < PlacementMatchesRequired; i++ {
		CompleteMatch(p, domain.Mode1v1, true, 620, 1)
		assert.Equal(t, i, p.PlacementMatches[domain.Mode1v1])
		assert.False(t, p.PlacementComplete[domain.Mode1v1], "still placing after %d matches", i)
	}

	CompleteMatch(p, domain.Mode1v1, true, 640, 1)
	assert.True(t, p.PlacementComplete[domain.Mode1v1])
	assert.Equal(t, PlacementMatchesRequired, p.PlacementMatches[domain.Mode1v1])

	// Placement is tracked per mode.
	assert.False(t, p.PlacementComplete[domain.Mode2v2])
	assert.Zero(t, p.PlacementMatches[domain.Mode2v2])

	// The counter does not run past the threshold.
	CompleteMatch(p, domain.Mode1v1, false, 630, 1)
	assert.Equal(t, PlacementMatchesRequired, p.PlacementMatches[domain.Mode1v1])
}

func TestCompleteMatchCounters(t *testing.T) {
	p := newTestProfile()

	CompleteMatch(p, domain.Mode2v2, true, 615, 1)
	CompleteMatch(p, domain.Mode2v2, false, 600, 1)

	assert.Equal(t, 2, p.TotalGames)
	assert.Equal(t, 1, p.TotalWins)
	assert.Equal(t, 1, p.SeasonWins[domain.Mode2v2])
	assert.Equal(t, rank.FromMMR(600), p.Rank[domain.Mode2v2])
}

func TestSeasonRewards(t *testing.T) {
	p := newTestProfile()
	p.PlacementComplete[domain.Mode1v1] = true
	p.RankedMMR[domain.Mode1v1] = 850
	p.Rank[domain.Mode1v1] = rank.FromMMR(850) // Gold

	// Nine wins stay on the Bronze tier.
	p.SeasonWins[domain.Mode1v1] = 8
	CompleteMatch(p, domain.Mode1v1, true, 850, 2)
	assert.Equal(t, domain.RankBronze, p.SeasonRewardProgress[domain.Mode1v1])
	assert.True(t, p.HasTitle("S2 BRONZE"))

	// The tenth win crosses into Silver.
	CompleteMatch(p, domain.Mode1v1, true, 850, 2)
	assert.Equal(t, domain.RankSilver, p.SeasonRewardProgress[domain.Mode1v1])
	assert.True(t, p.HasTitle("S2 SILVER"))

	// Titles are not duplicated on further wins within the tier.
	before := len(p.Titles)
	CompleteMatch(p, domain.Mode1v1, true, 850, 2)
	assert.Len(t, p.Titles, before)
}

func TestSeasonRewardsCappedAtCurrentRank(t *testing.T) {
	p := newTestProfile()
	p.PlacementComplete[domain.Mode1v1] = true
	p.SeasonWins[domain.Mode1v1] = 49 // 50 after the win: Diamond tier uncapped

	CompleteMatch(p, domain.Mode1v1, true, 620, 1) // still Silver
	assert.Equal(t, domain.RankSilver, p.SeasonRewardProgress[domain.Mode1v1])
	assert.True(t, p.HasTitle("S1 SILVER"))
	assert.False(t, p.HasTitle("S1 DIAMOND"))
}

func TestSeasonRewardsGatedByPlacement(t *testing.T) {
	p := newTestProfile()
	p.SeasonWins[domain.Mode1v1] = 20

	CompleteMatch(p, domain.Mode1v1, true, 620, 1)
	assert.Empty(t, p.Titles, "no reward titles during placement")
}

func TestResetSeason(t *testing.T) {
	p := newTestProfile()
	p.RankedMMR[domain.Mode2v2] = 1000
	p.CasualMMR = 1500
	p.PlacementComplete[domain.Mode2v2] = true
	p.PlacementMatches[domain.Mode2v2] = 5
	p.SeasonWins[domain.Mode2v2] = 23
	p.SeasonRewardProgress[domain.Mode2v2] = domain.RankGold

	ResetSeason(p)

	// 600 + (1000-600)*0.7 = 880.
	assert.Equal(t, 880, p.RankedMMR[domain.Mode2v2])
	assert.Equal(t, rank.FromMMR(880), p.Rank[domain.Mode2v2])
	assert.Equal(t, 1500, p.CasualMMR, "casual rating survives the reset")

	for _, mode := range domain.Modes {
		assert.Zero(t, p.PlacementMatches[mode])
		assert.False(t, p.PlacementComplete[mode])
		assert.Zero(t, p.SeasonWins[mode])
		assert.Equal(t, domain.RankBronze, p.SeasonRewardProgress[mode])
	}
}

func TestResetSeasonBelowBaseline(t *testing.T) {
	p := newTestProfile()
	p.RankedMMR[domain.Mode1v1] = 400

	ResetSeason(p)

	// 600 + (400-600)*0.7 = 460: below-baseline ratings decay upward.
	assert.Equal(t, 460, p.RankedMMR[domain.Mode1v1])
}

func TestUpdateMMR(t *testing.T) {
	p := newTestProfile()

	UpdateMMR(p, domain.Mode1v1, domain.QueueRanked, 700)
	assert.Equal(t, 700, p.RankedMMR[domain.Mode1v1])
	assert.Equal(t, 700, p.PeakRankedMMR[domain.Mode1v1])
	assert.Equal(t, rank.FromMMR(700), p.Rank[domain.Mode1v1])

	// Peaks are monotone.
	UpdateMMR(p, domain.Mode1v1, domain.QueueRanked, 650)
	assert.Equal(t, 650, p.RankedMMR[domain.Mode1v1])
	assert.Equal(t, 700, p.PeakRankedMMR[domain.Mode1v1])

	// Casual updates never touch ranked state.
	rankBefore := p.Rank[domain.Mode1v1]
	UpdateMMR(p, domain.Mode1v1, domain.QueueCasual, 1300)
	assert.Equal(t, 1300, p.CasualMMR)
	assert.Equal(t, 1300, p.PeakCasualMMR)
	assert.Equal(t, 650, p.RankedMMR[domain.Mode1v1])
	assert.Equal(t, rankBefore, p.Rank[domain.Mode1v1])
}

func TestAddXP(t *testing.T) {
	p := newTestProfile()

	AddXP(p, 50)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 50, p.XP)

	// 50 more completes level 1 (100 XP).
	AddXP(p, 50)
	assert.Equal(t, 2, p.Level)
	assert.Zero(t, p.XP)

	// A big award spans multiple levels: 500 XP clears level 2 (200) and
	// level 3 (300) exactly, landing at level 4 with the bar empty.
	AddXP(p, 500)
	assert.Equal(t, 4, p.Level)
	assert.Zero(t, p.XP)
}

func TestTitles(t *testing.T) {
	p := newTestProfile()

	assert.True(t, AddTitle(p, "S1 GOLD"))
	assert.False(t, AddTitle(p, "S1 GOLD"), "titles are unique")
	require.Len(t, p.Titles, 1)

	assert.ErrorIs(t, EquipTitle(p, "S9 DIAMOND"), ErrTitleNotOwned)
	assert.Empty(t, p.EquippedTitle)

	require.NoError(t, EquipTitle(p, "S1 GOLD"))
	assert.Equal(t, "S1 GOLD", p.EquippedTitle)

	require.NoError(t, EquipTitle(p, ""))
	assert.Empty(t, p.EquippedTitle)

	require.NoError(t, EquipTitle(p, "S1 GOLD"))
	assert.True(t, RevokeTitle(p, "S1 GOLD"))
	assert.Empty(t, p.EquippedTitle, "revoking clears the displayed title")
	assert.False(t, RevokeTitle(p, "S1 GOLD"))
}
