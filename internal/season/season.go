package season

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ranked-clicker/internal/domain"
	"ranked-clicker/internal/rank"
)

const (
	// PlacementMatchesRequired gates rank visibility per mode.
	PlacementMatchesRequired = 5
	// BaselineMMR is the rating seasons decay toward.
	BaselineMMR = 600
	// SoftResetRetention is how much of the distance above baseline survives
	// a season rollover.
	SoftResetRetention = 0.7
	// XPPerLevel scales the per-level XP requirement (level * XPPerLevel).
	XPPerLevel = 100
)

// ErrTitleNotOwned is returned when equipping a title absent from the
// profile's collection.
var ErrTitleNotOwned = errors.New("season: title not owned")

// CompleteMatch folds one finished ranked match into the profile: placement
// progress, season wins, reward tiers, lifetime counters and the derived
// rank for the mode.
func CompleteMatch(p *domain.PlayerProfile, mode domain.Mode, won bool, newMMR, currentSeason int) {
	if !p.PlacementComplete[mode] {
		p.PlacementMatches[mode]++
		if p.PlacementMatches[mode] >= PlacementMatchesRequired {
			p.PlacementComplete[mode] = true
		}
	}

	if won {
		p.SeasonWins[mode]++
		p.TotalWins++
		if p.PlacementComplete[mode] {
			updateSeasonRewards(p, mode, currentSeason)
		}
	}

	p.TotalGames++
	p.Rank[mode] = rank.FromMMR(newMMR)
}

// updateSeasonRewards advances the reward tier for a mode. A tier is earned
// per ten season wins, capped at the player's current rank; each earned tier
// awards its season title once.
func updateSeasonRewards(p *domain.PlayerProfile, mode domain.Mode, currentSeason int) {
	current := p.Rank[mode].Rank
	tier := p.SeasonWins[mode] / rank.RewardWinsPerTier
	if max := rank.Index(current); tier > max {
		tier = max
	}
	if tier < 0 || tier >= len(rank.Order) {
		return
	}

	earned := rank.Order[tier]
	p.SeasonRewardProgress[mode] = earned
	AddTitle(p, fmt.Sprintf("S%d %s", currentSeason, strings.ToUpper(string(earned))))
}

// ResetSeason applies the season-boundary soft reset: ranked MMR decays
// toward the baseline, placements and season progress clear, and every rank
// is recomputed from the decayed rating. Casual MMR is untouched.
func ResetSeason(p *domain.PlayerProfile) {
	for _, mode := range domain.Modes {
		old := p.RankedMMR[mode]
		decayed := int(math.Round(BaselineMMR + float64(old-BaselineMMR)*SoftResetRetention))
		p.RankedMMR[mode] = decayed
		p.Rank[mode] = rank.FromMMR(decayed)

		p.PlacementMatches[mode] = 0
		p.PlacementComplete[mode] = false
		p.SeasonWins[mode] = 0
		p.SeasonRewardProgress[mode] = rank.Order[0]
	}
}

// UpdateMMR stores a post-match rating for the queue/mode it was earned in
// and keeps the matching peak monotonically non-decreasing. Ranked updates
// also refresh the derived rank for the mode.
func UpdateMMR(p *domain.PlayerProfile, mode domain.Mode, queue domain.QueueType, newMMR int) {
	if queue == domain.QueueCasual {
		p.CasualMMR = newMMR
		if newMMR > p.PeakCasualMMR {
			p.PeakCasualMMR = newMMR
		}
		return
	}

	p.RankedMMR[mode] = newMMR
	if newMMR > p.PeakRankedMMR[mode] {
		p.PeakRankedMMR[mode] = newMMR
	}
	p.Rank[mode] = rank.FromMMR(newMMR)
}

// AddXP awards experience and handles level-ups. One large award can span
// multiple levels.
func AddXP(p *domain.PlayerProfile, xp int) {
	p.XP += xp
	for p.XP >= p.Level*XPPerLevel {
		p.XP -= p.Level * XPPerLevel
		p.Level++
	}
}

// AddTitle appends a title if not already owned. Returns true when the
// collection changed.
func AddTitle(p *domain.PlayerProfile, title string) bool {
	if p.HasTitle(title) {
		return false
	}
	p.Titles = append(p.Titles, title)
	return true
}

// EquipTitle displays an owned title; an empty title clears the slot.
func EquipTitle(p *domain.PlayerProfile, title string) error {
	if title == "" {
		p.EquippedTitle = ""
		return nil
	}
	if !p.HasTitle(title) {
		return fmt.Errorf("%w: %q", ErrTitleNotOwned, title)
	}
	p.EquippedTitle = title
	return nil
}

// RevokeTitle removes a title from the collection, clearing the equipped
// slot if it was displayed.
func RevokeTitle(p *domain.PlayerProfile, title string) bool {
	for i, t := range p.Titles {
		if t == title {
			p.Titles = append(p.Titles[:i], p.Titles[i+1:]...)
			if p.EquippedTitle == title {
				p.EquippedTitle = ""
			}
			return true
		}
	}
	return false
}
