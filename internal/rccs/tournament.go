// Package rccs simulates the Ranked Clicker Championship Series: single-shot
// bracket outcomes against the player's rating, paying out cosmetic titles.
package rccs

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ranked-clicker/internal/domain"
)

type TournamentType string

const (
	Regional1 TournamentType = "Regional1"
	Regional2 TournamentType = "Regional2"
	Major     TournamentType = "Major"
	Worlds    TournamentType = "Worlds"
)

func (t TournamentType) Valid() bool {
	switch t {
	case Regional1, Regional2, Major, Worlds:
		return true
	}
	return false
}

// Participants returns the bracket size for the tournament type.
func (t TournamentType) Participants() int {
	switch t {
	case Worlds:
		return 4
	case Major:
		return 16
	default:
		return 32
	}
}

func (t TournamentType) regional() bool {
	return t == Regional1 || t == Regional2
}

// Result is the outcome of one simulated tournament run.
type Result struct {
	Placement    int
	Participants int
	Title        string // empty when the run earned nothing
}

// CurrentWeek maps a date onto the four-week RCCS cycle.
func CurrentWeek(now time.Time) int {
	week := (now.Day() + 6) / 7
	if week < 1 {
		week = 1
	}
	if week > 4 {
		week = 4
	}
	return week
}

func WeekDescription(week int) string {
	switch week {
	case 1:
		return "Break Week - Ladder Reset"
	case 2:
		return "Regional Tournament 1"
	case 3:
		return "Regional Tournament 2"
	case 4:
		return "Major + Worlds"
	default:
		return "Unknown Week"
	}
}

// Simulate runs one bracket for the player. Placement blends a skill factor
// derived from rating (0 at 800 MMR, 1 at 1600) with randomness, then maps
// onto the title ladder for the tournament tier.
func Simulate(t TournamentType, mode domain.Mode, season, playerMMR int, rng *rand.Rand) Result {
	size := t.Participants()

	skill := (float64(playerMMR) - 800) / 800
	if skill < 0 {
		skill = 0
	}
	if skill > 1 {
		skill = 1
	}
	luck := rng.Float64()

	var placement int
	if t == Worlds {
		switch {
		case skill > 0.8 && luck > 0.3:
			placement = 1
		case skill > 0.6 && luck > 0.5:
			placement = 2
		case skill > 0.4:
			placement = 3 + rng.Intn(2)
		default:
			placement = 1 + rng.Intn(size)
		}
	} else {
		score := skill*0.8 + luck*0.2
		switch {
		case score > 0.9:
			placement = 1
		case score > 0.8:
			placement = 2 + rng.Intn(3)
		case score > 0.6:
			placement = 5 + rng.Intn(6)
		case score > 0.4:
			placement = 9 + rng.Intn(16)
		default:
			// Bottom quarter of the bracket, whatever its size.
			lo := size*3/4 + 1
			placement = lo + rng.Intn(size-lo+1)
		}
		if placement > size {
			placement = size
		}
	}

	return Result{
		Placement:    placement,
		Participants: size,
		Title:        titleFor(t, mode, season, placement),
	}
}

// titleFor picks the single best title a placement earns. Champion outranks
// finalist outranks contender.
func titleFor(t TournamentType, mode domain.Mode, season, placement int) string {
	prefix := fmt.Sprintf("RCCS S%d %s", season, strings.ToUpper(string(mode)))

	if placement == 1 {
		switch {
		case t.regional():
			return prefix + " REGIONAL CHAMPION"
		case t == Major:
			return prefix + " MAJOR CHAMPION"
		default:
			return prefix + " WORLD CHAMPION"
		}
	}
	if t == Worlds {
		if placement <= 4 {
			return prefix + " WORLD CONTENDER"
		}
		return ""
	}
	if placement <= 6 {
		if t == Major {
			return prefix + " MAJOR FINALIST"
		}
		return prefix + " REGIONAL FINALIST"
	}
	if placement <= 32 {
		return prefix + " CONTENDER"
	}
	return ""
}

// EliteTitle awards the season elite title once a player holds at least four
// championship or finalist titles for the season.
func EliteTitle(titles []string, season int) (string, bool) {
	tag := fmt.Sprintf("S%d", season)
	count := 0
	for _, title := range titles {
		if strings.Contains(title, tag) &&
			(strings.Contains(title, "CHAMPION") || strings.Contains(title, "FINALIST")) {
			count++
		}
	}
	if count < 4 {
		return "", false
	}
	return fmt.Sprintf("RCCS %s ELITE", tag), true
}
