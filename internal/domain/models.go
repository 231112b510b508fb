package domain

import (
	"time"
)

type Mode string

const (
	Mode1v1 Mode = "1v1"
	Mode2v2 Mode = "2v2"
	Mode3v3 Mode = "3v3"
)

// Modes lists every game mode in display order.
var Modes = []Mode{Mode1v1, Mode2v2, Mode3v3}

func (m Mode) Valid() bool {
	switch m {
	case Mode1v1, Mode2v2, Mode3v3:
		return true
	}
	return false
}

// TeamSize returns the number of players per team for the mode.
func (m Mode) TeamSize() int {
	switch m {
	case Mode2v2:
		return 2
	case Mode3v3:
		return 3
	default:
		return 1
	}
}

type QueueType string

const (
	QueueCasual QueueType = "casual"
	QueueRanked QueueType = "ranked"
)

func (q QueueType) Valid() bool {
	return q == QueueCasual || q == QueueRanked
}

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

func (t Team) Opposite() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

type Rank string

const (
	RankBronze        Rank = "Bronze"
	RankSilver        Rank = "Silver"
	RankGold          Rank = "Gold"
	RankPlatinum      Rank = "Platinum"
	RankDiamond       Rank = "Diamond"
	RankChampion      Rank = "Champion"
	RankGrandChampion Rank = "Grand Champion"
)

type Division string

const (
	DivisionI   Division = "I"
	DivisionII  Division = "II"
	DivisionIII Division = "III"
	DivisionIV  Division = "IV"
	DivisionV   Division = "V"
)

// Standing is a rank/division pair derived from MMR. Grand Champion has no
// division; Division is empty in that case.
type Standing struct {
	Rank     Rank
	Division Division
}

// PlayerProfile is the persistent identity record for the (single) real
// player. Ranks are always derived from the corresponding MMR and never
// mutated independently of it.
type PlayerProfile struct {
	Username             string
	Level                int
	XP                   int
	CasualMMR            int
	RankedMMR            map[Mode]int
	PeakCasualMMR        int
	PeakRankedMMR        map[Mode]int
	Rank                 map[Mode]Standing
	SeasonWins           map[Mode]int
	SeasonRewardProgress map[Mode]Rank
	Titles               []string
	EquippedTitle        string
	TotalGames           int
	TotalWins            int
	PlacementMatches     map[Mode]int
	PlacementComplete    map[Mode]bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasTitle reports whether the profile owns the given cosmetic title.
func (p *PlayerProfile) HasTitle(title string) bool {
	for _, t := range p.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// MMRFor returns the rating the given queue/mode combination plays at.
func (p *PlayerProfile) MMRFor(queue QueueType, mode Mode) int {
	if queue == QueueCasual {
		return p.CasualMMR
	}
	return p.RankedMMR[mode]
}

// Clone deep-copies the profile so snapshots can cross goroutine or API
// boundaries without sharing the owner's maps.
func (p *PlayerProfile) Clone() *PlayerProfile {
	c := *p
	c.RankedMMR = cloneMap(p.RankedMMR)
	c.PeakRankedMMR = cloneMap(p.PeakRankedMMR)
	c.Rank = cloneMap(p.Rank)
	c.SeasonWins = cloneMap(p.SeasonWins)
	c.SeasonRewardProgress = cloneMap(p.SeasonRewardProgress)
	c.PlacementMatches = cloneMap(p.PlacementMatches)
	c.PlacementComplete = cloneMap(p.PlacementComplete)
	c.Titles = append([]string(nil), p.Titles...)
	return &c
}

func cloneMap[V any](m map[Mode]V) map[Mode]V {
	out := make(map[Mode]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// AIPlayer is a synthetic opponent or teammate in a live match.
type AIPlayer struct {
	ID              string
	Username        string
	MMR             int
	Standing        Standing
	Title           string
	Team            Team
	ClicksPerSecond float64
	Variance        float64
}

type OpponentSummary struct {
	Username string `json:"username"`
	MMR      int    `json:"mmr"`
}

// MatchResult is produced once per match when it ends.
type MatchResult struct {
	Won         bool
	MMRChange   int
	NewMMR      int
	NewStanding Standing
	Opponents   []OpponentSummary
}

// MatchRecord is one row of persistent match history.
type MatchRecord struct {
	ID            string    `json:"id"` // nanoid
	Mode          Mode      `json:"mode"`
	QueueType     QueueType `json:"queueType"`
	Won           bool      `json:"won"`
	PlayerScore   int       `json:"playerScore"`
	OpponentScore int       `json:"opponentScore"`
	MMRChange     int       `json:"mmrChange"`
	NewMMR        int       `json:"newMmr"`
	PlayedAt      time.Time `json:"playedAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LeaderboardPlayer is a synthetic top-ladder player.
type LeaderboardPlayer struct {
	ID             string
	Username       string
	MMR            map[Mode]int
	Standing       map[Mode]Standing
	Title          string
	Specialization Mode // empty unless the player favors one mode
	LastUpdate     time.Time
}

// QueueState describes the current matchmaking queue.
type QueueState struct {
	IsQueuing     bool      `json:"isQueuing"`
	QueueType     QueueType `json:"queueType,omitempty"`
	Mode          Mode      `json:"mode,omitempty"`
	EstimatedWait int       `json:"estimatedWait,omitempty"` // seconds
	Population    string    `json:"population,omitempty"`
}
