package rating

import (
	"errors"
	"math"
)

// ErrNoOpponents is returned when a delta is requested without any opponent
// ratings. That is a caller bug, not a recoverable game state.
var ErrNoOpponents = errors.New("rating: opponent list is empty")

// DefaultMMR is the baseline rating new players start at.
const DefaultMMR = 600

// EloDelta computes the signed rating change for a match against the average
// of the opponents' ratings. The result is bounded by ±kFactor.
func EloDelta(playerRating int, opponentRatings []int, won bool, kFactor int) (int, error) {
	if len(opponentRatings) == 0 {
		return 0, ErrNoOpponents
	}

	sum := 0
	for _, r := range opponentRatings {
		sum += r
	}
	avgOpponent := float64(sum) / float64(len(opponentRatings))

	expected := 1 / (1 + math.Pow(10, (avgOpponent-float64(playerRating))/400))

	actual := 0.0
	if won {
		actual = 1.0
	}

	return int(math.Round(float64(kFactor) * (actual - expected))), nil
}

// KFactor selects the Elo sensitivity for a player. The provisional tier for
// new players takes precedence over the rating tiers.
func KFactor(playerRating, gamesPlayed int) int {
	switch {
	case gamesPlayed < 10:
		return 40
	case playerRating < 1000:
		return 35
	case playerRating < 1400:
		return 30
	default:
		return 25
	}
}

// Apply adds a delta to a rating, flooring the result at zero.
func Apply(rating, delta int) int {
	next := rating + delta
	if next < 0 {
		return 0
	}
	return next
}

// AverageMMR returns the rounded mean of the given ratings, or the baseline
// when the list is empty.
func AverageMMR(ratings []int) int {
	if len(ratings) == 0 {
		return DefaultMMR
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}
