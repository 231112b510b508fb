package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEloDelta(t *testing.T) {
	tests := []struct {
		name      string
		player    int
		opponents []int
		won       bool
		k         int
		want      int
	}{
		{"even win at k30", 1250, []int{1250}, true, 30, 15},
		{"even loss at k30", 1250, []int{1250}, false, 30, -15},
		{"underdog win pays more", 1000, []int{1400}, true, 30, 27},
		{"favorite win pays less", 1400, []int{1000}, true, 30, 3},
		{"favorite loss costs more", 1400, []int{1000}, false, 30, -27},
		{"averages opponent ratings", 1200, []int{1100, 1300}, true, 30, 15},
		{"provisional k amplifies", 1250, []int{1250}, true, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EloDelta(tt.player, tt.opponents, tt.won, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEloDeltaNoOpponents(t *testing.T) {
	_, err := EloDelta(1000, nil, true, 30)
	assert.ErrorIs(t, err, ErrNoOpponents)
}

func TestEloDeltaBoundedByK(t *testing.T) {
	for _, opp := range []int{0, 600, 1200, 3000} {
		for _, won := range []bool{true, false} {
			d, err := EloDelta(1000, []int{opp}, won, 40)
			require.NoError(t, err)
			assert.LessOrEqual(t, d, 40)
			assert.GreaterOrEqual(t, d, -40)
			if won {
				assert.GreaterOrEqual(t, d, 0)
			} else {
				assert.LessOrEqual(t, d, 0)
			}
		}
	}
}

func TestKFactor(t *testing.T) {
	tests := []struct {
		name   string
		rating int
		games  int
		want   int
	}{
		{"provisional overrides rating", 1500, 3, 40},
		{"provisional boundary", 1500, 9, 40},
		{"low rating", 800, 50, 35},
		{"mid rating", 1200, 50, 30},
		{"mid upper boundary", 1399, 50, 30},
		{"high rating", 1400, 50, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KFactor(tt.rating, tt.games))
		})
	}
}

func TestApply(t *testing.T) {
	assert.Equal(t, 615, Apply(600, 15))
	assert.Equal(t, 585, Apply(600, -15))
	assert.Equal(t, 0, Apply(10, -40), "rating floors at zero")
}

func TestAverageMMR(t *testing.T) {
	assert.Equal(t, DefaultMMR, AverageMMR(nil))
	assert.Equal(t, 1200, AverageMMR([]int{1100, 1300}))
	assert.Equal(t, 1000, AverageMMR([]int{999, 1000, 1000}))
}
