package roster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueNames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	names, err := UniqueNames(rng, 30)
	require.NoError(t, err)
	require.Len(t, names, 30)

	seen := map[string]bool{}
	for _, n := range names {
		assert.NotEmpty(t, n)
		assert.False(t, seen[n], "duplicate name %q", n)
		seen[n] = true
	}

	_, err = UniqueNames(rng, PoolSize()+1)
	assert.ErrorIs(t, err, ErrNamePoolExhausted)
}
