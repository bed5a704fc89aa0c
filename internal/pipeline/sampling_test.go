package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSample_DoesNotMutateInput(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	orig := append([]int(nil), in...)

	_ = Sample(in, 4, seeded(1))
	assert.Equal(t, orig, in)
}

func TestSample_TruncatesAndPermutes(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	out := Sample(in, 5, seeded(7))
	require.Len(t, out, 5)
	for _, v := range out {
		assert.Contains(t, in, v)
	}

	all := Sample(in, 100, seeded(7))
	assert.ElementsMatch(t, in, all)
}

func TestSample_Deterministic(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, Sample(in, 5, seeded(42)), Sample(in, 5, seeded(42)))
}

func TestSample_EdgeCases(t *testing.T) {
	out := Sample[string](nil, 5, seeded(1))
	assert.NotNil(t, out)
	assert.Empty(t, out)

	assert.Empty(t, Sample([]int{1, 2, 3}, -1, seeded(1)))
	assert.Empty(t, Sample([]int{1, 2, 3}, 0, seeded(1)))

	assert.Len(t, Sample([]int{1, 2, 3}, 2, nil), 2)
}
