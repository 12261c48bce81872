package judge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/hcollier/penjudge/internal/judge"
)

func remainingOf(c *judge.Case) []int {
	out := make([]int, c.Pens())
	for i := range out {
		out[i] = c.Remaining(i)
	}
	return out
}

func TestNewCases_GoldenSeed123(t *testing.T) {
	cases := judge.NewCases(2, 3, judge.NewRNG(123))
	require.Len(t, cases, 2)
	assert.Equal(t, []int{2, 1, 0}, remainingOf(&cases[0]))
	assert.Equal(t, []int{1, 0, 2}, remainingOf(&cases[1]))
}

// TestNewCases_Permutation_Property verifies that every case holds a
// permutation of 0..n-1, for any seed, case count, and n.
func TestNewCases_Permutation_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 8).Draw(rt, "count")
		n := rapid.IntRange(1, 32).Draw(rt, "n")
		seed := rapid.Int64Range(0, 1<<62).Draw(rt, "seed")

		cases := judge.NewCases(count, n, judge.NewRNG(seed))
		require.Len(rt, cases, count)
		for ci := range cases {
			seen := make([]bool, n)
			for p := 0; p < n; p++ {
				v := cases[ci].Remaining(p)
				require.GreaterOrEqual(rt, v, 0)
				require.Less(rt, v, n)
				require.False(rt, seen[v], "case %d: value %d duplicated", ci, v)
				seen[v] = true
			}
		}
	})
}

func TestCase_WriteDecrementsByOne(t *testing.T) {
	cases := judge.NewCases(1, 3, judge.NewRNG(123))
	c := &cases[0] // ink [2 1 0]

	assert.Equal(t, judge.ResultWrote, c.Write(0))
	assert.Equal(t, 1, c.Remaining(0))
	assert.Equal(t, judge.ResultWrote, c.Write(0))
	assert.Equal(t, 0, c.Remaining(0))
}

func TestCase_WriteDryPen(t *testing.T) {
	cases := judge.NewCases(1, 3, judge.NewRNG(123))
	c := &cases[0] // pen 2 starts empty

	assert.Equal(t, judge.ResultNoInk, c.Write(2))
	assert.Equal(t, 0, c.Remaining(2), "a dry pen must never go negative")

	// Deplete pen 1 and confirm further writes stay at zero.
	assert.Equal(t, judge.ResultWrote, c.Write(1))
	assert.Equal(t, judge.ResultNoInk, c.Write(1))
	assert.Equal(t, 0, c.Remaining(1))
}

func TestCase_Pens(t *testing.T) {
	cases := judge.NewCases(1, 15, judge.NewRNG(1))
	assert.Equal(t, 15, cases[0].Pens())
}

func TestResultEncoding(t *testing.T) {
	// The shared zero encoding is part of the wire format.
	assert.Equal(t, judge.ResultSkipped, judge.ResultNoInk)
	assert.Equal(t, 1, judge.ResultWrote)
}
