package sample

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelectsSampler(t *testing.T) {
	assert.IsType(t, Greedy{}, New(0, nil))
	assert.IsType(t, Greedy{}, New(0.01, nil))
	assert.IsType(t, Temperature{}, New(0.7, rand.New(rand.NewSource(1))))
}

func TestGreedyPicksTopToken(t *testing.T) {
	tokens := []Token{{ID: 7, Score: 0.6}, {ID: 8, Score: 0.4}}

	assert.Equal(t, uint32(7), Greedy{}.Sample(tokens))
	assert.Equal(t, uint32(0), Greedy{}.Sample(nil))
}

func TestTemperatureDrawsFromPositiveScores(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Temperature{T: 0.7, Rng: rng}

	tokens := []Token{
		{ID: 3, Score: 0.5},
		{ID: 4, Score: 0.3},
		{ID: 5, Score: 0.2},
		{ID: 6, Score: 0},
		{ID: 7, Score: 0.9}, // after a non-positive score, never considered
	}

	seen := map[uint32]int{}
	for i := 0; i < 500; i++ {
		seen[s.Sample(tokens)]++
	}

	assert.NotContains(t, seen, uint32(6))
	assert.NotContains(t, seen, uint32(7))
	assert.Greater(t, seen[3], seen[5], "higher scores are drawn more often")
}

func TestTemperatureDegenerateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Temperature{T: 0.7, Rng: rng}

	assert.Equal(t, uint32(0), s.Sample([]Token{{ID: 9, Score: 0}}))
	assert.Equal(t, uint32(0), s.Sample(nil))
}

func TestLowTemperatureSharpens(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := Temperature{T: 0.05, Rng: rng}

	tokens := []Token{{ID: 1, Score: 0.6}, {ID: 2, Score: 0.4}}

	top := 0
	for i := 0; i < 200; i++ {
		if s.Sample(tokens) == 1 {
			top++
		}
	}

	assert.Greater(t, top, 195, "near-zero temperature is near-greedy")
}
