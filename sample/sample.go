// Package sample picks a token from a ranked prediction list.
package sample

import (
	"math"
	"math/rand"
)

// Token is one candidate with its prediction score.
type Token struct {
	ID    uint32
	Score float64
}

// Sampler selects a token id from a score-descending candidate list.
type Sampler interface {
	Sample(tokens []Token) uint32
}

// greedyThreshold is the temperature at or below which sampling collapses
// to picking the top token.
const greedyThreshold = 0.01

// New returns the sampler for the given temperature: greedy at or below
// the threshold, temperature-weighted otherwise. rng may be nil for greedy.
func New(temperature float64, rng *rand.Rand) Sampler {
	if temperature <= greedyThreshold {
		return Greedy{}
	}
	return Temperature{T: temperature, Rng: rng}
}

// Greedy always picks the top token.
type Greedy struct{}

func (Greedy) Sample(tokens []Token) uint32 {
	if len(tokens) == 0 {
		return 0
	}
	return tokens[0].ID
}

// Temperature draws from the candidate list with scores flattened (T > 1)
// or sharpened (T < 1) before normalization.
type Temperature struct {
	T   float64
	Rng *rand.Rand
}

func (s Temperature) Sample(tokens []Token) uint32 {
	// the list is score-descending; drop everything from the first
	// non-positive score on
	n := len(tokens)
	for i, tok := range tokens {
		if tok.Score <= 0 {
			n = i
			break
		}
	}
	if n == 0 {
		return 0
	}

	adjusted := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		adjusted[i] = math.Exp(math.Log(tokens[i].Score+1e-9) / s.T)
		sum += adjusted[i]
	}
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		return tokens[0].ID
	}

	r := s.Rng.Float64()
	var cum float64
	for i := 0; i < n; i++ {
		cum += adjusted[i] / sum
		if cum >= r {
			return tokens[i].ID
		}
	}

	return tokens[n-1].ID
}
