// Package lm implements a stateless n-gram language model: training over a
// plain-text corpus, backward-reasoning next-token prediction, temperature
// sampled generation and a compact binary persistence format.
package lm

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gtkrshnaaa/cevia/ngram"
	"github.com/gtkrshnaaa/cevia/vocab"
)

// DefaultMaxN is the n-gram order used by the CLI.
const DefaultMaxN = 4

// defaultTerminators are tokens that end a generated response once enough
// of it exists. The stock set is Indonesian interjections; override with
// SetTerminators.
var defaultTerminators = []string{"iya", "dong", "deh", "sih", "kok", "lho", "nih"}

// Model is an n-gram language model. It is mutated only by Train and Load;
// Predict and Generate treat it as read-only, so a loaded model may serve
// concurrent readers.
type Model struct {
	vocab       *vocab.Vocabulary
	ngrams      *ngram.Index
	maxN        int
	totalTokens uint64

	terminators map[string]bool

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New returns an empty model accepting n-grams of order 1 through maxN.
func New(maxN int) (*Model, error) {
	if maxN < 1 {
		return nil, fmt.Errorf("max n-gram order must be at least 1, got %d", maxN)
	}

	m := &Model{
		vocab:       vocab.New(),
		ngrams:      ngram.New(maxN),
		maxN:        maxN,
		terminators: make(map[string]bool),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.SetTerminators(defaultTerminators)

	return m, nil
}

// SetSeed reseeds the sampling source so generation becomes reproducible.
func (m *Model) SetSeed(seed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rng = rand.New(rand.NewSource(seed))
}

// SetTerminators replaces the response-ending token set.
func (m *Model) SetTerminators(tokens []string) {
	terminators := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		terminators[tok] = true
	}
	m.terminators = terminators
}

// VocabSize returns the number of assigned token ids.
func (m *Model) VocabSize() int {
	return m.vocab.Size()
}

// TotalTokens returns the number of training tokens processed.
func (m *Model) TotalTokens() uint64 {
	return m.totalTokens
}

// MaxN returns the maximum n-gram order.
func (m *Model) MaxN() int {
	return m.maxN
}

// TokenText returns the token string for id, or <unk> when out of range.
func (m *Model) TokenText(id uint32) string {
	return m.vocab.TokenText(id)
}
