package lm

import (
	"math"
	"sort"

	"github.com/gtkrshnaaa/cevia/tokenizer"
)

const (
	// maxCandidates bounds the scoring table; extra candidates are dropped.
	maxCandidates = 100

	// decay down-weights shorter suffix fragments relative to the longest
	// matching one.
	decay = 0.85

	// betaUnigram weights the unigram log-probability prior.
	betaUnigram = 0.10
)

// Prediction is one ranked next-token candidate. Unused slots carry id 0
// and score 0.
type Prediction struct {
	ID    uint32
	Token string
	Score float64
}

// Predict scores next-token candidates for context by backward reasoning:
// evidence is aggregated from the longest matching context suffix down to
// length 1, longer matches weighted more heavily, then nudged by a unigram
// prior and renormalized. The result always has exactly k entries; when the
// context is empty or nothing matches and no unigrams exist, they are
// zero-filled. k < 1 yields nil.
func (m *Model) Predict(context string, k int) []Prediction {
	if k < 1 {
		return nil
	}

	out := make([]Prediction, k)
	for i := range out {
		out[i].Token = m.vocab.TokenText(0)
	}

	tokens := tokenizer.Tokenize(context)
	if len(tokens) == 0 {
		return out
	}

	maxContext := min(len(tokens), m.maxN-1)

	type candidate struct {
		id    uint32
		score float64
	}
	candidates := make([]candidate, 0, maxCandidates)
	index := make(map[uint32]int, maxCandidates)

	suffix := make([]uint32, 0, maxContext)
	for length := maxContext; length >= 1; length-- {
		// resolve the last `length` tokens; an unknown token invalidates
		// this suffix entirely
		suffix = suffix[:0]
		known := true
		for _, tok := range tokens[len(tokens)-length:] {
			id, ok := m.vocab.Lookup(tok)
			if !ok {
				known = false
				break
			}
			suffix = append(suffix, id)
		}
		if !known {
			continue
		}

		node, ok := m.ngrams.Prefix(suffix)
		if !ok {
			continue
		}
		children := node.Children()
		if len(children) == 0 {
			continue
		}

		var denom uint64
		for _, ch := range children {
			denom += uint64(ch.Count())
		}
		if denom == 0 {
			continue
		}

		weight := float64(length) * math.Pow(decay, float64(maxContext-length))

		for _, ch := range children {
			contrib := weight * float64(ch.Count()) / float64(denom)
			if at, ok := index[ch.TokenID()]; ok {
				candidates[at].score += contrib
			} else if len(candidates) < maxCandidates {
				index[ch.TokenID()] = len(candidates)
				candidates = append(candidates, candidate{id: ch.TokenID(), score: contrib})
			}
		}
	}

	filled := 0
	if len(candidates) > 0 {
		if m.totalTokens > 0 {
			for i := range candidates {
				c := m.ngrams.Count([]uint32{candidates[i].id})
				p := 1 / float64(m.totalTokens+1)
				if c > 0 {
					p = float64(c) / float64(m.totalTokens)
				}
				candidates[i].score += betaUnigram * math.Log(math.Max(p, 1e-9))
			}
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		for i := 0; i < k && i < len(candidates); i++ {
			out[i] = Prediction{
				ID:    candidates[i].id,
				Token: m.vocab.TokenText(candidates[i].id),
				Score: candidates[i].score,
			}
			filled++
		}

		var sum float64
		for i := 0; i < filled; i++ {
			sum += out[i].Score
		}
		if sum > 0 {
			for i := 0; i < filled; i++ {
				out[i].Score /= sum
			}
		}
	}

	if filled < k {
		m.padUnigrams(out, filled)
	}

	return out
}

// padUnigrams fills out[filled:] with the most frequent unigrams not already
// present, scored by raw corpus frequency.
func (m *Model) padUnigrams(out []Prediction, filled int) {
	if m.totalTokens == 0 {
		return
	}

	unigrams := m.ngrams.Root().Children()
	if len(unigrams) == 0 {
		return
	}

	sort.SliceStable(unigrams, func(i, j int) bool {
		return unigrams[i].Count() > unigrams[j].Count()
	})

	at := filled
	for _, u := range unigrams {
		if at >= len(out) {
			break
		}
		dup := false
		for i := 0; i < at; i++ {
			if out[i].ID == u.TokenID() {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out[at] = Prediction{
			ID:    u.TokenID(),
			Token: m.vocab.TokenText(u.TokenID()),
			Score: float64(u.Count()) / float64(m.totalTokens),
		}
		at++
	}
}
