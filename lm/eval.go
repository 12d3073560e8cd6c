package lm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/gtkrshnaaa/cevia/tokenizer"
)

const (
	defaultEvalTopK = 5
	maxEvalTopK     = 64
)

// EvalResult summarizes a top-k hit-rate evaluation.
type EvalResult struct {
	TopK  int
	Pairs uint64 // next-token predictions evaluated
	Hits  uint64 // predictions whose top-k contained the gold token
}

// HitRate returns the hit percentage, 0 when nothing was evaluated.
func (r EvalResult) HitRate() float64 {
	if r.Pairs == 0 {
		return 0
	}
	return 100 * float64(r.Hits) / float64(r.Pairs)
}

// Evaluate measures how often the gold next token appears in the top-k
// prediction for its preceding token, over every adjacent pair in the
// corpus read from r. topK defaults to 5 and is capped at 64.
func (m *Model) Evaluate(r io.Reader, topK int) (EvalResult, error) {
	if topK < 1 {
		topK = defaultEvalTopK
	}
	topK = min(topK, maxEvalTopK)

	result := EvalResult{TopK: topK}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		tokens := tokenizer.Tokenize(scanner.Text())
		if len(tokens) <= 1 {
			continue
		}

		for i := 1; i < len(tokens); i++ {
			preds := m.Predict(tokens[i-1], topK)
			goldID, _ := m.vocab.Lookup(tokens[i])

			for _, p := range preds {
				if p.Score <= 0 {
					break
				}
				if p.ID == goldID {
					result.Hits++
					break
				}
			}
			result.Pairs++
		}
	}

	return result, scanner.Err()
}

// EvaluateFile runs Evaluate over the named corpus file.
func (m *Model) EvaluateFile(path string, topK int) (EvalResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return EvalResult{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	return m.Evaluate(f, topK)
}
