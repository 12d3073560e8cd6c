package lm

import (
	"strings"

	"github.com/gtkrshnaaa/cevia/sample"
	"github.com/gtkrshnaaa/cevia/tokenizer"
)

const (
	// contextWindow is how many trailing tokens feed the next prediction.
	contextWindow = 7

	// predictWidth is the candidate list width sampled at each step.
	predictWidth = 10

	// hardTokenCap bounds a response regardless of maxTokens.
	hardTokenCap = 25

	// generateCap bounds maxTokens itself.
	generateCap = 100

	// lowConfidence ends generation once the top score drops below it and
	// at least minTokensForCutoff tokens exist.
	lowConfidence      = 0.03
	minTokensForCutoff = 3

	// minTokensForTerminator is how many tokens must exist before a
	// terminator token may end the response.
	minTokensForTerminator = 5
)

// Generate produces a response by repeatedly predicting, sampling and
// appending tokens until a stop condition fires: sentence-final punctuation,
// a terminator token, low confidence, a length cap or a repetition loop.
// maxTokens is capped at 100 tokens; non-positive maxTokens yields "".
func (m *Model) Generate(input string, maxTokens int, temperature float64) string {
	if maxTokens < 1 {
		return ""
	}
	maxTokens = min(maxTokens, generateCap)

	window := tokenizer.Tokenize(input)
	if len(window) > contextWindow {
		window = window[len(window)-contextWindow:]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sampler := sample.New(temperature, m.rng)

	var out []string
	var history []uint32

	for len(out) < maxTokens {
		preds := m.Predict(strings.Join(window, " "), predictWidth)
		if len(preds) == 0 || preds[0].Score <= 0 {
			break
		}

		candidates := make([]sample.Token, len(preds))
		for i, p := range preds {
			candidates[i] = sample.Token{ID: p.ID, Score: p.Score}
		}
		id := sampler.Sample(candidates)

		text := m.vocab.TokenText(id)
		if text == "" {
			break
		}

		out = append(out, text)
		if len(window) >= contextWindow {
			window = window[len(window)-(contextWindow-1):]
		}
		window = append(window, text)
		history = append(history, id)

		if stopAfter(text, out, history, preds[0].Score, m.terminators) {
			break
		}
	}

	return strings.Join(out, " ")
}

// stopAfter reports whether generation ends after emitting text.
func stopAfter(text string, out []string, history []uint32, topScore float64, terminators map[string]bool) bool {
	switch text[len(text)-1] {
	case '.', '?', '!':
		return true
	}

	if len(out) >= minTokensForTerminator && terminators[text] {
		return true
	}
	if topScore < lowConfidence && len(out) >= minTokensForCutoff {
		return true
	}
	if len(out) >= hardTokenCap {
		return true
	}

	// loop detection: the same token three times, or the same pair twice
	n := len(history)
	if n >= 3 && history[n-1] == history[n-2] && history[n-2] == history[n-3] {
		return true
	}
	if n >= 4 && history[n-1] == history[n-3] && history[n-2] == history[n-4] {
		return true
	}

	return false
}
