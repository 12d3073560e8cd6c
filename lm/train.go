package lm

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gtkrshnaaa/cevia/tokenizer"
)

// TrainStats is a progress snapshot taken while training runs.
type TrainStats struct {
	Lines  uint64
	Tokens uint64
	Vocab  int
}

// trainReportEvery is how many corpus lines pass between progress
// callbacks.
const trainReportEvery = 512

// Train reads corpus lines from r, assigns vocabulary ids and records every
// n-gram of order 1..maxN. Empty lines are skipped. It fails only on read
// errors.
func (m *Model) Train(r io.Reader) error {
	return m.TrainWithProgress(r, nil)
}

// TrainWithProgress trains like Train, invoking progress every few hundred
// lines and once more when the corpus is exhausted.
func (m *Model) TrainWithProgress(r io.Reader, progress func(TrainStats)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines uint64
	for scanner.Scan() {
		lines++

		tokens := tokenizer.Tokenize(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		ids := make([]uint32, len(tokens))
		for i, tok := range tokens {
			ids[i] = m.vocab.GetOrAdd(tok)
			m.totalTokens++
		}

		m.ngrams.UpdateAll(ids)

		if progress != nil && lines%trainReportEvery == 0 {
			progress(TrainStats{Lines: lines, Tokens: m.totalTokens, Vocab: m.vocab.Size()})
		}
	}
	if progress != nil {
		progress(TrainStats{Lines: lines, Tokens: m.totalTokens, Vocab: m.vocab.Size()})
	}

	return scanner.Err()
}

// TrainFile trains the model on the named corpus file.
func (m *Model) TrainFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := m.Train(f); err != nil {
		return fmt.Errorf("train on %s: %w", path, err)
	}

	slog.Debug("trained", "path", path, "tokens", m.totalTokens, "vocab", m.vocab.Size(), "duration", time.Since(start))
	return nil
}
