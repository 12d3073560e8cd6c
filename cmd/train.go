package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gtkrshnaaa/cevia/format"
	"github.com/gtkrshnaaa/cevia/lm"
	"github.com/gtkrshnaaa/cevia/progress"
)

func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train CORPUS",
		Short: "Train a model on a text corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  trainHandler,
	}

	cmd.Flags().String("model-prefix", "", "Path prefix for the model files (default from CEVIA_MODELS)")
	cmd.Flags().Int("max-n", lm.DefaultMaxN, "Maximum n-gram order")

	return cmd
}

func trainHandler(cmd *cobra.Command, args []string) error {
	corpus := args[0]

	prefix, _ := cmd.Flags().GetString("model-prefix")
	if prefix == "" {
		prefix = defaultModelPrefix()
	}
	maxN, _ := cmd.Flags().GetInt("max-n")

	m, err := lm.New(maxN)
	if err != nil {
		return err
	}

	f, err := os.Open(corpus)
	if err != nil {
		return err
	}

	tracker := progress.NewTracker(os.Stderr, fmt.Sprintf("training on %s", corpus))
	trainErr := m.TrainWithProgress(f, func(s lm.TrainStats) {
		tracker.Update(s.Tokens, uint64(s.Vocab))
	})
	f.Close()
	tracker.StopAndClear()
	if trainErr != nil {
		return trainErr
	}

	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return err
	}
	if err := m.Save(prefix); err != nil {
		return err
	}

	size := int64(0)
	if fi, err := os.Stat(corpus); err == nil {
		size = fi.Size()
	}

	fmt.Fprintf(os.Stderr, "trained on %s (%s): %s tokens, %s vocabulary entries\n",
		corpus, format.HumanBytes(size),
		format.HumanNumber(m.TotalTokens()), format.HumanNumber(uint64(m.VocabSize())))
	fmt.Fprintf(os.Stderr, "model saved with prefix %s\n", prefix)

	return nil
}
