// Package cmd implements the cevia command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gtkrshnaaa/cevia/envconfig"
	"github.com/gtkrshnaaa/cevia/lm"
	"github.com/gtkrshnaaa/cevia/readline"
	"github.com/gtkrshnaaa/cevia/tokenizer"
	"github.com/gtkrshnaaa/cevia/version"
)

// NewCLI builds the cevia command tree.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "cevia",
		Short:         "N-gram language model engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			envconfig.LoadConfig()

			level := slog.LevelInfo
			if envconfig.Debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.SetVersionTemplate("cevia {{.Version}}\n")

	rootCmd.AddCommand(
		NewTrainCmd(),
		NewPredictCmd(),
		NewGenerateCmd(),
		NewChatCmd(),
		NewRunCmd(),
		NewEvalCmd(),
		NewServeCmd(),
	)

	for _, cmd := range rootCmd.Commands() {
		appendEnvDocs(cmd)
	}

	return rootCmd
}

func appendEnvDocs(cmd *cobra.Command) {
	cmd.SetUsageTemplate(cmd.UsageTemplate() + fmt.Sprintf(`
Environment Variables:
  %-16s %s
  %-16s %s
`,
		"CEVIA_HOST", envconfig.AsMap()["CEVIA_HOST"].Description,
		"CEVIA_MODELS", envconfig.AsMap()["CEVIA_MODELS"].Description,
	))
}

// defaultModelPrefix is where train writes and the inference commands read
// unless --model-prefix overrides it.
func defaultModelPrefix() string {
	return filepath.Join(envconfig.ModelsDir, "ceviamodel")
}

// loadModel builds a fresh model and loads the tables under prefix.
func loadModel(prefix string) (*lm.Model, error) {
	m, err := lm.New(lm.DefaultMaxN)
	if err != nil {
		return nil, err
	}
	if err := m.Load(prefix); err != nil {
		return nil, fmt.Errorf("load model %q: %w", prefix, err)
	}
	return m, nil
}

// newHistory opens the shared REPL history, honoring CEVIA_NOHISTORY.
// History is best-effort: when it cannot be opened the session runs
// without one.
func newHistory() *readline.History {
	h, err := readline.NewHistory()
	if err != nil {
		slog.Debug("history unavailable", "error", err)
		return nil
	}
	h.Enabled = !envconfig.NoHistory
	return h
}

// normalizeContext reduces raw to its last token, the same view training
// has of it. Input that tokenizes to nothing passes through unchanged.
func normalizeContext(raw string) string {
	tokens := tokenizer.Tokenize(raw)
	if len(tokens) == 0 {
		return raw
	}
	return tokens[len(tokens)-1]
}
