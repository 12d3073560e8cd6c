package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gtkrshnaaa/cevia/api"
	"github.com/gtkrshnaaa/cevia/lm"
)

const maxCLITopK = 64

func NewPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict MODEL_PREFIX CONTEXT...",
		Short: "Predict the next token for a context",
		Args:  cobra.MinimumNArgs(2),
		RunE:  predictHandler,
	}

	cmd.Flags().Int("top-k", 5, "Number of candidates to show")
	cmd.Flags().String("host", "", "Predict against a running cevia server instead of local files")

	return cmd
}

func predictHandler(cmd *cobra.Command, args []string) error {
	prefix := args[0]
	context := normalizeContext(strings.Join(args[1:], " "))

	topK, _ := cmd.Flags().GetInt("top-k")
	if topK < 1 {
		topK = 5
	}
	topK = min(topK, maxCLITopK)

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		return remotePredict(cmd, host, context, topK)
	}

	m, err := loadModel(prefix)
	if err != nil {
		return err
	}

	fmt.Printf("Context: %s\n", context)
	renderPredictions(m.Predict(context, topK))
	return nil
}

func remotePredict(cmd *cobra.Command, host, context string, topK int) error {
	client := clientForHost(host)

	resp, err := client.Predict(cmd.Context(), &api.PredictRequest{Context: context, TopK: topK})
	if err != nil {
		return err
	}

	fmt.Printf("Context: %s\n", resp.Context)

	preds := make([]lm.Prediction, len(resp.Predictions))
	for i, p := range resp.Predictions {
		preds[i] = lm.Prediction{Token: p.Token, Score: p.Score}
	}
	renderPredictions(preds)
	return nil
}

func renderPredictions(preds []lm.Prediction) {
	var data [][]string
	for _, p := range preds {
		if p.Score <= 0 {
			break
		}
		data = append(data, []string{p.Token, fmt.Sprintf("%.2f%%", p.Score*100)})
	}
	if len(data) == 0 {
		fmt.Println("no predictions")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"TOKEN", "SCORE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"interactive"},
		Short:   "Interactively predict next tokens",
		Args:    cobra.NoArgs,
		RunE:    runHandler,
	}

	cmd.Flags().String("model-prefix", "", "Path prefix for the model files (default from CEVIA_MODELS)")
	cmd.Flags().Int("top-k", 5, "Number of candidates to show")

	return cmd
}

func runHandler(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("model-prefix")
	if prefix == "" {
		prefix = defaultModelPrefix()
	}
	topK, _ := cmd.Flags().GetInt("top-k")
	if topK < 1 {
		topK = 5
	}
	topK = min(topK, maxCLITopK)

	m, err := loadModel(prefix)
	if err != nil {
		return err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("Interactive mode. Type 'exit' to quit.")
	}

	history := newHistory()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("\nEnter context: ")
		}
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}
		if history != nil {
			history.Add(input)
		}

		renderPredictions(m.Predict(normalizeContext(input), topK))
	}

	return scanner.Err()
}
