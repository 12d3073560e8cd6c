package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gtkrshnaaa/cevia/format"
)

func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval CORPUS",
		Short: "Evaluate top-k hit rate on a corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  evalHandler,
	}

	cmd.Flags().String("model-prefix", "", "Path prefix for the model files (default from CEVIA_MODELS)")
	cmd.Flags().Int("top-k", 5, "Hit window size")

	return cmd
}

func evalHandler(cmd *cobra.Command, args []string) error {
	corpus := args[0]

	prefix, _ := cmd.Flags().GetString("model-prefix")
	if prefix == "" {
		prefix = defaultModelPrefix()
	}
	topK, _ := cmd.Flags().GetInt("top-k")

	m, err := loadModel(prefix)
	if err != nil {
		return err
	}

	result, err := m.EvaluateFile(corpus, topK)
	if err != nil {
		return err
	}

	fmt.Printf("Eval results on %s\n", corpus)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk([][]string{
		{"pairs evaluated", format.HumanNumber(result.Pairs)},
		{fmt.Sprintf("top-%d hits", result.TopK), format.HumanNumber(result.Hits)},
		{"hit rate", fmt.Sprintf("%.2f%%", result.HitRate())},
	})
	table.Render()

	return nil
}
