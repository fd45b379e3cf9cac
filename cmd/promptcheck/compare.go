package main

import (
	"fmt"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Evaluate two variants generated from one query",
	Long: `Evaluate two prompt variants generated from the same query and compare them.

Examples:
  promptcheck compare --query "..." --first direct.txt --second interactive.txt \
    --first-variant direct --second-variant interactive --expect-distinct`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

var (
	cmpQuery          string
	cmpFirst          string
	cmpSecond         string
	cmpFirstVariant   string
	cmpSecondVariant  string
	cmpExpectDistinct bool
	cmpEventID        string
)

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&cmpQuery, "query", "", "Query both prompts were generated for (empty is scored as irrelevant)")
	compareCmd.Flags().StringVar(&cmpFirst, "first", "", "File with the first prompt (required)")
	compareCmd.Flags().StringVar(&cmpSecond, "second", "", "File with the second prompt (required)")
	compareCmd.Flags().StringVar(&cmpFirstVariant, "first-variant", string(models.VariantDirect), "Variant kind of the first prompt")
	compareCmd.Flags().StringVar(&cmpSecondVariant, "second-variant", string(models.VariantInteractive), "Variant kind of the second prompt")
	compareCmd.Flags().BoolVar(&cmpExpectDistinct, "expect-distinct", false, "Fail when both prompts are identical")
	compareCmd.Flags().StringVar(&cmpEventID, "id", "", "Pair ID (generated when empty)")
	_ = compareCmd.MarkFlagRequired("first")
	_ = compareCmd.MarkFlagRequired("second")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	first, err := readText(cmd, cmpFirst)
	if err != nil {
		return err
	}
	second, err := readText(cmd, cmpSecond)
	if err != nil {
		return err
	}

	req := models.CompareRequest{
		EventID:        cmpEventID,
		First:          models.Sample{Query: cmpQuery, Text: first, Variant: cmpFirstVariant},
		Second:         models.Sample{Query: cmpQuery, Text: second, Variant: cmpSecondVariant},
		ExpectDistinct: cmpExpectDistinct,
	}
	if err := models.ValidateStruct(req); err != nil {
		return err
	}

	id, a, b := models.NormalizePair(req)
	pair := deps.CompareExecutor.Execute(cmd.Context(), id, a, b, req.ExpectDistinct)

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), pair); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderPair(pair))
	}

	if !pair.Passed {
		return errRejected
	}
	return nil
}
