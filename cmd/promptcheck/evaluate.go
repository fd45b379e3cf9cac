package main

import (
	"fmt"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/report"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one generated prompt",
	Long: `Evaluate one generated prompt against the query it was generated for.

Examples:
  promptcheck evaluate --query "How to learn programming" --text "You are a mentor..."
  promptcheck evaluate --query "..." --file prompt.txt --variant interactive
  cat prompt.txt | promptcheck evaluate --query "..." --file - --json`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

var (
	evalQuery    string
	evalText     string
	evalFile     string
	evalVariant  string
	evalKeywords []string
	evalPersona  []string
	evalEventID  string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalQuery, "query", "", "Query the prompt was generated for (empty is scored as irrelevant)")
	evaluateCmd.Flags().StringVar(&evalText, "text", "", "Prompt text")
	evaluateCmd.Flags().StringVar(&evalFile, "file", "", "Read prompt text from a file, or - for stdin")
	evaluateCmd.Flags().StringVar(&evalVariant, "variant", string(models.VariantDirect), "Variant kind: direct, interactive or unsafe")
	evaluateCmd.Flags().StringSliceVar(&evalKeywords, "keyword", nil, "Expected keyword (repeatable)")
	evaluateCmd.Flags().StringSliceVar(&evalPersona, "persona", nil, "Expected persona term (repeatable)")
	evaluateCmd.Flags().StringVar(&evalEventID, "id", "", "Event ID (generated when empty)")
	evaluateCmd.MarkFlagsMutuallyExclusive("text", "file")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	text := evalText
	if evalFile != "" {
		var err error
		if text, err = readText(cmd, evalFile); err != nil {
			return err
		}
	}

	sample := models.Sample{
		Query:                evalQuery,
		Text:                 text,
		Variant:              evalVariant,
		ExpectedKeywords:     evalKeywords,
		ExpectedPersonaTerms: evalPersona,
	}
	if err := models.ValidateStruct(sample); err != nil {
		return err
	}

	result := deps.Executor.Execute(cmd.Context(), models.Normalize(evalEventID, sample))

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderResult(result))
	}

	if !result.Passed {
		return errRejected
	}
	return nil
}
