package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lukitun/Jahbreak/internal/batch"
	"github.com/lukitun/Jahbreak/internal/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate a JSONL file of samples",
	Long: `Evaluate every sample in a JSONL file. Each line is an evaluation request:

  {"event_id":"1","sample":{"user_query":"...","text":"...","variant":"direct"},"expected_passed":true}

Examples:
  promptcheck batch --input testdata/cases.jsonl
  promptcheck batch --input cases.jsonl --output results.jsonl --summary summary.json
  promptcheck batch --input cases.jsonl --validate --agreement-threshold 0.8
  promptcheck batch --input - --dry-run < cases.jsonl`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

var (
	batchInput              string
	batchOutput             string
	batchFormat             string
	batchSummary            string
	batchWorkers            int
	batchContinueOnError    bool
	batchDryRun             bool
	batchValidate           bool
	batchAgreementThreshold float64
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchInput, "input", "", "Input JSONL file, or - for stdin (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "Output file (stdout when empty)")
	batchCmd.Flags().StringVar(&batchFormat, "format", batch.FormatJSONL, "Output format: jsonl or summary")
	batchCmd.Flags().StringVar(&batchSummary, "summary", "", "Optional separate summary file")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "Concurrent evaluation workers")
	batchCmd.Flags().BoolVar(&batchContinueOnError, "continue-on-error", true, "Keep going past invalid input lines")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "Validate input without evaluating")
	batchCmd.Flags().BoolVar(&batchValidate, "validate", false, "Compare verdicts with expected_passed annotations")
	batchCmd.Flags().Float64Var(&batchAgreementThreshold, "agreement-threshold", 0.8, "Minimum agreement rate for --validate")
	_ = batchCmd.MarkFlagRequired("input")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	ctx := cmd.Context()

	var input io.Reader
	if batchInput == "-" {
		input = cmd.InOrStdin()
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(batchInput)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		input = f
		log.Info().Str("file", batchInput).Msg("Reading input file")
	}

	records, invalid, err := batch.NewReader(input, deps.Logger).ReadRecords(ctx, !batchContinueOnError)
	if err != nil {
		return err
	}
	log.Info().Int("total", len(records)).Int("invalid", invalid).Msg("Input file parsed")

	if batchDryRun {
		for _, record := range records {
			if record.Error != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), record.Error)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d records, %d valid, %d invalid\n", len(records), len(records)-invalid, invalid)
		if invalid > 0 {
			return fmt.Errorf("%d invalid records", invalid)
		}
		return nil
	}

	processor := batch.NewProcessor(deps.Executor, batchWorkers, deps.Logger)
	outcomes := batch.Collect(processor.Process(ctx, records))
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	summary := batch.NewSummary()
	for _, o := range outcomes {
		summary.Add(o)
	}

	if batchValidate {
		return runAgreement(cmd, summary, outcomes)
	}

	if err := writeOutcomes(cmd, outcomes); err != nil {
		return err
	}

	if batchSummary != "" {
		if err := writeSummaryFile(batchSummary, outcomes); err != nil {
			return err
		}
	}

	if !jsonOutput {
		fmt.Fprintln(cmd.ErrOrStderr(), report.RenderSummary(summary, nil))
	}

	log.Info().
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Int("errors", summary.Errors).
		Dur("duration", time.Since(start)).
		Msg("Batch processing complete")
	return nil
}

func writeOutcomes(cmd *cobra.Command, outcomes []batch.Outcome) error {
	out := cmd.OutOrStdout()
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
		log.Info().Str("file", batchOutput).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(out, batchFormat, deps.Logger)
	if err != nil {
		return err
	}

	for _, o := range outcomes {
		if err := writer.Write(o); err != nil {
			return fmt.Errorf("write line %d: %w", o.LineNumber, err)
		}
	}
	return writer.Close()
}

func writeSummaryFile(path string, outcomes []batch.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()

	writer, err := batch.NewWriter(f, batch.FormatSummary, deps.Logger)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		if err := writer.Write(o); err != nil {
			return err
		}
	}
	return writer.Close()
}

func runAgreement(cmd *cobra.Command, summary *batch.Summary, outcomes []batch.Outcome) error {
	agreement, err := batch.Agreement(outcomes, batchAgreementThreshold)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), agreement); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderSummary(summary, agreement))
	}

	log.Info().
		Float64("agreementRate", agreement.AgreementRate).
		Float64("threshold", agreement.Threshold).
		Bool("passed", agreement.Passed).
		Msg("Validation complete")

	if !agreement.Passed {
		return errRejected
	}
	return nil
}
