package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Print the active rubric",
	Long: `Print the rubric the engine is running with, after defaults are applied.
Use it as a starting point for a custom --rubric file.`,
	Args: cobra.NoArgs,
	RunE: runRubric,
}

func init() {
	rootCmd.AddCommand(rubricCmd)
}

func runRubric(cmd *cobra.Command, _ []string) error {
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), deps.RubricConfig)
	}

	data, err := yaml.Marshal(deps.RubricConfig)
	if err != nil {
		return fmt.Errorf("encode rubric: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
