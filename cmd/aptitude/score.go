package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func scoreCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "score <test.yaml> <answers.yaml>",
		Short: "Grade an answer sheet against a test",
		Long: `Grade an answer sheet against a test.

The answer sheet is a YAML list of {questionId, answer} entries. A
multiple-choice answer is the option index; any other answer is text.
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var test aptitude.AptitudeTest
			if err := readYAML(args[0], &test); err != nil {
				return err
			}
			var answers aptitude.AnswerSheet
			if err := readYAML(args[1], &answers); err != nil {
				return err
			}

			result := aptitude.Score(&test, answers)
			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output the result as JSON")
	return cmd
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
