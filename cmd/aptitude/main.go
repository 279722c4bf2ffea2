// Command aptitude drafts and grades aptitude tests offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aptitude",
		Short: "Draft and grade aptitude tests",
		Long: `Draft and grade aptitude tests without running the API.

Examples:
  aptitude generate --title "Frontend Developer" --skills React,TypeScript > test.yaml
  aptitude score test.yaml answers.yaml
`,
		SilenceUsage: true,
	}
	cmd.AddCommand(generateCmd(), scoreCmd())
	return cmd
}
