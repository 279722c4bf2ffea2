package main

import (
	"fmt"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func generateCmd() *cobra.Command {
	var (
		title        string
		description  string
		skills       []string
		difficulty   string
		count        int
		duration     int
		passingScore int
		createdBy    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a test from the built-in templates and print it as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := aptitude.Difficulty(difficulty)
			if !d.Valid() {
				return fmt.Errorf("unknown difficulty %q", difficulty)
			}
			questions, err := aptitude.NewTemplateGenerator().Generate(cmd.Context(), aptitude.GenerateRequest{
				JobTitle:       title,
				JobDescription: description,
				Skills:         skills,
				Difficulty:     d,
				QuestionCount:  count,
			})
			if err != nil {
				return err
			}

			test, err := aptitude.NewAssembler().Assemble(aptitude.JobData{
				ID:          uuid.NewString(),
				Title:       title,
				Description: description,
				Skills:      skills,
			}, questions, nil, aptitude.TestConfig{Duration: duration, PassingScore: passingScore}, createdBy)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(test)
		},
	}

	defaults := aptitude.DefaultTestConfig()
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringVar(&description, "description", "", "Job description")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Comma separated required skills")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(aptitude.DifficultyMedium), "easy, medium or hard")
	cmd.Flags().IntVar(&count, "count", 10, "Maximum number of questions")
	cmd.Flags().IntVar(&duration, "duration", defaults.Duration, "Test duration in minutes")
	cmd.Flags().IntVar(&passingScore, "passing-score", defaults.PassingScore, "Passing percentage")
	cmd.Flags().StringVar(&createdBy, "created-by", "cli", "Author recorded on the test")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
