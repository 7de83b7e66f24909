package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const sampleJobDescription = `We are looking for a skilled Python Developer to join our team. The ideal candidate will have experience with web development using Flask or Django, and proficiency in Python programming.

Requirements:
- 3+ years of experience in Python development
- Strong knowledge of web frameworks (Flask, Django)
- Experience with databases (PostgreSQL, MySQL)
- Familiarity with version control (Git)
- Knowledge of REST APIs and microservices
- Experience with testing frameworks (pytest, unittest)

Responsibilities:
- Develop and maintain web applications using Python
- Collaborate with cross-functional teams
- Write clean, maintainable code
- Participate in code reviews
- Troubleshoot and debug applications

Nice to have:
- Experience with cloud platforms (AWS, Azure)
- Knowledge of containerization (Docker)
- Familiarity with CI/CD pipelines`

var sampleCmd = &cobra.Command{
	Use:   "sample-job",
	Short: "Print a sample job description to try the analyzer with",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), sampleJobDescription)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
