package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-fit/internal/ai"
	"github.com/spigell/resume-fit/internal/ai/gemini"
	"github.com/spigell/resume-fit/internal/analyzer"
	"github.com/spigell/resume-fit/internal/document"
	"github.com/spigell/resume-fit/internal/logger"
	"github.com/spigell/resume-fit/internal/matching"
	"github.com/spigell/resume-fit/internal/report"
	"github.com/spigell/resume-fit/internal/scoring"
	"github.com/spigell/resume-fit/internal/secrets"
	"github.com/spigell/resume-fit/internal/suggest"
	"github.com/spigell/resume-fit/internal/utils"
)

const (
	PromptSuggestions = "Show suggestions"
	PromptKeywords    = "Show keywords"
	PromptDumpToFile  = "Dump report to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSuggestions, PromptKeywords, PromptDumpToFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx, txt or md)")
	analyzeCmd.Flags().String("job", "", "file with the job description")
	analyzeCmd.Flags().String("job-text", "", "job description text")
	analyzeCmd.Flags().StringP("format", "f", string(report.FormatText), "report format: text or json")
	analyzeCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after the report")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-text")
	analyzeCmd.MarkFlagsOneRequired("job", "job-text")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-fit", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format, err := report.ParseFormat(flagString(cmd, "format"))
	if err != nil {
		logger.Fatal("parsing report format", zap.Error(err))
	}

	resumeText, requirementText, err := readInputs(cmd, config.MinRequirementLength)
	if err != nil {
		if errors.Is(err, document.ErrNoText) {
			logger.Fatal("could not read document",
				zap.Error(err),
				zap.String("hint", "make sure the resume is not a scanned document"),
			)
		}
		logger.Fatal("reading inputs", zap.Error(err))
	}

	logger.Debug("inputs loaded",
		zap.Int("resume_length", len(resumeText)),
		zap.String("requirement_preview", utils.TruncateForLog(requirementText, 120)),
	)

	pipeline, err := buildPipeline(config, logger)
	if err != nil {
		logger.Fatal("initializing the analysis", zap.Error(err))
	}

	result := pipeline.Run(resumeText, requirementText)

	var review *ai.Review
	if config.AI.Enabled {
		review = runReview(ctx, config.AI, result, logger)
	}

	rep := report.New(result, review)

	if err := writeReport(rep, format, flagString(cmd, "output")); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}

	if flagString(cmd, "yes") == "true" || format == report.FormatJSON {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, rep, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, rep *report.Report, logger *zap.Logger) error {
	switch action {
	case PromptSuggestions:
		return rep.WriteSuggestions(os.Stdout)
	case PromptKeywords:
		return rep.WriteKeywords(os.Stdout)
	case PromptDumpToFile:
		filename, err := rep.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func flagString(cmd *cobra.Command, name string) string {
	flag := cmd.Flag(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// readInputs loads and validates both texts before any analysis runs.
func readInputs(cmd *cobra.Command, minRequirementLength int) (string, string, error) {
	resumePath := strings.TrimSpace(flagString(cmd, "resume"))
	if resumePath == "" {
		return "", "", errors.New("resume file is required")
	}

	resumeText, err := document.ReadFile(resumePath)
	if err != nil {
		return "", "", fmt.Errorf("resume %s: %w", resumePath, err)
	}

	requirementText := flagString(cmd, "job-text")
	if jobPath := strings.TrimSpace(flagString(cmd, "job")); jobPath != "" {
		requirementText, err = document.ReadFile(jobPath)
		if err != nil && !errors.Is(err, document.ErrNoText) && !errors.Is(err, document.ErrEmpty) {
			return "", "", fmt.Errorf("job description %s: %w", jobPath, err)
		}
	}

	requirementText, err = document.ValidateRequirement(requirementText, minRequirementLength)
	if err != nil {
		return "", "", err
	}

	return resumeText, requirementText, nil
}

func buildPipeline(config *Config, logger *zap.Logger) (*matching.Pipeline, error) {
	a, err := analyzer.New(config.Analyzer, analyzer.WithLogger(logger.Named("analyzer")))
	if err != nil {
		return nil, fmt.Errorf("building analyzer: %w", err)
	}

	s, err := scoring.New(config.Scoring, logger.Named("scoring"))
	if err != nil {
		return nil, fmt.Errorf("building scorer: %w", err)
	}

	rules := suggest.Default()
	for _, name := range config.Suggest.DisabledRules {
		if !suggest.DisableByName(rules, name, "disabled in config") {
			logger.Warn("unknown suggestion rule in config", zap.String("name", name))
		}
	}

	pretty, _ := json.Marshal(suggest.Describe(rules))
	logger.Debug("suggestion rules", zap.String("status", string(pretty)))

	return matching.New(a, s, rules, logger), nil
}

// runReview asks the model for a narrative review. Failures are logged and the report is
// printed without it.
func runReview(ctx context.Context, cfg *AIConfig, result *matching.Result, logger *zap.Logger) *ai.Review {
	reviewer, err := newAIReviewer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("skipping AI review", zap.Error(err))
		return nil
	}

	review, err := reviewer.Review(ctx, result)
	if err != nil {
		logger.Warn("AI review failed", zap.Error(err))
		return nil
	}
	return review
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	reviewer := gemini.NewReviewer(generator, cfg.Gemini.MaxLogLength, logger)
	reviewer.SetPromptOverrides(gemini.PromptOverrides{
		Tone:             cfg.Gemini.Tone,
		Focus:            cfg.Gemini.Focus,
		UserInstructions: cfg.Gemini.UserInstructions,
	})

	return reviewer, nil
}

func writeReport(rep *report.Report, format report.Format, output string) error {
	var w io.Writer = os.Stdout
	if output = strings.TrimSpace(output); output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer file.Close()
		w = file
	}
	return rep.Write(w, format)
}
