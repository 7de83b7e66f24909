package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-fit/internal/analyzer"
	"github.com/spigell/resume-fit/internal/scoring"
)

const (
	app       = "resume-fit"
	envPrefix = "RESUME_FIT"

	defaultMinRequirementLength = 20
)

type Config struct {
	Analyzer analyzer.Config `mapstructure:"analyzer"`
	Scoring  scoring.Config  `mapstructure:"scoring"`
	Suggest  SuggestConfig   `mapstructure:"suggest"`
	// MinRequirementLength is the shortest job description, in characters, worth analyzing.
	MinRequirementLength int       `mapstructure:"min-requirement-length" validate:"gte=0"`
	AI                   *AIConfig `mapstructure:"ai"`
}

type SuggestConfig struct {
	DisabledRules []string `mapstructure:"disabled-rules"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey           string `mapstructure:"api-key"`
	APIKeyFile       string `mapstructure:"api-key-file"`
	Model            string `mapstructure:"model"`
	MaxRetries       int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength     int    `mapstructure:"max-log-length" validate:"gte=0"`
	Tone             string `mapstructure:"tone"`
	Focus            string `mapstructure:"focus"`
	UserInstructions string `mapstructure:"user-instructions"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-fit scores how well a resume matches a job description and suggests improvements",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-fit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is normal; only a broken one is worth stopping for.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	// Only the analyze command reads the config.
	if analyzeCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The built-in defaults are enough without a config file.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

// getConfig returns the built-in defaults overlaid with the config file and environment.
func getConfig() (*Config, error) {
	config := &Config{
		Analyzer:             analyzer.DefaultConfig(),
		Scoring:              scoring.DefaultConfig(),
		MinRequirementLength: defaultMinRequirementLength,
		AI:                   &AIConfig{Gemini: &GeminiConfig{}},
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	extra, err := decodeExtraSkills(viper.Get("analyzer.extra-skills"))
	if err != nil {
		return nil, err
	}
	config.Analyzer.ExtraSkills = extra

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// decodeExtraSkills accepts either a list or a single term per category so that
// `cloud: terraform` and `cloud: [terraform, pulumi]` both work.
func decodeExtraSkills(raw any) (map[string][]string, error) {
	if raw == nil {
		return nil, nil
	}

	var out map[string][]string
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding analyzer.extra-skills: %w", err)
	}
	return out, nil
}
