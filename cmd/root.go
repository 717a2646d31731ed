package cmd

import (
	"errors"
	"log"

	"github.com/spigell/hr-interviewer/internal/interview"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hr-interviewer"
)

type Config struct {
	Interview *InterviewConfig `mapstructure:"interview"`
	Reports   *ReportsConfig   `mapstructure:"reports"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type InterviewConfig struct {
	interview.Config `mapstructure:",squash"`

	Termination *interview.TerminationConfig `mapstructure:"termination"`
}

type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hr-interviewer is a cli for running automated technical screening interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hr-interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("interview.total-questions", 7)
	viper.SetDefault("interview.behavioral-questions", 1)
	viper.SetDefault("interview.min-questions", 3)
	viper.SetDefault("interview.allow-skip", true)
	viper.SetDefault("reports.dir", "interview_reports")
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The defaults cover a full offline session, so a missing config file is
	// fine. A config file that exists but does not parse is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
