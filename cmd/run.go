package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spigell/hr-interviewer/internal/ai/gemini"
	"github.com/spigell/hr-interviewer/internal/interview"
	"github.com/spigell/hr-interviewer/internal/logger"
	"github.com/spigell/hr-interviewer/internal/report"
	"github.com/spigell/hr-interviewer/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptNo         = "No"
	PromptShowReport = "Show full report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("offline", false, "skip the AI backend and use the built-in question bank and scoring")
	runCmd.Flags().String("reports-dir", "", "directory for saved reports")

	viper.BindPFlag("offline", runCmd.Flags().Lookup("offline"))
	viper.BindPFlag("reports.dir", runCmd.Flags().Lookup("reports-dir"))
}

// run drives one interview session on the terminal.
func run(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hr-interviewer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store := report.NewStore(viper.GetString("reports.dir"), logger)

	collab := interview.Collaborators{Reporter: store}
	switch {
	case viper.GetBool("offline"):
		logger.Info("offline mode requested, using the built-in question bank and scoring")
	case !viper.GetBool("ai.enabled"):
		logger.Info("ai disabled in config, using the built-in question bank and scoring")
	default:
		if err := attachAI(ctx, &collab, config, logger); err != nil {
			logger.Warn("AI backend unavailable, continuing in offline mode",
				zap.Error(err),
				zap.String("hint", "set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY"),
			)
		}
	}

	session := interview.NewSession(interviewConfig(config), terminationConfig(config), collab, logger)
	if err := session.Start(); err != nil {
		logger.Fatal("starting the session", zap.Error(err))
	}

	term := &console{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	result, err := runConversation(ctx, session, term)
	if err != nil {
		logger.Fatal("running the interview", zap.Error(err))
	}

	finish(ctx, session, result, term, logger)
}

func interviewConfig(config *Config) interview.Config {
	if config == nil || config.Interview == nil {
		return interview.Config{
			TotalQuestions:      viper.GetInt("interview.total-questions"),
			BehavioralQuestions: viper.GetInt("interview.behavioral-questions"),
			MinQuestions:        viper.GetInt("interview.min-questions"),
			AllowSkip:           viper.GetBool("interview.allow-skip"),
		}
	}
	return config.Interview.Config
}

func terminationConfig(config *Config) *interview.TerminationConfig {
	if config == nil || config.Interview == nil {
		return nil
	}
	return config.Interview.Termination
}

// attachAI wires the Gemini collaborators into the session. Any failure
// leaves the passed set untouched so the caller falls back to offline mode.
func attachAI(ctx context.Context, collab *interview.Collaborators, config *Config, baseLogger *zap.Logger) error {
	var gcfg GeminiConfig
	if config != nil && config.AI != nil {
		if provider := strings.TrimSpace(strings.ToLower(config.AI.Provider)); provider != "" && provider != "gemini" {
			return fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
		}
		if config.AI.Gemini != nil {
			gcfg = *config.AI.Gemini
		}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  gcfg.APIKeyFile,
	})
	if err != nil {
		return err
	}

	aiLogger := logger.WithCommonFields(baseLogger, "gemini", gcfg.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, aiLogger)
	if err != nil {
		return err
	}

	collab.Analyzer = gemini.NewClassifier(generator, aiLogger, gcfg.MaxLogLength)
	collab.Questions = gemini.NewQuestions(generator, aiLogger, gcfg.MaxLogLength)
	collab.Evaluator = gemini.NewEvaluator(generator, aiLogger, gcfg.MaxLogLength)
	return nil
}

type console struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *console) say(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// read collects a multi-line answer terminated by an empty line.
func (c *console) read() (string, error) {
	fmt.Fprint(c.out, "> ")
	var lines []string
	for {
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" || errors.Is(err, io.EOF) {
			if line != "" {
				lines = append(lines, line)
			}
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
}

func runConversation(ctx context.Context, session *interview.Session, c *console) (*interview.Result, error) {
	c.say("Welcome to the technical screening interview.")
	c.say("Answers can span multiple lines; finish each one with an empty line.")
	c.say("Type %q to pass on a question.\n", "skip")
	c.say("%s", interview.IntroductionQuestion)

	var result *interview.Result
	for result == nil {
		text, err := c.read()
		if err != nil {
			return nil, fmt.Errorf("reading introduction: %w", err)
		}

		result, err = session.SubmitIntroduction(ctx, text)
		switch {
		case err == nil:
		case errors.Is(err, interview.ErrEmptyInput):
			c.say("Please say a few words about yourself.")
			result = nil
		case errors.Is(err, interview.ErrIntroTooShort):
			c.say("Could you expand a little? Mention your projects, technical skills and work experience.")
			result = nil
		default:
			return nil, fmt.Errorf("processing introduction: %w", err)
		}
	}

	if result.Terminated {
		return result, nil
	}

	c.say("\nThanks! I prepared %d questions based on your background (%s, %s level).",
		session.TotalQuestions(), result.Profile.PrimarySkill, result.Profile.Experience)

	question := result.NextQuestion
	number := 1
	for question != nil {
		c.say("\nQuestion %d of %d: %s", number, session.TotalQuestions(), question.Text)

		text, err := c.read()
		if err != nil {
			return nil, fmt.Errorf("reading answer: %w", err)
		}

		result, err = session.SubmitAnswer(ctx, text)
		switch {
		case err == nil:
		case errors.Is(err, interview.ErrEmptyInput):
			c.say("Please answer the question, or type %q to pass.", "skip")
			continue
		case errors.Is(err, interview.ErrSkipDisabled):
			c.say("Skipping is not allowed in this interview.")
			continue
		default:
			return nil, fmt.Errorf("processing answer: %w", err)
		}

		if result.Terminated {
			return result, nil
		}
		if result.Evaluation != nil {
			c.say("Noted. Score for this answer: %.1f/10.", result.Evaluation.Overall)
		}
		question = result.NextQuestion
		number++
	}

	return result, nil
}

func finish(ctx context.Context, session *interview.Session, result *interview.Result, c *console, baseLogger *zap.Logger) {
	c.say("")
	if result.Terminated {
		c.say("%s", result.Reason.Explanation())
	} else {
		c.say("That was the last question. Thank you for your time!")
		c.say("Overall score: %.1f/10 across %d questions.", session.RunningScore(), session.QuestionsAnswered())
	}

	path := result.ReportPath
	if path == "" {
		retried, err := session.PersistReport(ctx)
		if err != nil {
			baseLogger.Error("report could not be saved", zap.Error(err))
		}
		path = retried
	}
	if path != "" {
		c.say("Report saved to %s.", path)
	}

	prompt := promptui.Select{
		Label: "Anything else?",
		Items: []string{PromptShowReport, PromptNo},
	}
	_, action, err := prompt.Run()
	if err != nil {
		// A closed terminal at this point is not worth an error exit.
		baseLogger.Debug("final prompt aborted", zap.Error(err))
		return
	}

	if action == PromptShowReport {
		c.say("%s", report.Render(report.Build(session.Snapshot(), time.Now())))
	}
}
