package gemini

import (
	"context"
	"fmt"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/hr-interviewer/internal/interview"
	"github.com/spigell/hr-interviewer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_classify.md
var classifyPrompt string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

const defaultMaxLogLength = 200

// Classifier derives a candidate profile from the introduction text. It
// implements interview.IntroAnalyzer.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewClassifier(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Classifier{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (c *Classifier) Analyze(ctx context.Context, intro string) (*interview.Profile, error) {
	if intro == "" {
		return nil, fmt.Errorf("introduction is required")
	}

	c.logger.Debug("gemini classify request",
		zap.String("model", c.generator.Model()),
		zap.Int("intro_length", utf8.RuneCountInString(intro)),
		zap.String("intro_preview", utils.TruncateForLog(intro, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, classifyPrompt, intro)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini classify response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	var profile interview.Profile
	if err := decodeReply(raw, &profile); err != nil {
		return nil, err
	}

	// The model sometimes drifts outside the closed enums; pull every field
	// back onto the taxonomy before it reaches the skill lock.
	profile.PrimarySkill, _ = interview.ParseSkillCategory(string(profile.PrimarySkill))
	profile.Experience, _ = interview.ParseExperienceLevel(string(profile.Experience))
	profile.Confidence, _ = interview.ParseConfidenceLevel(string(profile.Confidence))
	profile.Communication, _ = interview.ParseCommunicationLevel(string(profile.Communication))

	return &profile, nil
}
