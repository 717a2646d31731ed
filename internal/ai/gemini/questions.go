package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/hr-interviewer/internal/interview"
	"github.com/spigell/hr-interviewer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_questions.md
var questionsPrompt string

// Questions generates technical interview questions for a locked skill
// category. It implements interview.QuestionSource.
type Questions struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewQuestions(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Questions {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Questions{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (q *Questions) Generate(ctx context.Context, category interview.SkillCategory, level interview.ExperienceLevel, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	system := strings.ReplaceAll(questionsPrompt, "{{COUNT}}", fmt.Sprintf("%d", n))
	system = strings.ReplaceAll(system, "{{CATEGORY}}", string(category))
	system = strings.ReplaceAll(system, "{{LEVEL}}", string(level))

	message := fmt.Sprintf("Generate the %d questions for a %s %s candidate now.", n, level, category)

	q.logger.Debug("gemini question generation request",
		zap.String("model", q.generator.Model()),
		zap.String("category", string(category)),
		zap.String("level", string(level)),
		zap.Int("count", n),
	)

	raw, err := q.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return nil, err
	}

	q.logger.Debug("gemini question generation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, q.maxLogLen)),
	)

	questions, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return questions, nil
}

// parseQuestions accepts both the documented object form and a bare JSON
// array, which some models produce despite the schema instruction.
func parseQuestions(raw string) ([]string, error) {
	var wrapped struct {
		Questions []string `json:"questions"`
	}
	if err := decodeReply(raw, &wrapped); err == nil && len(wrapped.Questions) > 0 {
		return cleanQuestions(wrapped.Questions), nil
	}

	var plain []string
	if err := decodeReply(raw, &plain); err != nil {
		return nil, err
	}
	return cleanQuestions(plain), nil
}

func cleanQuestions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}
