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

//go:embed prompt_evaluate.md
var evaluatePrompt string

// Evaluator scores one question/answer pair. It implements
// interview.AnswerEvaluator.
type Evaluator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewEvaluator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Evaluator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) (*interview.Evaluation, error) {
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	if answer == "" {
		return nil, fmt.Errorf("answer is required")
	}

	message := fmt.Sprintf("Question:\n%s\n\nAnswer:\n%s", question, answer)

	e.logger.Debug("gemini evaluation request",
		zap.String("model", e.generator.Model()),
		zap.Int("answer_length", utf8.RuneCountInString(answer)),
		zap.String("answer_preview", utils.TruncateForLog(answer, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, evaluatePrompt, message)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini evaluation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	var eval interview.Evaluation
	if err := decodeReply(raw, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}
