package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// IntroductionQuestion opens every session.
	IntroductionQuestion = "Tell me about yourself, including your projects, technical skills, and work experience."

	skipCommand   = "skip"
	introMinWords = 10

	// poorScoreThreshold ends the session early when the mean of the two
	// most recent technical scores drops below it.
	poorScoreThreshold = 3.0
)

var (
	// ErrInvalidPhase is returned when an operation is attempted in a phase
	// that does not allow it. The session is not mutated.
	ErrInvalidPhase = errors.New("operation not valid in current phase")
	// ErrEmptyInput is returned for empty or whitespace-only submissions.
	ErrEmptyInput = errors.New("input is empty")
	// ErrIntroTooShort asks the candidate to expand the introduction.
	ErrIntroTooShort = errors.New("introduction is too short")
	// ErrSkipDisabled is returned when skipping is not allowed by config.
	ErrSkipDisabled = errors.New("skipping questions is disabled")
)

// Config controls the shape of one interview.
type Config struct {
	// TotalQuestions is the locked question list length N for a normal
	// session, behavioral tail included.
	TotalQuestions int `mapstructure:"total-questions"`
	// BehavioralQuestions is the number K of behavioral questions reserved
	// at the end of the list.
	BehavioralQuestions int `mapstructure:"behavioral-questions"`
	// MinQuestions is the reduced list length used when the introduction is
	// weak, and the lower bound before the poor-performance cutoff applies.
	MinQuestions int `mapstructure:"min-questions"`
	// AllowSkip enables the "skip" command.
	AllowSkip bool `mapstructure:"allow-skip"`
}

func (c Config) normalize() Config {
	if c.TotalQuestions <= 0 {
		c.TotalQuestions = 7
	}
	if c.MinQuestions <= 0 {
		c.MinQuestions = 3
	}
	if c.MinQuestions > c.TotalQuestions {
		c.MinQuestions = c.TotalQuestions
	}
	if c.BehavioralQuestions < 0 {
		c.BehavioralQuestions = 0
	}
	if c.BehavioralQuestions >= c.MinQuestions {
		c.BehavioralQuestions = 1
	}
	return c
}

// Result reports the outcome of one transition to the caller.
type Result struct {
	Phase        Phase
	Terminated   bool
	Reason       TerminationReason
	Profile      *Profile
	Evaluation   *Evaluation
	NextQuestion *Question
	ReportPath   string
}

// Session owns the full state of one interview. It is created per candidate
// and mutated only through its transition methods; it is not safe for
// concurrent use and does not need to be, since one session serves exactly
// one sequential conversation.
type Session struct {
	id       string
	cfg      Config
	collab   Collaborators
	detector *Detector
	logger   *zap.Logger

	phase        Phase
	profile      *Profile
	questions    []Question
	records      []Record
	cursor       int
	runningScore float64
	reason       TerminationReason
	messages     []Message
	startedAt    time.Time
	endedAt      time.Time
	reportSaved  bool
	reportPath   string

	now func() time.Time
}

// NewSession builds a session in the NotStarted phase.
func NewSession(cfg Config, termination *TerminationConfig, collab Collaborators, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:       uuid.NewString(),
		cfg:      cfg.normalize(),
		collab:   collab,
		detector: NewDetector(termination),
		logger:   logger,
		phase:    PhaseNotStarted,
		now:      time.Now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Reason returns the termination reason, empty unless terminated.
func (s *Session) Reason() TerminationReason { return s.reason }

// RunningScore is the arithmetic mean of the overall sub-score across all
// records so far. Every answered question counts equally.
func (s *Session) RunningScore() float64 { return s.runningScore }

// QuestionsAnswered equals the length of the evaluation history.
func (s *Session) QuestionsAnswered() int { return len(s.records) }

// TotalQuestions is the locked list length, zero before the skill lock.
func (s *Session) TotalQuestions() int { return len(s.questions) }

// CurrentQuestion returns the question at the cursor while in progress.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.phase != PhaseInProgress || s.cursor >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.cursor], true
}

// ReportPath returns the persisted report handle, if any.
func (s *Session) ReportPath() string { return s.reportPath }

// Start moves the session from NotStarted to IntroductionPending and logs
// the opening question to the transcript.
func (s *Session) Start() error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("start: %w (phase %s)", ErrInvalidPhase, s.phase)
	}
	s.phase = PhaseIntroductionPending
	s.startedAt = s.now()
	s.addMessage(RoleInterviewer, IntroductionQuestion)
	s.logger.Info("interview started", zap.String("session_id", s.id))
	return nil
}

// SubmitIntroduction processes the candidate introduction: termination check
// first, then profile classification and the single question-list generation
// pass (the skill lock). Validation failures mutate nothing.
func (s *Session) SubmitIntroduction(ctx context.Context, text string) (*Result, error) {
	if s.phase != PhaseIntroductionPending {
		return nil, fmt.Errorf("submit introduction: %w (phase %s)", ErrInvalidPhase, s.phase)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	if reason, ok := s.detector.Classify(trimmed); ok {
		s.addMessage(RoleCandidate, trimmed)
		return s.terminate(ctx, reason), nil
	}

	if wordCount(trimmed) < introMinWords {
		return nil, fmt.Errorf("%w: please include your projects, technical skills and work experience", ErrIntroTooShort)
	}

	s.addMessage(RoleCandidate, trimmed)
	s.profile = s.analyzeIntroduction(ctx, trimmed)

	total := s.cfg.TotalQuestions
	if s.profile.Confidence == ConfidenceLow || len(s.profile.Skills) < 2 {
		total = s.cfg.MinQuestions
	}
	s.questions = s.buildQuestionList(ctx, total)

	s.phase = PhaseInProgress
	s.cursor = 0
	next := s.questions[0]
	s.addMessage(RoleInterviewer, next.Text)

	s.logger.Info("profile locked",
		zap.String("session_id", s.id),
		zap.String("primary_skill", string(s.profile.PrimarySkill)),
		zap.String("experience", string(s.profile.Experience)),
		zap.Int("questions", len(s.questions)),
	)

	return &Result{
		Phase:        s.phase,
		Profile:      s.profile,
		NextQuestion: &next,
	}, nil
}

// SubmitAnswer scores the answer to the current question and advances the
// cursor, completing the session after the last question. The termination
// check always precedes evaluation: a disqualifying phrase is never scored.
func (s *Session) SubmitAnswer(ctx context.Context, text string) (*Result, error) {
	if s.phase != PhaseInProgress {
		return nil, fmt.Errorf("submit answer: %w (phase %s)", ErrInvalidPhase, s.phase)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	if strings.EqualFold(trimmed, skipCommand) {
		return s.SkipCurrent(ctx)
	}

	if reason, ok := s.detector.Classify(trimmed); ok {
		s.addMessage(RoleCandidate, trimmed)
		return s.terminate(ctx, reason), nil
	}

	s.addMessage(RoleCandidate, trimmed)

	question := s.questions[s.cursor]
	eval := s.evaluateAnswer(ctx, question.Text, trimmed)
	s.appendRecord(Record{
		Question:   question,
		Answer:     trimmed,
		Evaluation: *eval,
		WordCount:  wordCount(trimmed),
	})
	s.addMessage(RoleFeedback, fmt.Sprintf("Response scored %.1f/10", eval.Overall))

	if s.poorPerformance() {
		return s.terminate(ctx, ReasonPoorResponse), nil
	}

	result := s.advance(ctx)
	result.Evaluation = eval
	return result, nil
}

// SkipCurrent records the sentinel answer with a neutral score and follows
// the same advance-or-complete logic as SubmitAnswer.
func (s *Session) SkipCurrent(ctx context.Context) (*Result, error) {
	if s.phase != PhaseInProgress {
		return nil, fmt.Errorf("skip: %w (phase %s)", ErrInvalidPhase, s.phase)
	}
	if !s.cfg.AllowSkip {
		return nil, ErrSkipDisabled
	}

	question := s.questions[s.cursor]
	eval := NeutralEvaluation()
	s.appendRecord(Record{
		Question:   question,
		Answer:     SkippedAnswer,
		Evaluation: *eval,
		Skipped:    true,
	})
	s.addMessage(RoleCandidate, SkippedAnswer)

	result := s.advance(ctx)
	result.Evaluation = eval
	return result, nil
}

// EndEarly forces termination with the given reason. Valid from the
// introduction phase or mid-interview.
func (s *Session) EndEarly(ctx context.Context, reason TerminationReason) (*Result, error) {
	if s.phase != PhaseIntroductionPending && s.phase != PhaseInProgress {
		return nil, fmt.Errorf("end early: %w (phase %s)", ErrInvalidPhase, s.phase)
	}
	return s.terminate(ctx, reason), nil
}

// PersistReport retries report persistence after a failure. It is a no-op
// returning the existing handle once a report has been saved.
func (s *Session) PersistReport(ctx context.Context) (string, error) {
	if !s.phase.Final() {
		return "", fmt.Errorf("persist report: %w (phase %s)", ErrInvalidPhase, s.phase)
	}
	if s.reportSaved {
		return s.reportPath, nil
	}
	if s.collab.Reporter == nil {
		return "", nil
	}
	path, err := s.collab.Reporter.Persist(ctx, s.Snapshot())
	if err != nil {
		return "", fmt.Errorf("persist report: %w", err)
	}
	s.reportSaved = true
	s.reportPath = path
	return path, nil
}

// Snapshot returns a deep-enough copy of the session state for reporting
// and display. Mutating the snapshot does not affect the session.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		ID:           s.id,
		Phase:        s.phase,
		Reason:       s.reason,
		Questions:    append([]Question{}, s.questions...),
		Records:      append([]Record{}, s.records...),
		RunningScore: s.runningScore,
		Messages:     append([]Message{}, s.messages...),
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
	}
	if s.profile != nil {
		profile := *s.profile
		snap.Profile = &profile
	}
	return snap
}

func (s *Session) advance(ctx context.Context) *Result {
	if s.cursor+1 < len(s.questions) {
		s.cursor++
		next := s.questions[s.cursor]
		s.addMessage(RoleInterviewer, next.Text)
		return &Result{Phase: s.phase, NextQuestion: &next}
	}

	s.phase = PhaseCompleted
	s.endedAt = s.now()
	s.logger.Info("interview completed",
		zap.String("session_id", s.id),
		zap.Int("questions_answered", len(s.records)),
		zap.Float64("overall_score", s.runningScore),
	)
	return &Result{Phase: s.phase, ReportPath: s.saveReport(ctx)}
}

func (s *Session) terminate(ctx context.Context, reason TerminationReason) *Result {
	s.phase = PhaseTerminated
	s.reason = reason
	s.endedAt = s.now()
	s.logger.Info("interview terminated",
		zap.String("session_id", s.id),
		zap.String("reason", string(reason)),
	)
	return &Result{
		Phase:      s.phase,
		Terminated: true,
		Reason:     reason,
		ReportPath: s.saveReport(ctx),
	}
}

// saveReport triggers persistence exactly once; re-renders and repeated
// completion calls must not produce duplicate reports. A failed save is
// logged as a warning and left retryable via PersistReport.
func (s *Session) saveReport(ctx context.Context) string {
	if s.reportSaved || s.collab.Reporter == nil {
		return s.reportPath
	}
	path, err := s.collab.Reporter.Persist(ctx, s.Snapshot())
	if err != nil {
		s.logger.Warn("saving report failed; session data kept in memory",
			zap.String("session_id", s.id),
			zap.Error(err),
		)
		return ""
	}
	s.reportSaved = true
	s.reportPath = path
	return path
}

func (s *Session) appendRecord(record Record) {
	s.records = append(s.records, record)
	sum := 0.0
	for _, r := range s.records {
		sum += r.Evaluation.Overall
	}
	s.runningScore = sum / float64(len(s.records))
}

// poorPerformance applies the early cutoff: at least the minimum question
// count asked, two or more technical scores recorded, and the mean of the
// two most recent below the threshold.
func (s *Session) poorPerformance() bool {
	if len(s.records) < s.cfg.MinQuestions {
		return false
	}
	var technical []float64
	for _, r := range s.records {
		if r.Question.Kind == QuestionTechnical && !r.Skipped {
			technical = append(technical, r.Evaluation.Overall)
		}
	}
	if len(technical) < 2 {
		return false
	}
	recent := technical[len(technical)-2:]
	return (recent[0]+recent[1])/2 < poorScoreThreshold
}

func (s *Session) analyzeIntroduction(ctx context.Context, intro string) *Profile {
	if s.collab.Analyzer != nil {
		profile, err := s.collab.Analyzer.Analyze(ctx, intro)
		if err == nil && profile != nil {
			return normalizeProfile(profile, intro)
		}
		if err != nil {
			s.logger.Warn("introduction analysis failed; using fallback",
				zap.String("session_id", s.id),
				zap.Error(err),
			)
		}
	}
	return ClassifyIntro(intro)
}

// buildQuestionList runs the single generation pass: technical questions
// from the source padded from the fallback list, then the reserved
// behavioral tail. Regeneration is forbidden once the profile is locked.
func (s *Session) buildQuestionList(ctx context.Context, total int) []Question {
	behavioral := s.cfg.BehavioralQuestions
	technical := total - behavioral

	var generated []string
	if s.collab.Questions != nil {
		var err error
		generated, err = s.collab.Questions.Generate(ctx, s.profile.PrimarySkill, s.profile.Experience, technical)
		if err != nil {
			s.logger.Warn("question generation failed; using fallback list",
				zap.String("session_id", s.id),
				zap.Error(err),
			)
			generated = nil
		}
	}

	texts := make([]string, 0, technical)
	for _, q := range generated {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		texts = append(texts, q)
		if len(texts) == technical {
			break
		}
	}
	if len(texts) < technical {
		for _, q := range FallbackQuestions(s.profile.PrimarySkill, technical-len(texts)) {
			texts = append(texts, q)
		}
	}

	questions := make([]Question, 0, total)
	for _, text := range texts {
		questions = append(questions, Question{Text: text, Kind: QuestionTechnical})
	}
	for _, text := range FallbackBehavioralQuestions(behavioral) {
		questions = append(questions, Question{Text: text, Kind: QuestionBehavioral})
	}
	return questions
}

func (s *Session) evaluateAnswer(ctx context.Context, question, answer string) *Evaluation {
	if s.collab.Evaluator != nil {
		eval, err := s.collab.Evaluator.Evaluate(ctx, question, answer)
		if err == nil && eval != nil {
			return normalizeEvaluation(eval)
		}
		if err != nil {
			s.logger.Warn("answer evaluation failed; using fallback scoring",
				zap.String("session_id", s.id),
				zap.Error(err),
			)
		}
	}
	return FallbackEvaluation(question, answer)
}

func (s *Session) addMessage(role MessageRole, content string) {
	s.messages = append(s.messages, Message{Role: role, Content: content, Time: s.now()})
}

// normalizeProfile fills gaps in a collaborator-produced profile with the
// deterministic defaults so the skill lock never captures invalid data.
func normalizeProfile(p *Profile, intro string) *Profile {
	out := *p
	if _, ok := ParseSkillCategory(string(out.PrimarySkill)); !ok {
		out.PrimarySkill = ClassifyIntro(intro).PrimarySkill
	}
	if _, ok := ParseExperienceLevel(string(out.Experience)); !ok {
		out.Experience = ExperienceMid
	}
	if _, ok := ParseConfidenceLevel(string(out.Confidence)); !ok {
		out.Confidence = ConfidenceMedium
	}
	if _, ok := ParseCommunicationLevel(string(out.Communication)); !ok {
		out.Communication = CommunicationAdequate
	}
	if len(out.Skills) == 0 {
		out.Skills = extractSkills(strings.ToLower(intro))
	}
	out.IntroScore = clampScore(out.IntroScore)
	return &out
}

func normalizeEvaluation(e *Evaluation) *Evaluation {
	out := *e
	out.TechnicalAccuracy = clampScore(out.TechnicalAccuracy)
	out.Completeness = clampScore(out.Completeness)
	out.Clarity = clampScore(out.Clarity)
	out.Depth = clampScore(out.Depth)
	out.Practicality = clampScore(out.Practicality)
	if out.Overall <= 0 {
		out.Overall = (out.TechnicalAccuracy + out.Completeness + out.Clarity + out.Depth + out.Practicality) / 5
	}
	out.Overall = clampScore(out.Overall)
	return &out
}
