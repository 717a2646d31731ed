package interview

import "context"

// QuestionSource generates the technical part of the question list for the
// locked skill category. It may return fewer questions than requested; the
// session pads the shortfall from the built-in fallback list.
type QuestionSource interface {
	Generate(ctx context.Context, category SkillCategory, level ExperienceLevel, n int) ([]string, error)
}

// AnswerEvaluator scores one question/answer pair.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question, answer string) (*Evaluation, error)
}

// IntroAnalyzer derives a candidate profile from the introduction text.
type IntroAnalyzer interface {
	Analyze(ctx context.Context, intro string) (*Profile, error)
}

// ReportBuilder persists a finalized session snapshot and returns a handle
// (a path or key) for later retrieval. The session enforces the at-most-once
// guarantee; the builder need not deduplicate.
type ReportBuilder interface {
	Persist(ctx context.Context, snap *Snapshot) (string, error)
}

// Collaborators aggregates the external dependencies of a session. Any nil
// member degrades to the deterministic offline fallback, so a zero value is
// a fully functional offline interviewer.
type Collaborators struct {
	Questions QuestionSource
	Evaluator AnswerEvaluator
	Analyzer  IntroAnalyzer
	Reporter  ReportBuilder
}
