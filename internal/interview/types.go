package interview

import (
	"strings"
	"time"
)

// SkillCategory is one label from the closed taxonomy. It is assigned once
// per session and never changed afterwards (the skill lock).
type SkillCategory string

const (
	SkillBackend   SkillCategory = "backend"
	SkillFrontend  SkillCategory = "frontend"
	SkillFullstack SkillCategory = "fullstack"
	SkillDevops    SkillCategory = "devops"
	SkillData      SkillCategory = "data"
	SkillMobile    SkillCategory = "mobile"

	// DefaultSkillCategory is used when classification fails or yields a
	// label outside the taxonomy.
	DefaultSkillCategory = SkillBackend
)

// SkillCategories lists the full taxonomy in a stable order.
func SkillCategories() []SkillCategory {
	return []SkillCategory{SkillBackend, SkillFrontend, SkillFullstack, SkillDevops, SkillData, SkillMobile}
}

// ParseSkillCategory maps free text onto the taxonomy.
func ParseSkillCategory(s string) (SkillCategory, bool) {
	switch SkillCategory(strings.ToLower(strings.TrimSpace(s))) {
	case SkillBackend:
		return SkillBackend, true
	case SkillFrontend:
		return SkillFrontend, true
	case SkillFullstack:
		return SkillFullstack, true
	case SkillDevops:
		return SkillDevops, true
	case SkillData:
		return SkillData, true
	case SkillMobile:
		return SkillMobile, true
	}
	return DefaultSkillCategory, false
}

type ExperienceLevel string

const (
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

func ParseExperienceLevel(s string) (ExperienceLevel, bool) {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ExperienceJunior:
		return ExperienceJunior, true
	case ExperienceMid:
		return ExperienceMid, true
	case ExperienceSenior:
		return ExperienceSenior, true
	}
	return ExperienceMid, false
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

func ParseConfidenceLevel(s string) (ConfidenceLevel, bool) {
	switch ConfidenceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceLow:
		return ConfidenceLow, true
	case ConfidenceMedium:
		return ConfidenceMedium, true
	case ConfidenceHigh:
		return ConfidenceHigh, true
	}
	return ConfidenceMedium, false
}

type CommunicationLevel string

const (
	CommunicationWeak     CommunicationLevel = "weak"
	CommunicationAdequate CommunicationLevel = "adequate"
	CommunicationStrong   CommunicationLevel = "strong"
)

func ParseCommunicationLevel(s string) (CommunicationLevel, bool) {
	switch CommunicationLevel(strings.ToLower(strings.TrimSpace(s))) {
	case CommunicationWeak:
		return CommunicationWeak, true
	case CommunicationAdequate:
		return CommunicationAdequate, true
	case CommunicationStrong:
		return CommunicationStrong, true
	}
	return CommunicationAdequate, false
}

// Profile holds the attributes detected from the candidate introduction.
// It is created once, immediately after the introduction is processed, and
// is immutable afterwards.
type Profile struct {
	Skills        []string           `json:"skills"`
	Experience    ExperienceLevel    `json:"experience_level"`
	PrimarySkill  SkillCategory      `json:"primary_skill"`
	Confidence    ConfidenceLevel    `json:"confidence"`
	Communication CommunicationLevel `json:"communication"`
	IntroScore    float64            `json:"intro_score"`
}

// Evaluation is the structured score for one answer. All sub-scores are on
// a 0..10 scale.
type Evaluation struct {
	TechnicalAccuracy float64  `json:"technical_accuracy"`
	Completeness      float64  `json:"completeness"`
	Clarity           float64  `json:"clarity"`
	Depth             float64  `json:"depth"`
	Practicality      float64  `json:"practicality"`
	Overall           float64  `json:"overall"`
	Strengths         []string `json:"strengths,omitempty"`
	Weaknesses        []string `json:"weaknesses,omitempty"`
}

type QuestionKind string

const (
	QuestionTechnical  QuestionKind = "technical"
	QuestionBehavioral QuestionKind = "behavioral"
)

// Question is one entry of the locked question list.
type Question struct {
	Text string       `json:"text"`
	Kind QuestionKind `json:"kind"`
}

// SkippedAnswer is the sentinel answer recorded when a question is skipped.
const SkippedAnswer = "[Skipped]"

// Record is one answered question. Records are appended monotonically and
// never mutated or removed.
type Record struct {
	Question   Question   `json:"question"`
	Answer     string     `json:"answer"`
	Evaluation Evaluation `json:"evaluation"`
	WordCount  int        `json:"word_count"`
	Skipped    bool       `json:"skipped,omitempty"`
}

type MessageRole string

const (
	RoleInterviewer MessageRole = "interviewer"
	RoleCandidate   MessageRole = "candidate"
	RoleFeedback    MessageRole = "feedback"
)

// Message is one transcript entry for later display.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	Time    time.Time   `json:"time"`
}

// Snapshot is a read-only copy of session state, consumed by the report
// builder and the CLI.
type Snapshot struct {
	ID           string            `json:"session_id"`
	Phase        Phase             `json:"phase"`
	Reason       TerminationReason `json:"termination_reason,omitempty"`
	Profile      *Profile          `json:"candidate_profile,omitempty"`
	Questions    []Question        `json:"questions"`
	Records      []Record          `json:"question_evaluations"`
	RunningScore float64           `json:"overall_score"`
	Messages     []Message         `json:"messages,omitempty"`
	StartedAt    time.Time         `json:"started_at"`
	EndedAt      time.Time         `json:"ended_at,omitempty"`
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
