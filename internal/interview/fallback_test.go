package interview

import (
	"strings"
	"testing"
)

func TestClassifyIntroBackend(t *testing.T) {
	t.Parallel()

	intro := "I have six years of experience building backend services in Go and Python. " +
		"I designed REST APIs, tuned Postgres databases and led the migration of a monolith to microservices. " +
		"I also mentored two junior engineers on my last team and managed the on-call rotation."

	profile := ClassifyIntro(intro)

	if profile.PrimarySkill != SkillBackend {
		t.Fatalf("expected backend, got %q", profile.PrimarySkill)
	}
	if profile.Experience != ExperienceSenior {
		t.Fatalf("expected senior, got %q", profile.Experience)
	}
	if len(profile.Skills) < 2 {
		t.Fatalf("expected at least two skills, got %v", profile.Skills)
	}
	if profile.IntroScore < 0 || profile.IntroScore > 10 {
		t.Fatalf("intro score out of range: %v", profile.IntroScore)
	}
}

func TestClassifyIntroShortTextIsJunior(t *testing.T) {
	t.Parallel()

	profile := ClassifyIntro("I am a recent graduate who likes React and building small frontend projects with CSS.")

	if profile.Experience != ExperienceJunior {
		t.Fatalf("expected junior, got %q", profile.Experience)
	}
	if profile.Confidence != ConfidenceLow {
		t.Fatalf("expected low confidence, got %q", profile.Confidence)
	}
	if profile.PrimarySkill != SkillFrontend {
		t.Fatalf("expected frontend, got %q", profile.PrimarySkill)
	}
	if profile.Communication != CommunicationWeak {
		t.Fatalf("expected weak communication for a short intro, got %q", profile.Communication)
	}
}

func TestClassifyIntroNoKeywordsFallsBackToDefault(t *testing.T) {
	t.Parallel()

	profile := ClassifyIntro("I enjoy working with people and solving interesting problems every single day at work.")
	if profile.PrimarySkill != DefaultSkillCategory {
		t.Fatalf("expected default category, got %q", profile.PrimarySkill)
	}
}

func TestFallbackQuestionsPadsAndCycles(t *testing.T) {
	t.Parallel()

	questions := FallbackQuestions(SkillDevops, 12)
	if len(questions) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(questions))
	}

	// The category pool comes first, generic questions pad the rest.
	if questions[0] != fallbackTechnical[SkillDevops][0] {
		t.Fatalf("expected category question first, got %q", questions[0])
	}
	if questions[5] != fallbackGeneric[0] {
		t.Fatalf("expected generic padding at index 5, got %q", questions[5])
	}
	// 12 > 10 pooled questions, so the list cycles.
	if questions[10] != questions[0] {
		t.Fatalf("expected cycling back to the first question, got %q", questions[10])
	}

	if got := FallbackQuestions(SkillBackend, 0); got != nil {
		t.Fatalf("expected nil for zero questions, got %v", got)
	}
}

func TestFallbackBehavioralQuestions(t *testing.T) {
	t.Parallel()

	questions := FallbackBehavioralQuestions(2)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0] == questions[1] {
		t.Fatalf("expected distinct behavioral questions")
	}
}

func TestFallbackEvaluationBands(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		answer  string
		minimum float64
		maximum float64
	}{
		{
			name:    "short answer scores low",
			answer:  "Indexes make queries faster sometimes I think maybe.",
			minimum: 3,
			maximum: 5,
		},
		{
			name: "detailed answer with example scores high",
			answer: "In my project we used Postgres indexes to speed up lookups. " +
				strings.Repeat("The planner picks the index when selectivity is high enough. ", 15),
			minimum: 7,
			maximum: 10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			eval := FallbackEvaluation("Describe database indexing.", tc.answer)
			if eval.Overall < tc.minimum || eval.Overall > tc.maximum {
				t.Fatalf("overall %v outside [%v, %v]", eval.Overall, tc.minimum, tc.maximum)
			}
			if len(eval.Strengths)+len(eval.Weaknesses) == 0 {
				t.Fatalf("expected strengths or weaknesses to be populated")
			}
		})
	}
}

func TestNeutralEvaluation(t *testing.T) {
	t.Parallel()

	eval := NeutralEvaluation()
	if eval.Overall != 5 {
		t.Fatalf("expected neutral overall of 5, got %v", eval.Overall)
	}
	if eval.TechnicalAccuracy != 5 || eval.Depth != 5 {
		t.Fatalf("expected all sub-scores to be 5: %+v", eval)
	}
}
