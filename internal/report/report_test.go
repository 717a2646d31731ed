package report

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/hr-interviewer/internal/interview"
)

func sampleSnapshot(scores []float64, reason interview.TerminationReason) *interview.Snapshot {
	started := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	snap := &interview.Snapshot{
		ID:    "session-1",
		Phase: interview.PhaseCompleted,
		Profile: &interview.Profile{
			Skills:        []string{"go", "postgres"},
			Experience:    interview.ExperienceMid,
			PrimarySkill:  interview.SkillBackend,
			Confidence:    interview.ConfidenceHigh,
			Communication: interview.CommunicationAdequate,
			IntroScore:    6,
		},
		StartedAt: started,
		EndedAt:   started.Add(22 * time.Minute),
	}
	if reason != "" {
		snap.Phase = interview.PhaseTerminated
		snap.Reason = reason
	}

	sum := 0.0
	for i, score := range scores {
		snap.Records = append(snap.Records, interview.Record{
			Question:   interview.Question{Text: "Q", Kind: interview.QuestionTechnical},
			Answer:     "A",
			Evaluation: interview.Evaluation{Overall: score},
			WordCount:  3 + i,
		})
		sum += score
	}
	if len(scores) > 0 {
		snap.RunningScore = sum / float64(len(scores))
	}
	return snap
}

func TestBuildComputesFinalScoreAndStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 14, 25, 0, 0, time.UTC)
	r := Build(sampleSnapshot([]float64{8, 6, 7}, ""), now)

	if r.ID != "INT20250310142500" {
		t.Fatalf("unexpected id: %s", r.ID)
	}
	// (7*3 + 6) / 4
	if r.FinalScore != 6.75 {
		t.Fatalf("expected final score 6.75, got %v", r.FinalScore)
	}
	if r.Recommendation != RecommendReservations {
		t.Fatalf("expected reservations band, got %q", r.Recommendation)
	}
	if r.Statistics.Answered != 3 || r.Statistics.Best != 8 || r.Statistics.Worst != 6 {
		t.Fatalf("unexpected statistics: %+v", r.Statistics)
	}
	if r.Duration != 22*time.Minute {
		t.Fatalf("expected 22m duration, got %v", r.Duration)
	}
}

func TestBuildRecommendationBands(t *testing.T) {
	t.Parallel()

	now := time.Now()

	strong := Build(sampleSnapshot([]float64{9, 9, 9}, ""), now)
	if strong.Recommendation != RecommendNextRound {
		t.Fatalf("expected next round, got %q", strong.Recommendation)
	}

	weak := Build(sampleSnapshot([]float64{2, 2, 2}, ""), now)
	if weak.Recommendation != RecommendNo {
		t.Fatalf("expected not recommended, got %q", weak.Recommendation)
	}

	misconduct := Build(sampleSnapshot([]float64{9, 9, 9}, interview.ReasonMisconduct), now)
	if misconduct.Recommendation != RecommendNo {
		t.Fatalf("misconduct must not be recommended, got %q", misconduct.Recommendation)
	}
}

func TestBuildWithoutAnswers(t *testing.T) {
	t.Parallel()

	r := Build(sampleSnapshot(nil, interview.ReasonCandidateRequest), time.Now())
	if r.FinalScore != 6 {
		t.Fatalf("expected intro score as final, got %v", r.FinalScore)
	}
	if r.Statistics.Answered != 0 {
		t.Fatalf("expected no answered questions, got %d", r.Statistics.Answered)
	}
}

func TestStatisticsSkipsSkipped(t *testing.T) {
	t.Parallel()

	records := []interview.Record{
		{Evaluation: interview.Evaluation{Overall: 8}},
		{Evaluation: interview.Evaluation{Overall: 5}, Skipped: true},
		{Evaluation: interview.Evaluation{Overall: 4}},
	}
	stats := computeStatistics(records)
	if stats.Answered != 2 || stats.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.Mean != 6 || stats.Best != 8 || stats.Worst != 4 {
		t.Fatalf("unexpected aggregates: %+v", stats)
	}
}

func TestStatisticsSplitsByKind(t *testing.T) {
	t.Parallel()

	records := []interview.Record{
		{Question: interview.Question{Kind: interview.QuestionTechnical}, Evaluation: interview.Evaluation{Overall: 8}},
		{Question: interview.Question{Kind: interview.QuestionTechnical}, Evaluation: interview.Evaluation{Overall: 6}},
		{Question: interview.Question{Kind: interview.QuestionBehavioral}, Evaluation: interview.Evaluation{Overall: 4}},
	}
	stats := computeStatistics(records)
	if stats.TechnicalMean != 7 {
		t.Fatalf("expected technical mean 7, got %v", stats.TechnicalMean)
	}
	if stats.BehavioralMean != 4 {
		t.Fatalf("expected behavioral mean 4, got %v", stats.BehavioralMean)
	}
}

func TestRenderContainsKeySections(t *testing.T) {
	t.Parallel()

	r := Build(sampleSnapshot([]float64{8, 6}, ""), time.Now())
	text := Render(r)

	for _, want := range []string{
		"INTERVIEW REPORT " + r.ID,
		"CANDIDATE PROFILE",
		"Primary skill:  backend",
		"QUESTIONS",
		"STATISTICS",
		"Recommendation:",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("rendered report missing %q:\n%s", want, text)
		}
	}
}

func TestRenderTerminatedStatus(t *testing.T) {
	t.Parallel()

	r := Build(sampleSnapshot(nil, interview.ReasonCandidateRequest), time.Now())
	if !strings.Contains(Render(r), "terminated (candidate_request)") {
		t.Fatalf("expected termination status in report")
	}
}
