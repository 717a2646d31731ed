package report

import (
	"time"

	"github.com/spigell/hr-interviewer/internal/interview"
)

// Recommendation is the hiring verdict derived from the final score.
type Recommendation string

const (
	RecommendNextRound    Recommendation = "Recommended for next round"
	RecommendReservations Recommendation = "Consider with reservations"
	RecommendNo           Recommendation = "Not recommended"
)

// Statistics aggregates the per-answer scores of one session. Skipped
// questions are counted but excluded from every average.
type Statistics struct {
	Answered       int     `json:"answered"`
	Skipped        int     `json:"skipped"`
	Mean           float64 `json:"mean"`
	Best           float64 `json:"best"`
	Worst          float64 `json:"worst"`
	TechnicalMean  float64 `json:"technical_mean"`
	BehavioralMean float64 `json:"behavioral_mean"`
}

// Report is the persisted form of a finished interview.
type Report struct {
	ID             string              `json:"report_id"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Duration       time.Duration       `json:"duration"`
	FinalScore     float64             `json:"final_score"`
	Recommendation Recommendation      `json:"recommendation"`
	Statistics     Statistics          `json:"statistics"`
	Session        *interview.Snapshot `json:"session"`
}

// NewID builds a report identifier from the timestamp. Identifiers sort
// chronologically as plain strings.
func NewID(now time.Time) string {
	return "INT" + now.Format("20060102150405")
}

// Build derives a report from a finished session snapshot.
func Build(snap *interview.Snapshot, now time.Time) *Report {
	stats := computeStatistics(snap.Records)

	final := finalScore(snap)

	return &Report{
		ID:             NewID(now),
		GeneratedAt:    now,
		Duration:       duration(snap, now),
		FinalScore:     final,
		Recommendation: recommend(snap, final),
		Statistics:     stats,
		Session:        snap,
	}
}

// finalScore folds the introduction score in as one extra data point next to
// the answered questions. A session without a profile keeps the running mean.
func finalScore(snap *interview.Snapshot) float64 {
	answered := len(snap.Records)
	if snap.Profile == nil || answered == 0 {
		if snap.Profile != nil {
			return snap.Profile.IntroScore
		}
		return snap.RunningScore
	}
	return (snap.RunningScore*float64(answered) + snap.Profile.IntroScore) / float64(answered+1)
}

func recommend(snap *interview.Snapshot, final float64) Recommendation {
	if snap.Reason == interview.ReasonMisconduct || snap.Reason == interview.ReasonInsufficientResponse {
		return RecommendNo
	}
	switch {
	case final >= 7:
		return RecommendNextRound
	case final >= 5:
		return RecommendReservations
	default:
		return RecommendNo
	}
}

func computeStatistics(records []interview.Record) Statistics {
	stats := Statistics{}
	var sum, technicalSum, behavioralSum float64
	var technical, behavioral int
	for _, r := range records {
		if r.Skipped {
			stats.Skipped++
			continue
		}
		score := r.Evaluation.Overall
		if stats.Answered == 0 || score > stats.Best {
			stats.Best = score
		}
		if stats.Answered == 0 || score < stats.Worst {
			stats.Worst = score
		}
		stats.Answered++
		sum += score
		if r.Question.Kind == interview.QuestionBehavioral {
			behavioral++
			behavioralSum += score
		} else {
			technical++
			technicalSum += score
		}
	}
	if stats.Answered > 0 {
		stats.Mean = sum / float64(stats.Answered)
	}
	if technical > 0 {
		stats.TechnicalMean = technicalSum / float64(technical)
	}
	if behavioral > 0 {
		stats.BehavioralMean = behavioralSum / float64(behavioral)
	}
	return stats
}

func duration(snap *interview.Snapshot, now time.Time) time.Duration {
	if snap.StartedAt.IsZero() {
		return 0
	}
	end := snap.EndedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(snap.StartedAt).Round(time.Second)
}
