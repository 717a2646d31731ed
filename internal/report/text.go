package report

import (
	"fmt"
	"strings"

	"github.com/spigell/hr-interviewer/internal/interview"
)

const divider = "============================================================"

// Render formats the report as the human-readable text companion to the JSON
// file.
func Render(r *Report) string {
	var b strings.Builder

	b.WriteString(divider + "\n")
	b.WriteString("INTERVIEW REPORT " + r.ID + "\n")
	b.WriteString(divider + "\n\n")

	fmt.Fprintf(&b, "Generated:      %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration:       %s\n", r.Duration)
	fmt.Fprintf(&b, "Status:         %s\n", status(r.Session))
	fmt.Fprintf(&b, "Final score:    %.1f/10\n", r.FinalScore)
	fmt.Fprintf(&b, "Recommendation: %s\n", r.Recommendation)

	if p := r.Session.Profile; p != nil {
		b.WriteString("\nCANDIDATE PROFILE\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		fmt.Fprintf(&b, "Primary skill:  %s\n", p.PrimarySkill)
		fmt.Fprintf(&b, "Experience:     %s\n", p.Experience)
		fmt.Fprintf(&b, "Communication:  %s\n", p.Communication)
		fmt.Fprintf(&b, "Intro score:    %.1f/10\n", p.IntroScore)
		if len(p.Skills) > 0 {
			fmt.Fprintf(&b, "Skills:         %s\n", strings.Join(p.Skills, ", "))
		}
	}

	if len(r.Session.Records) > 0 {
		b.WriteString("\nQUESTIONS\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for i, rec := range r.Session.Records {
			fmt.Fprintf(&b, "\nQ%d [%s]: %s\n", i+1, rec.Question.Kind, rec.Question.Text)
			if rec.Skipped {
				b.WriteString("Skipped.\n")
				continue
			}
			fmt.Fprintf(&b, "Answer (%d words): %s\n", rec.WordCount, rec.Answer)
			fmt.Fprintf(&b, "Score: %.1f/10\n", rec.Evaluation.Overall)
			if len(rec.Evaluation.Strengths) > 0 {
				fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(rec.Evaluation.Strengths, "; "))
			}
			if len(rec.Evaluation.Weaknesses) > 0 {
				fmt.Fprintf(&b, "Weaknesses: %s\n", strings.Join(rec.Evaluation.Weaknesses, "; "))
			}
		}

		b.WriteString("\nSTATISTICS\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		fmt.Fprintf(&b, "Answered: %d  Skipped: %d\n", r.Statistics.Answered, r.Statistics.Skipped)
		if r.Statistics.Answered > 0 {
			fmt.Fprintf(&b, "Mean: %.1f  Best: %.1f  Worst: %.1f\n", r.Statistics.Mean, r.Statistics.Best, r.Statistics.Worst)
			fmt.Fprintf(&b, "Technical mean: %.1f  Behavioral mean: %.1f\n", r.Statistics.TechnicalMean, r.Statistics.BehavioralMean)
		}
	}

	if len(r.Session.Messages) > 0 {
		b.WriteString("\nTRANSCRIPT\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, m := range r.Session.Messages {
			fmt.Fprintf(&b, "[%s] %s: %s\n", m.Time.Format("15:04:05"), m.Role, m.Content)
		}
	}

	b.WriteString("\n" + divider + "\n")
	return b.String()
}

func status(snap *interview.Snapshot) string {
	if snap.Phase == interview.PhaseTerminated {
		return fmt.Sprintf("terminated (%s)", snap.Reason)
	}
	return string(snap.Phase)
}
