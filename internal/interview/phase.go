package interview

// Phase is the lifecycle position of a session. A session moves strictly
// forward: NotStarted -> IntroductionPending -> InProgress -> Completed or
// Terminated. There is no transition out of a final phase.
type Phase string

const (
	PhaseNotStarted          Phase = "not_started"
	PhaseIntroductionPending Phase = "introduction_pending"
	PhaseInProgress          Phase = "in_progress"
	PhaseCompleted           Phase = "completed"
	PhaseTerminated          Phase = "terminated"
)

// Final reports whether the session can accept no further input.
func (p Phase) Final() bool {
	return p == PhaseCompleted || p == PhaseTerminated
}

// TerminationReason is an enumerated cause for ending a session early,
// distinct from normal completion.
type TerminationReason string

const (
	// ReasonMisconduct covers abusive language and proctoring violations
	// such as the tab-switch sentinel.
	ReasonMisconduct TerminationReason = "misconduct"
	// ReasonCandidateRequest is an explicit quit request.
	ReasonCandidateRequest TerminationReason = "candidate_request"
	// ReasonPoorResponse is a performance cutoff after consistently low
	// technical scores.
	ReasonPoorResponse TerminationReason = "poor_response"
	// ReasonInsufficientResponse is an answer too short to evaluate.
	ReasonInsufficientResponse TerminationReason = "insufficient_response"
)

// Explanation returns the candidate-facing text for a termination reason.
func (r TerminationReason) Explanation() string {
	switch r {
	case ReasonMisconduct:
		return "The interview was terminated due to unprofessional conduct."
	case ReasonCandidateRequest:
		return "The interview was ended at your request."
	case ReasonPoorResponse:
		return "The interview was concluded based on performance."
	case ReasonInsufficientResponse:
		return "The interview was ended due to insufficient responses."
	default:
		return "The interview was concluded early."
	}
}
