package interview

import "testing"

func TestDetectorClassify(t *testing.T) {
	t.Parallel()

	detector := NewDetector(nil)

	cases := []struct {
		name   string
		input  string
		reason TerminationReason
		match  bool
	}{
		{
			name:   "tab switch sentinel",
			input:  "[TAB-SWITCH DETECTED]",
			reason: ReasonMisconduct,
			match:  true,
		},
		{
			name:   "sentinel with surrounding whitespace",
			input:  "  [TAB-SWITCH DETECTED]  ",
			reason: ReasonMisconduct,
			match:  true,
		},
		{
			name:   "abusive language inside a long answer",
			input:  "this whole process is stupid and I am done explaining myself to you",
			reason: ReasonMisconduct,
			match:  true,
		},
		{
			name:   "bare quit keyword",
			input:  "quit",
			reason: ReasonCandidateRequest,
			match:  true,
		},
		{
			name:   "polite quit sentence",
			input:  "please quit this interview",
			reason: ReasonCandidateRequest,
			match:  true,
		},
		{
			name:  "quit keyword buried in a real answer",
			input: "we had to stop the rollout because the database migration failed halfway through and data was at risk",
			match: false,
		},
		{
			name:   "too short to evaluate",
			input:  "I don't know",
			reason: ReasonInsufficientResponse,
			match:  true,
		},
		{
			name:  "skip command is not a short answer",
			input: "skip",
			match: false,
		},
		{
			name:  "empty input never matches",
			input: "   ",
			match: false,
		},
		{
			name:  "normal answer passes",
			input: "Indexes let the database locate rows without scanning the whole table, at the cost of slower writes.",
			match: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reason, ok := detector.Classify(tc.input)
			if ok != tc.match {
				t.Fatalf("expected match=%v, got %v (reason %q)", tc.match, ok, reason)
			}
			if ok && reason != tc.reason {
				t.Fatalf("expected reason %q, got %q", tc.reason, reason)
			}
		})
	}
}

func TestDetectorOrderSentinelBeatsShortAnswer(t *testing.T) {
	t.Parallel()

	// The sentinel is under five words; the sentinel rule must win.
	detector := NewDetector(nil)
	reason, ok := detector.Classify(DefaultTabSwitchSentinel)
	if !ok || reason != ReasonMisconduct {
		t.Fatalf("expected misconduct for sentinel, got %q (match %v)", reason, ok)
	}
}

func TestDetectorCustomKeywords(t *testing.T) {
	t.Parallel()

	detector := NewDetector(&TerminationConfig{
		QuitKeywords:   []string{"farewell"},
		MinAnswerWords: 1,
	})

	if reason, ok := detector.Classify("farewell"); !ok || reason != ReasonCandidateRequest {
		t.Fatalf("expected candidate_request for custom keyword, got %q (match %v)", reason, ok)
	}

	// The built-in quit list is replaced, not extended.
	if reason, ok := detector.Classify("quit"); ok {
		t.Fatalf("expected no match for replaced keyword, got %q", reason)
	}
}
