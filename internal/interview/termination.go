package interview

import "strings"

// DefaultTabSwitchSentinel is the synthetic answer text submitted by a
// proctoring frontend when the candidate leaves the interview tab.
const DefaultTabSwitchSentinel = "[TAB-SWITCH DETECTED]"

const defaultMinAnswerWords = 5

// TerminationConfig holds the static keyword configuration for the detector.
type TerminationConfig struct {
	AbusiveKeywords   []string `mapstructure:"abusive-keywords"`
	QuitKeywords      []string `mapstructure:"quit-keywords"`
	TabSwitchSentinel string   `mapstructure:"tab-switch-sentinel"`
	MinAnswerWords    int      `mapstructure:"min-answer-words"`
}

func defaultTerminationConfig() *TerminationConfig {
	return &TerminationConfig{
		AbusiveKeywords:   []string{"stupid", "idiot", "dumb", "worthless", "hate", "useless", "terrible"},
		QuitKeywords:      []string{"quit", "exit", "stop", "end", "terminate", "abort"},
		TabSwitchSentinel: DefaultTabSwitchSentinel,
		MinAnswerWords:    defaultMinAnswerWords,
	}
}

func (c *TerminationConfig) normalize() *TerminationConfig {
	def := defaultTerminationConfig()
	if c == nil {
		return def
	}
	out := *c
	if len(out.AbusiveKeywords) == 0 {
		out.AbusiveKeywords = def.AbusiveKeywords
	}
	if len(out.QuitKeywords) == 0 {
		out.QuitKeywords = def.QuitKeywords
	}
	if strings.TrimSpace(out.TabSwitchSentinel) == "" {
		out.TabSwitchSentinel = def.TabSwitchSentinel
	}
	if out.MinAnswerWords <= 0 {
		out.MinAnswerWords = def.MinAnswerWords
	}
	return &out
}

// terminationRule is a single detection step. Rules run in order; the first
// match wins.
type terminationRule interface {
	Name() string
	Match(text string) (TerminationReason, bool)
}

// Detector scans submitted text for termination conditions. It is a pure
// function of the input string and the keyword configuration; it holds no
// per-session state.
type Detector struct {
	rules []terminationRule
}

// NewDetector builds the ordered rule chain from the configuration. Missing
// fields fall back to the built-in keyword sets.
func NewDetector(cfg *TerminationConfig) *Detector {
	cfg = cfg.normalize()
	return &Detector{rules: []terminationRule{
		&sentinelRule{sentinel: cfg.TabSwitchSentinel},
		&abusiveRule{keywords: lowerAll(cfg.AbusiveKeywords)},
		&quitRule{keywords: lowerAll(cfg.QuitKeywords)},
		&shortAnswerRule{minWords: cfg.MinAnswerWords},
	}}
}

// Classify returns the termination reason matched by the text, if any.
// Empty or whitespace-only input never matches; it is a validation concern,
// not a termination condition.
func (d *Detector) Classify(text string) (TerminationReason, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	for _, rule := range d.rules {
		if reason, ok := rule.Match(text); ok {
			return reason, true
		}
	}
	return "", false
}

type sentinelRule struct {
	sentinel string
}

func (r *sentinelRule) Name() string { return "tab_switch" }

func (r *sentinelRule) Match(text string) (TerminationReason, bool) {
	if strings.TrimSpace(text) == r.sentinel {
		return ReasonMisconduct, true
	}
	return "", false
}

type abusiveRule struct {
	keywords []string
}

func (r *abusiveRule) Name() string { return "abusive_language" }

func (r *abusiveRule) Match(text string) (TerminationReason, bool) {
	lower := strings.ToLower(text)
	for _, keyword := range r.keywords {
		if strings.Contains(lower, keyword) {
			return ReasonMisconduct, true
		}
	}
	return "", false
}

type quitRule struct {
	keywords []string
}

func (r *quitRule) Name() string { return "quit_request" }

// Match fires on a bare quit keyword or on a short sentence containing one,
// e.g. "please quit this interview". Long answers that merely mention a
// keyword ("we had to stop the rollout") are not quit requests.
func (r *quitRule) Match(text string) (TerminationReason, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)
	for _, keyword := range r.keywords {
		if lower == keyword {
			return ReasonCandidateRequest, true
		}
		if len(words) <= 6 && containsWord(words, keyword) && strings.Contains(lower, "interview") {
			return ReasonCandidateRequest, true
		}
	}
	return "", false
}

type shortAnswerRule struct {
	minWords int
}

func (r *shortAnswerRule) Name() string { return "insufficient_response" }

func (r *shortAnswerRule) Match(text string) (TerminationReason, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, skipCommand) {
		return "", false
	}
	if wordCount(trimmed) < r.minWords {
		return ReasonInsufficientResponse, true
	}
	return "", false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsWord(words []string, keyword string) bool {
	for _, w := range words {
		if strings.Trim(w, ".,!?") == keyword {
			return true
		}
	}
	return false
}
