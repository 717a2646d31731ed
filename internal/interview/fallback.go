package interview

import "strings"

// Deterministic offline substitutes for the three AI collaborators. These
// run whenever a collaborator is absent, fails, or returns malformed data,
// so the session never stalls on an external error.

// skillKeywords drives both fallback classification and skill extraction.
var skillKeywords = map[SkillCategory][]string{
	SkillBackend:   {"python", "java", "go", "node", "spring", "django", "flask", "sql", "api", "microservices", "server", "backend", "database", "postgres"},
	SkillFrontend:  {"javascript", "typescript", "react", "angular", "vue", "html", "css", "frontend", "redux", "webpack", "ui"},
	SkillFullstack: {"fullstack", "full-stack", "full stack", "end-to-end"},
	SkillDevops:    {"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ci/cd", "jenkins", "ansible", "devops", "linux", "infrastructure"},
	SkillData:      {"machine learning", "data science", "pytorch", "tensorflow", "pandas", "numpy", "analytics", "ml", "etl"},
	SkillMobile:    {"android", "ios", "swift", "kotlin", "flutter", "react native", "mobile"},
}

var fallbackTechnical = map[SkillCategory][]string{
	SkillBackend: {
		"Explain the difference between synchronous and asynchronous programming.",
		"How would you design a rate-limiting system for an API?",
		"Describe database indexing and its impact on query performance.",
		"How do you handle schema migrations in a live service?",
		"What trade-offs do you consider when splitting a monolith into services?",
	},
	SkillFrontend: {
		"What is the virtual DOM and why is it important in React?",
		"How would you optimize website performance for mobile devices?",
		"Explain the concept of state management in frontend applications.",
		"How do you approach accessibility when building a component library?",
		"Describe how browser rendering works from HTML to pixels.",
	},
	SkillFullstack: {
		"How do you decide where validation logic belongs between client and server?",
		"Describe how you would design an end-to-end feature from database to UI.",
		"How do you keep API contracts in sync between frontend and backend teams?",
		"Explain strategies for handling authentication across a web stack.",
		"How would you debug a request that fails only in production?",
	},
	SkillDevops: {
		"What is the difference between Docker and Kubernetes?",
		"How would you implement a CI/CD pipeline from scratch?",
		"Describe strategies for zero-downtime deployments.",
		"How do you manage secrets across environments?",
		"What signals would you alert on for a latency-sensitive service?",
	},
	SkillData: {
		"Explain the bias-variance tradeoff in machine learning.",
		"How would you handle missing data in a dataset?",
		"Describe different types of database normalization.",
		"How do you validate that a model is not overfitting?",
		"Describe how you would build a reproducible data pipeline.",
	},
	SkillMobile: {
		"How do you manage application state across the mobile lifecycle?",
		"Describe strategies for supporting offline usage in a mobile app.",
		"How would you reduce the startup time of a mobile application?",
		"Explain the trade-offs between native and cross-platform development.",
		"How do you test UI flows across many device form factors?",
	},
}

var fallbackGeneric = []string{
	"What are the key considerations when designing a scalable system?",
	"How would you approach debugging a performance issue in production?",
	"Describe a technology you adopted recently and what problem it solved.",
	"How do you decide when code is ready to ship?",
	"What does good code review look like to you?",
}

var fallbackBehavioral = []string{
	"Describe a challenging project you worked on and how you overcame obstacles.",
	"Tell me about a time you had a disagreement with a team member and how you resolved it.",
	"How do you prioritize tasks when working on multiple projects with tight deadlines?",
}

// FallbackQuestions returns n technical questions for the category. The
// category list is used first, then the generic list, cycling the generic
// list if n exceeds both.
func FallbackQuestions(category SkillCategory, n int) []string {
	if n <= 0 {
		return nil
	}
	pool := append([]string{}, fallbackTechnical[category]...)
	pool = append(pool, fallbackGeneric...)
	out := make([]string, 0, n)
	for i := 0; len(out) < n; i++ {
		out = append(out, pool[i%len(pool)])
	}
	return out
}

// FallbackBehavioralQuestions returns k behavioral questions, cycling the
// built-in list when k exceeds it.
func FallbackBehavioralQuestions(k int) []string {
	if k <= 0 {
		return nil
	}
	out := make([]string, 0, k)
	for i := 0; len(out) < k; i++ {
		out = append(out, fallbackBehavioral[i%len(fallbackBehavioral)])
	}
	return out
}

// ClassifyIntro derives a profile from the introduction text alone. The
// scoring weights are a documented policy choice, not a contract: word-count
// bands set experience and communication, keyword hits pick the category,
// and the intro score rewards breadth of skills, project mentions and a
// readable length.
func ClassifyIntro(text string) *Profile {
	lower := strings.ToLower(text)
	words := wordCount(text)

	skills := extractSkills(lower)

	best := DefaultSkillCategory
	bestHits := 0
	for _, category := range SkillCategories() {
		hits := 0
		for _, keyword := range skillKeywords[category] {
			if strings.Contains(lower, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = category, hits
		}
	}

	experience, confidence := inferExperience(lower, words)

	communication := CommunicationAdequate
	if words < 50 || words > 500 {
		communication = CommunicationWeak
	}

	projects := 0
	for _, indicator := range []string{"project", "built", "developed", "created", "implemented", "designed"} {
		if strings.Contains(lower, indicator) {
			projects++
		}
	}

	score := 6.0
	if len(skills) >= 3 {
		score++
	}
	if projects >= 2 {
		score++
	}
	if words >= 150 && words <= 400 {
		score++
	}
	if communication != CommunicationWeak {
		score++
	}

	return &Profile{
		Skills:        skills,
		Experience:    experience,
		PrimarySkill:  best,
		Confidence:    confidence,
		Communication: communication,
		IntroScore:    clampScore(score),
	}
}

func extractSkills(lower string) []string {
	var skills []string
	seen := make(map[string]struct{})
	for _, category := range SkillCategories() {
		for _, keyword := range skillKeywords[category] {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if _, ok := seen[keyword]; ok {
				continue
			}
			seen[keyword] = struct{}{}
			skills = append(skills, keyword)
		}
	}
	return skills
}

func inferExperience(lower string, words int) (ExperienceLevel, ConfidenceLevel) {
	seniorHits := 0
	for _, indicator := range []string{"led", "managed", "architected", "mentored", "senior", "principal", "10+", "8+"} {
		if strings.Contains(lower, indicator) {
			seniorHits++
		}
	}
	juniorHits := 0
	for _, indicator := range []string{"recent graduate", "bootcamp", "entry level", "junior", "first job", "internship"} {
		if strings.Contains(lower, indicator) {
			juniorHits++
		}
	}

	switch {
	case seniorHits >= 2 || (seniorHits >= 1 && words > 300):
		return ExperienceSenior, ConfidenceHigh
	case juniorHits >= 1 || words < 100:
		return ExperienceJunior, ConfidenceLow
	default:
		return ExperienceMid, ConfidenceMedium
	}
}

var exampleIndicators = []string{"for example", "for instance", "such as", "e.g.", "in my project", "we used", "i used", "i built"}

// FallbackEvaluation scores an answer from word count and keyword presence.
// The banding mirrors the offline policy documented in DESIGN.md: 100-250
// words is the sweet spot, with bonuses for concrete examples and technical
// vocabulary.
func FallbackEvaluation(question, answer string) *Evaluation {
	words := wordCount(answer)
	lower := strings.ToLower(answer)

	score := 5.0
	switch {
	case words >= 100 && words <= 250:
		score = 7
	case words >= 50:
		score = 6
	case words < 50:
		score = 4
	}
	if words > 300 {
		score = 6
	}

	hasExample := false
	for _, indicator := range exampleIndicators {
		if strings.Contains(lower, indicator) {
			hasExample = true
			score++
			break
		}
	}
	if hasTechnicalTerms(lower) {
		score++
	}

	score = clampScore(score)

	var strengths, weaknesses []string
	if words >= 100 {
		strengths = append(strengths, "Provides detailed explanations")
	} else {
		weaknesses = append(weaknesses, "Could provide more detail")
	}
	if hasExample {
		strengths = append(strengths, "Uses practical examples")
	} else {
		weaknesses = append(weaknesses, "Lacks concrete examples")
	}

	return &Evaluation{
		TechnicalAccuracy: score,
		Completeness:      score,
		Clarity:           score,
		Depth:             score,
		Practicality:      score,
		Overall:           score,
		Strengths:         strengths,
		Weaknesses:        weaknesses,
	}
}

// NeutralEvaluation is recorded for skipped questions.
func NeutralEvaluation() *Evaluation {
	return &Evaluation{
		TechnicalAccuracy: 5,
		Completeness:      5,
		Clarity:           5,
		Depth:             5,
		Practicality:      5,
		Overall:           5,
	}
}

func hasTechnicalTerms(lower string) bool {
	for _, keywords := range skillKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}
