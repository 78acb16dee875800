package model

import "strings"

// IdeaContext holds the four descriptive fields for a business idea. It is
// synthesized at most once per analysis run and immutable afterwards.
type IdeaContext struct {
	Problem      string `json:"problem"`
	Audience     string `json:"audience"`
	Solution     string `json:"solution"`
	Monetization string `json:"monetization"`
}

// IsEmpty reports whether no descriptive field has been set.
func (c IdeaContext) IsEmpty() bool {
	return strings.TrimSpace(c.Problem) == "" &&
		strings.TrimSpace(c.Audience) == "" &&
		strings.TrimSpace(c.Solution) == "" &&
		strings.TrimSpace(c.Monetization) == ""
}

// WizardAnswers maps onboarding question ids to answers. Values are strings,
// string arrays, or numbers as supplied by the caller; the pipeline never
// mutates them.
type WizardAnswers map[string]any

// Idea is the caller-supplied input for one analysis run.
type Idea struct {
	ID           string             `json:"id"`
	Title        string             `json:"title,omitempty"`
	Description  string             `json:"description"`
	Context      IdeaContext        `json:"context"`
	Answers      WizardAnswers      `json:"answers,omitempty"`
	QuestionText map[string]string  `json:"question_text,omitempty"`
	DemoBaseline map[string]float64 `json:"demo_baseline,omitempty"`
}
