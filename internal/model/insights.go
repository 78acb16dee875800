package model

// Verdict is the binary proceed/rework decision for an idea.
type Verdict string

const (
	VerdictProceed   Verdict = "proceed"
	VerdictNeedsWork Verdict = "needs_work"
)

// Impact marks whether a score factor helped or hurt the idea.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

// Recommendation is the verdict block of the insights. Verdict and
// VerdictLabel are a pure function of the overall score; model-proposed
// values are always overwritten.
type Recommendation struct {
	Verdict      Verdict  `json:"verdict"`
	VerdictLabel string   `json:"verdict_label"`
	Confidence   int      `json:"confidence"`
	Summary      string   `json:"summary,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	NextSteps    []string `json:"next_steps,omitempty"`
}

// ScoreFactor is one contributor to the overall assessment.
type ScoreFactor struct {
	Factor   string `json:"factor"`
	Impact   Impact `json:"impact"`
	Category string `json:"category,omitempty"`
}

// AIInsights carries the recommendation and its contributing factors.
type AIInsights struct {
	Recommendation Recommendation `json:"recommendation"`
	ScoreFactors   []ScoreFactor  `json:"score_factors,omitempty"`
}

// AnalysisResult is the final aggregate produced once per run and handed to
// the persistence collaborator. RiskScore mirrors RiskAnalysis.OverallScore;
// Score is the same signal on a 0-100 viability scale.
type AnalysisResult struct {
	Problem      string               `json:"problem"`
	Audience     string               `json:"audience"`
	Solution     string               `json:"solution"`
	Monetization string               `json:"monetization"`
	Title        string               `json:"title"`
	Score        int                  `json:"score"`
	RiskScore    float64              `json:"risk_score"`
	RiskAnalysis RiskAnalysis         `json:"risk_analysis"`
	AIInsights   AIInsights           `json:"ai_insights"`
	Competitors  []AnalyzedCompetitor `json:"competitors"`
}
