package model

// Risk category keys used in category score and explanation maps.
const (
	CategoryBusinessViability   = "business_viability"
	CategoryMarketTiming        = "market_timing"
	CategoryCompetitionLevel    = "competition_level"
	CategoryExecutionDifficulty = "execution_difficulty"
)

// RiskLevel is the coarse risk band derived from the overall score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// Timeline is the fixed set of phases a top risk can be anchored to.
type Timeline string

const (
	TimelineBeforeStarting   Timeline = "Before starting"
	TimelineDuringValidation Timeline = "During validation"
	TimelineDuringMVP        Timeline = "During MVP development"
	TimelineBeforeLaunch     Timeline = "Before launch"
	TimelinePostLaunch       Timeline = "Post-launch"
)

// AllTimelines returns the valid timeline values in phase order.
func AllTimelines() []Timeline {
	return []Timeline{
		TimelineBeforeStarting,
		TimelineDuringValidation,
		TimelineDuringMVP,
		TimelineBeforeLaunch,
		TimelinePostLaunch,
	}
}

// TopRisk is one of the highest-impact risks surfaced by the analysis.
type TopRisk struct {
	Title           string   `json:"title"`
	Severity        int      `json:"severity"`
	Category        string   `json:"category"`
	WhyItMatters    string   `json:"why_it_matters"`
	MitigationSteps []string `json:"mitigation_steps,omitempty"`
	Timeline        Timeline `json:"timeline"`
}

// RiskAnalysis is the structured risk assessment for an idea. OverallScore is
// always the deterministic weighted recomputation of the category scores,
// never a model-proposed value, and RiskLevel is derived from it by fixed
// bands.
type RiskAnalysis struct {
	OverallScore   float64            `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Explanations   map[string]string  `json:"explanations,omitempty"`
	RiskLevel      RiskLevel          `json:"risk_level"`
	TopRisks       []TopRisk          `json:"top_risks,omitempty"`
	DemoComparison string             `json:"demo_comparison,omitempty"`
}
