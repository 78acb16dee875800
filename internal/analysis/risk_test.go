package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
)

func TestComputeOverallScore_WeightedAndRounded(t *testing.T) {
	scores := map[string]float64{
		model.CategoryCompetitionLevel:    8.0,
		model.CategoryBusinessViability:   7.0,
		model.CategoryMarketTiming:        7.0,
		model.CategoryExecutionDifficulty: 8.0,
	}
	// 8*0.35 + 7*0.25 + 7*0.20 + 8*0.20 = 7.55 → 7.6
	assert.Equal(t, 7.6, ComputeOverallScore(scores))
}

func TestComputeOverallScore_MissingCategoryIsNeutral(t *testing.T) {
	scores := map[string]float64{
		model.CategoryCompetitionLevel: 9.0,
	}
	// 9*0.35 + 5*(0.25+0.20+0.20) = 3.15 + 3.25 = 6.4
	assert.Equal(t, 6.4, ComputeOverallScore(scores))

	assert.Equal(t, 5.0, ComputeOverallScore(nil))
}

func TestComputeOverallScore_OutOfRangeIsNeutral(t *testing.T) {
	scores := map[string]float64{
		model.CategoryCompetitionLevel:    15.0,
		model.CategoryBusinessViability:   -2.0,
		model.CategoryMarketTiming:        5.0,
		model.CategoryExecutionDifficulty: 5.0,
	}
	assert.Equal(t, 5.0, ComputeOverallScore(scores))
}

func TestDeriveRiskLevel_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  model.RiskLevel
	}{
		{0.0, model.RiskLevelLow},
		{3.9, model.RiskLevelLow},
		{4.0, model.RiskLevelMedium},
		{6.9, model.RiskLevelMedium},
		{7.0, model.RiskLevelHigh},
		{10.0, model.RiskLevelHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveRiskLevel(tc.score), "score %.1f", tc.score)
	}
}

func TestDeriveVerdict_Bands(t *testing.T) {
	cases := []struct {
		score   float64
		verdict model.Verdict
		label   string
	}{
		{2.0, model.VerdictProceed, "Strong Potential"},
		{4.999, model.VerdictProceed, "Strong Potential"},
		{5.0, model.VerdictNeedsWork, "Promising - Address Constraints"},
		{6.999, model.VerdictNeedsWork, "Promising - Address Constraints"},
		{7.0, model.VerdictNeedsWork, "High Risk - Major Challenges"},
		{8.499, model.VerdictNeedsWork, "High Risk - Major Challenges"},
		{8.5, model.VerdictNeedsWork, "Very High Risk - Reconsider Approach"},
		{10.0, model.VerdictNeedsWork, "Very High Risk - Reconsider Approach"},
	}
	for _, tc := range cases {
		verdict, label := DeriveVerdict(tc.score)
		assert.Equal(t, tc.verdict, verdict, "score %.1f", tc.score)
		assert.Equal(t, tc.label, label, "score %.1f", tc.score)
	}
}

func TestNormalizeTimeline(t *testing.T) {
	assert.Equal(t, model.TimelineBeforeLaunch, normalizeTimeline("before launch"))
	assert.Equal(t, model.TimelinePostLaunch, normalizeTimeline("POST-LAUNCH"))
	assert.Equal(t, model.TimelineDuringMVP, normalizeTimeline(" During MVP development "))
	assert.Equal(t, model.TimelineDuringValidation, normalizeTimeline("sometime soon"))
	assert.Equal(t, model.TimelineDuringValidation, normalizeTimeline(""))
}

func TestSanitizeFactor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"- Positive - strong founder expertise", "strong founder expertise"},
		{"Negative - crowded market", "crowded market"},
		{"crowded market [negative]", "crowded market"},
		{"strong demand (Positive)", "strong demand"},
		{"plain factor text", "plain factor text"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeFactor(tc.in), "input %q", tc.in)
	}
}

func TestDefaultRiskRecord(t *testing.T) {
	ra, insights := DefaultRiskRecord()

	assert.Equal(t, 5.0, ra.OverallScore)
	assert.Equal(t, model.RiskLevelMedium, ra.RiskLevel)
	assert.Len(t, ra.CategoryScores, 4)
	for cat, score := range ra.CategoryScores {
		assert.Equal(t, 5.0, score, "category %s", cat)
	}
	assert.Equal(t, model.VerdictNeedsWork, insights.Recommendation.Verdict)
	assert.Equal(t, "Analysis Pending", insights.Recommendation.VerdictLabel)
	assert.Zero(t, insights.Recommendation.Confidence)
}

func TestAnalyzeRisk_DeterministicOverrides(t *testing.T) {
	// The model proposes a wrong overall score, verdict, and risk level; the
	// stored record must reflect the recomputed values.
	ai := &stubAnthropicClient{
		responses: []string{`{
			"risk_analysis": {
				"category_scores": {"business_viability": 7, "market_timing": 7, "competition_level": 8, "execution_difficulty": 8},
				"explanations": {"competition_level": "crowded space"},
				"top_risks": [
					{"title": "R1", "severity": 12, "category": "competition_level", "why_it_matters": "m", "timeline": "before launch"},
					{"title": "R2", "severity": 5, "category": "market_timing", "why_it_matters": "m", "timeline": "nonsense"},
					{"title": "R3", "severity": 0, "category": "business_viability", "why_it_matters": "m", "timeline": "Post-launch"},
					{"title": "R4", "severity": 5, "category": "execution_difficulty", "why_it_matters": "m", "timeline": "Post-launch"}
				],
				"demo_comparison": "worse than baseline"
			},
			"ai_insights": {
				"recommendation": {"verdict": "proceed", "verdict_label": "Looks Great", "confidence": 140, "summary": "s"},
				"score_factors": [
					{"factor": "- Negative - crowded market", "impact": "negative", "category": "competition_level"},
					{"factor": "", "impact": "positive"}
				]
			}
		}`},
	}

	ra, insights, _, err := AnalyzeRisk(context.Background(), ai, testConfig(), fastRetry(), testIdea(), nil)
	require.NoError(t, err)

	assert.Equal(t, 7.6, ra.OverallScore)
	assert.Equal(t, model.RiskLevelHigh, ra.RiskLevel)
	assert.Equal(t, "worse than baseline", ra.DemoComparison)

	require.Len(t, ra.TopRisks, 3, "top risks capped at 3")
	assert.Equal(t, 10, ra.TopRisks[0].Severity)
	assert.Equal(t, model.TimelineBeforeLaunch, ra.TopRisks[0].Timeline)
	assert.Equal(t, model.TimelineDuringValidation, ra.TopRisks[1].Timeline)
	assert.Equal(t, 1, ra.TopRisks[2].Severity)

	assert.Equal(t, model.VerdictNeedsWork, insights.Recommendation.Verdict)
	assert.Equal(t, "High Risk - Major Challenges", insights.Recommendation.VerdictLabel)
	assert.Equal(t, 100, insights.Recommendation.Confidence)

	require.Len(t, insights.ScoreFactors, 1, "empty factors dropped")
	assert.Equal(t, "crowded market", insights.ScoreFactors[0].Factor)
}

func TestAnalyzeRisk_TransientFailureDegradesToDefault(t *testing.T) {
	ai := &stubAnthropicClient{
		err: resilience.NewTransientError(assert.AnError, 529),
	}

	ra, insights, _, err := AnalyzeRisk(context.Background(), ai, testConfig(), fastRetry(), testIdea(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ra.OverallScore)
	assert.Equal(t, "Analysis Pending", insights.Recommendation.VerdictLabel)
}

func TestAnalyzeRisk_FatalErrorPropagates(t *testing.T) {
	ai := &stubAnthropicClient{err: assert.AnError}

	_, _, _, err := AnalyzeRisk(context.Background(), ai, testConfig(), fastRetry(), testIdea(), nil)
	assert.Error(t, err)
}

func TestAnalyzeRisk_UnparseableResponseDegradesToDefault(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{"I cannot produce JSON today."}}

	ra, _, _, err := AnalyzeRisk(context.Background(), ai, testConfig(), fastRetry(), testIdea(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.RiskLevelMedium, ra.RiskLevel)
}
