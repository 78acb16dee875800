package analysis

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
	"github.com/validatehq/idea-cli/pkg/anthropic"
)

// categoryWeights fixes each category's contribution to the overall risk
// score. Weights sum to 1.0.
var categoryWeights = map[string]float64{
	model.CategoryCompetitionLevel:    0.35,
	model.CategoryBusinessViability:   0.25,
	model.CategoryMarketTiming:        0.20,
	model.CategoryExecutionDifficulty: 0.20,
}

// missingCategoryScore stands in for any category the model failed to score.
const missingCategoryScore = 5.0

// ComputeOverallScore recomputes the overall risk score as the fixed weighted
// sum of the category scores, rounded to one decimal. Absent or out-of-range
// categories count as neutral.
func ComputeOverallScore(categoryScores map[string]float64) float64 {
	var overall float64
	for category, weight := range categoryWeights {
		score, ok := categoryScores[category]
		if !ok || score < 0 || score > 10 {
			score = missingCategoryScore
		}
		overall += score * weight
	}
	return round1(overall)
}

// DeriveRiskLevel maps an overall score onto the coarse risk band.
func DeriveRiskLevel(overall float64) model.RiskLevel {
	switch {
	case overall < 4.0:
		return model.RiskLevelLow
	case overall < 7.0:
		return model.RiskLevelMedium
	default:
		return model.RiskLevelHigh
	}
}

// DeriveVerdict maps an overall score onto the verdict and its display label.
func DeriveVerdict(overall float64) (model.Verdict, string) {
	switch {
	case overall < 5.0:
		return model.VerdictProceed, "Strong Potential"
	case overall < 7.0:
		return model.VerdictNeedsWork, "Promising - Address Constraints"
	case overall < 8.5:
		return model.VerdictNeedsWork, "High Risk - Major Challenges"
	default:
		return model.VerdictNeedsWork, "Very High Risk - Reconsider Approach"
	}
}

// normalizeTimeline coerces a model-emitted timeline onto the closed enum,
// case-insensitively. Unknown values fall back to the validation phase.
func normalizeTimeline(raw string) model.Timeline {
	trimmed := strings.TrimSpace(raw)
	for _, t := range model.AllTimelines() {
		if strings.EqualFold(trimmed, string(t)) {
			return t
		}
	}
	if trimmed != "" {
		zap.L().Warn("risk: unrecognized timeline", zap.String("timeline", trimmed))
	}
	return model.TimelineDuringValidation
}

var (
	impactPrefixRe = regexp.MustCompile(`(?i)^\s*-?\s*(positive|negative)\s*-\s*`)
	bracketedRe    = regexp.MustCompile(`\s*[\[(](?i:positive|negative)[\])]\s*`)
)

// sanitizeFactor strips impact annotations the model sometimes prepends to
// factor text, e.g. "- Positive - strong demand" or "strong demand [positive]".
func sanitizeFactor(factor string) string {
	factor = impactPrefixRe.ReplaceAllString(factor, "")
	factor = bracketedRe.ReplaceAllString(factor, " ")
	return strings.TrimSpace(factor)
}

// DefaultRiskRecord is the neutral record stored when the risk call fails in
// a recoverable way, so a run still produces a complete result.
func DefaultRiskRecord() (model.RiskAnalysis, model.AIInsights) {
	scores := map[string]float64{
		model.CategoryBusinessViability:   missingCategoryScore,
		model.CategoryMarketTiming:        missingCategoryScore,
		model.CategoryCompetitionLevel:    missingCategoryScore,
		model.CategoryExecutionDifficulty: missingCategoryScore,
	}
	overall := ComputeOverallScore(scores)
	verdict, _ := DeriveVerdict(overall)
	return model.RiskAnalysis{
			OverallScore:   overall,
			CategoryScores: scores,
			RiskLevel:      DeriveRiskLevel(overall),
		}, model.AIInsights{
			Recommendation: model.Recommendation{
				Verdict:      verdict,
				VerdictLabel: "Analysis Pending",
				Confidence:   0,
				Summary:      "Risk analysis could not be completed. Re-run the analysis to get a full assessment.",
			},
		}
}

// rawRiskResponse mirrors the JSON envelope the risk prompt requests.
type rawRiskResponse struct {
	RiskAnalysis struct {
		CategoryScores map[string]float64 `json:"category_scores"`
		Explanations   map[string]string  `json:"explanations"`
		TopRisks       []struct {
			Title           string   `json:"title"`
			Severity        int      `json:"severity"`
			Category        string   `json:"category"`
			WhyItMatters    string   `json:"why_it_matters"`
			MitigationSteps []string `json:"mitigation_steps"`
			Timeline        string   `json:"timeline"`
		} `json:"top_risks"`
		DemoComparison string `json:"demo_comparison"`
	} `json:"risk_analysis"`
	AIInsights struct {
		Recommendation struct {
			Verdict      string   `json:"verdict"`
			VerdictLabel string   `json:"verdict_label"`
			Confidence   int      `json:"confidence"`
			Summary      string   `json:"summary"`
			Requirements []string `json:"requirements"`
			NextSteps    []string `json:"next_steps"`
		} `json:"recommendation"`
		ScoreFactors []struct {
			Factor   string `json:"factor"`
			Impact   string `json:"impact"`
			Category string `json:"category"`
		} `json:"score_factors"`
	} `json:"ai_insights"`
}

// AnalyzeRisk runs the risk prompt against the reasoning model and
// post-processes the response deterministically: the overall score, risk
// level, verdict, and verdict label are always recomputed here regardless of
// what the model proposed. Transient failures that survive the retry budget,
// and unparseable responses, degrade to DefaultRiskRecord; only
// non-recoverable errors (bad credentials, invalid request) propagate.
func AnalyzeRisk(
	ctx context.Context,
	ai anthropic.Client,
	cfg config.Config,
	retryCfg resilience.RetryConfig,
	idea *model.Idea,
	competitors []model.AnalyzedCompetitor,
) (model.RiskAnalysis, model.AIInsights, anthropic.TokenUsage, error) {
	var usage anthropic.TokenUsage

	rCfg := retryCfg
	rCfg.OnRetry = resilience.RetryLogger("anthropic", "risk")

	resp, err := resilience.DoVal(ctx, rCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     cfg.Anthropic.SonnetModel,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
			System:    anthropic.BuildCachedSystemBlocks(riskSystemPrompt),
			Messages: []anthropic.Message{
				{Role: "user", Content: buildRiskPrompt(idea, competitors)},
			},
		})
	})
	if err != nil {
		if ctx.Err() != nil || !resilience.IsTransient(err) {
			return model.RiskAnalysis{}, model.AIInsights{}, usage, eris.Wrap(err, "risk: analysis call")
		}
		zap.L().Warn("risk: analysis call failed after retries, storing default record", zap.Error(err))
		ra, insights := DefaultRiskRecord()
		return ra, insights, usage, nil
	}
	usage.Add(resp.Usage)

	var raw rawRiskResponse
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &raw); err != nil {
		zap.L().Warn("risk: unparseable response, storing default record", zap.Error(err))
		ra, insights := DefaultRiskRecord()
		return ra, insights, usage, nil
	}

	overall := ComputeOverallScore(raw.RiskAnalysis.CategoryScores)
	verdict, label := DeriveVerdict(overall)

	analysis := model.RiskAnalysis{
		OverallScore:   overall,
		CategoryScores: normalizeCategoryScores(raw.RiskAnalysis.CategoryScores),
		Explanations:   raw.RiskAnalysis.Explanations,
		RiskLevel:      DeriveRiskLevel(overall),
		DemoComparison: strings.TrimSpace(raw.RiskAnalysis.DemoComparison),
	}

	for _, tr := range raw.RiskAnalysis.TopRisks {
		if len(analysis.TopRisks) >= 3 {
			break
		}
		analysis.TopRisks = append(analysis.TopRisks, model.TopRisk{
			Title:           strings.TrimSpace(tr.Title),
			Severity:        clampInt(tr.Severity, 1, 10),
			Category:        strings.TrimSpace(tr.Category),
			WhyItMatters:    strings.TrimSpace(tr.WhyItMatters),
			MitigationSteps: tr.MitigationSteps,
			Timeline:        normalizeTimeline(tr.Timeline),
		})
	}

	insights := model.AIInsights{
		Recommendation: model.Recommendation{
			Verdict:      verdict,
			VerdictLabel: label,
			Confidence:   clampInt(raw.AIInsights.Recommendation.Confidence, 0, 100),
			Summary:      strings.TrimSpace(raw.AIInsights.Recommendation.Summary),
			Requirements: raw.AIInsights.Recommendation.Requirements,
			NextSteps:    raw.AIInsights.Recommendation.NextSteps,
		},
	}
	for _, sf := range raw.AIInsights.ScoreFactors {
		text := sanitizeFactor(sf.Factor)
		if text == "" {
			continue
		}
		impact := model.Impact(strings.ToLower(strings.TrimSpace(sf.Impact)))
		if impact != model.ImpactPositive && impact != model.ImpactNegative {
			impact = model.ImpactNegative
		}
		insights.ScoreFactors = append(insights.ScoreFactors, model.ScoreFactor{
			Factor:   text,
			Impact:   impact,
			Category: strings.TrimSpace(sf.Category),
		})
	}

	zap.L().Info("risk: analysis complete",
		zap.Float64("overall_score", overall),
		zap.String("risk_level", string(analysis.RiskLevel)),
		zap.String("verdict", string(verdict)),
	)
	return analysis, insights, usage, nil
}

// normalizeCategoryScores guarantees every known category is present and in
// range in the stored map.
func normalizeCategoryScores(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(categoryWeights))
	for category := range categoryWeights {
		score, ok := scores[category]
		if !ok || score < 0 || score > 10 {
			score = missingCategoryScore
		}
		out[category] = round1(score)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
