package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/validatehq/idea-cli/internal/model"
)

const synthesizeSystemPrompt = `You turn onboarding questionnaire answers into a concise description of a business idea. Respond with a valid JSON object with exactly these string fields: {"problem": ..., "audience": ..., "solution": ..., "monetization": ...}. Every field must be non-empty; when the answers do not cover a field, phrase it constructively, e.g. "To be determined through customer discovery". No markdown, no commentary.`

const classifySystemPrompt = `You evaluate whether companies found via web search compete with a founder's business idea. For each candidate, respond with one element of a JSON array:
[{"name": string, "website": string, "relevance": "direct"|"indirect"|"none", "threat_level": 1-10, "key_features": [string], "positioning": {"target_market": string, "price_tier": "budget"|"mid-range"|"premium"|"enterprise", "price_details": string, "key_strengths": [string], "company_stage": string, "geographic_focus": string}, "our_differentiation": string, "keep": boolean}]
Set "keep" to false for article pages, directories, and anything that is not an operating company. "our_differentiation" must be specific to this founder's context. Respond with the JSON array only.`

const riskSystemPrompt = `You are a pragmatic startup analyst producing a structured risk assessment for a business idea. Respond with a valid JSON object:
{"risk_analysis": {"category_scores": {"business_viability": 0-10, "market_timing": 0-10, "competition_level": 0-10, "execution_difficulty": 0-10}, "explanations": {"business_viability": string, "market_timing": string, "competition_level": string, "execution_difficulty": string}, "top_risks": [{"title": string, "severity": 1-10, "category": string, "why_it_matters": string, "mitigation_steps": [string], "timeline": "Before starting"|"During validation"|"During MVP development"|"Before launch"|"Post-launch"}], "demo_comparison": string}, "ai_insights": {"recommendation": {"verdict": "proceed"|"needs_work", "verdict_label": string, "confidence": 0-100, "summary": string, "requirements": [string], "next_steps": [string]}, "score_factors": [{"factor": string, "impact": "positive"|"negative", "category": string}]}}
Higher category scores mean MORE risk. Provide exactly 3 top risks. No markdown, no commentary.`

const titleSystemPrompt = `You name business ideas. Respond with a single concise title of at most 8 words. No quotes, no punctuation at the end, no commentary.`

// buildSynthesizePrompt asks the model to derive the four core fields from
// the questionnaire.
func buildSynthesizePrompt(idea *model.Idea) string {
	var sb strings.Builder
	sb.WriteString("Business idea:\n")
	sb.WriteString(idea.Description)
	sb.WriteString("\n\nQuestionnaire answers:\n")
	sb.WriteString(FormatWizardAnswers(idea.Answers, idea.QuestionText))
	return sb.String()
}

// buildClassifyPrompt presents one batch of raw candidates together with the
// idea and founder context.
func buildClassifyPrompt(idea *model.Idea, batch []model.CompetitorCandidate) string {
	var sb strings.Builder

	sb.WriteString("Business idea:\n")
	sb.WriteString(idea.Description)
	sb.WriteString("\n")
	writeIdeaContext(&sb, idea.Context)

	if founder := FounderContext(idea.Answers); founder != "" {
		sb.WriteString("\nFounder context:\n")
		sb.WriteString(founder)
		sb.WriteString("\n")
	}

	sb.WriteString("\nCandidates (classify every one, in order):\n")
	candidateJSON, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		// Candidates are plain strings; marshal cannot realistically fail,
		// but fall back to a line rendering rather than an empty prompt.
		for i, c := range batch {
			fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, c.Name, c.Website, c.Description)
		}
		return sb.String()
	}
	sb.Write(candidateJSON)
	return sb.String()
}

// buildRiskPrompt assembles the single large analysis prompt: idea context,
// questionnaire, key insights, optional demo baseline, and the discovered
// competitor landscape.
func buildRiskPrompt(idea *model.Idea, competitors []model.AnalyzedCompetitor) string {
	var sb strings.Builder

	sb.WriteString("Business idea:\n")
	sb.WriteString(idea.Description)
	sb.WriteString("\n")
	writeIdeaContext(&sb, idea.Context)

	if qa := FormatWizardAnswers(idea.Answers, idea.QuestionText); qa != "" {
		sb.WriteString("\nFounder questionnaire:\n")
		sb.WriteString(qa)
		sb.WriteString("\n")
	}

	if insights := KeyInsights(idea.Answers); insights != "" {
		sb.WriteString("\nKey insights:\n")
		sb.WriteString(insights)
		sb.WriteString("\n")
	}

	if len(idea.DemoBaseline) > 0 {
		sb.WriteString("\nBaseline category scores from a comparable reference idea (compare against these in demo_comparison):\n")
		for _, cat := range []string{
			model.CategoryBusinessViability,
			model.CategoryMarketTiming,
			model.CategoryCompetitionLevel,
			model.CategoryExecutionDifficulty,
		} {
			if v, ok := idea.DemoBaseline[cat]; ok {
				fmt.Fprintf(&sb, "- %s: %.1f\n", cat, v)
			}
		}
	}

	if len(competitors) == 0 {
		sb.WriteString("\nNo direct competitors were discovered via web search.\n")
	} else {
		sb.WriteString("\nDiscovered competitors:\n")
		for _, c := range competitors {
			fmt.Fprintf(&sb, "- %s (relevance: %s, threat: %d/10)", c.Name, c.Relevance, c.ThreatLevel)
			if c.Positioning != nil && c.Positioning.TargetMarket != "" {
				fmt.Fprintf(&sb, " targeting %s", c.Positioning.TargetMarket)
			}
			if c.OurDifferentiation != "" {
				fmt.Fprintf(&sb, "; differentiation: %s", c.OurDifferentiation)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// buildTitlePrompt asks for a short display title for the idea.
func buildTitlePrompt(idea *model.Idea) string {
	var sb strings.Builder
	sb.WriteString("Business idea:\n")
	sb.WriteString(idea.Description)
	if idea.Context.Solution != "" {
		sb.WriteString("\nSolution: ")
		sb.WriteString(idea.Context.Solution)
	}
	return sb.String()
}

func writeIdeaContext(sb *strings.Builder, c model.IdeaContext) {
	if c.Problem != "" {
		sb.WriteString("Problem: " + c.Problem + "\n")
	}
	if c.Audience != "" {
		sb.WriteString("Audience: " + c.Audience + "\n")
	}
	if c.Solution != "" {
		sb.WriteString("Solution: " + c.Solution + "\n")
	}
	if c.Monetization != "" {
		sb.WriteString("Monetization: " + c.Monetization + "\n")
	}
}
