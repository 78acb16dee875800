package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
	"github.com/validatehq/idea-cli/pkg/anthropic"
)

// rawCompetitor mirrors the JSON element shape the model is asked to emit per
// candidate.
type rawCompetitor struct {
	Name               string             `json:"name"`
	Website            string             `json:"website"`
	Keep               bool               `json:"keep"`
	Relevance          string             `json:"relevance"`
	ThreatLevel        int                `json:"threat_level"`
	KeyFeatures        []string           `json:"key_features"`
	Positioning        *model.Positioning `json:"positioning"`
	OurDifferentiation string             `json:"our_differentiation"`
}

// batchOutcome records the result of classifying one candidate batch so a
// single failing batch does not abort the rest.
type batchOutcome struct {
	index int
	kept  []model.AnalyzedCompetitor
	err   error
}

// ClassifyCompetitors runs candidates through the classifier model in
// sequential fixed-size batches. Batches that fail after retries, or whose
// response cannot be parsed, are dropped with a warning; the remaining
// batches still contribute. Returned competitors are those the model kept
// with a relevance other than "none".
func ClassifyCompetitors(
	ctx context.Context,
	ai anthropic.Client,
	cfg config.Config,
	retryCfg resilience.RetryConfig,
	idea *model.Idea,
	candidates []model.CompetitorCandidate,
) ([]model.AnalyzedCompetitor, anthropic.TokenUsage) {
	var usage anthropic.TokenUsage
	if len(candidates) == 0 {
		return nil, usage
	}

	batchSize := cfg.Analysis.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}

	var outcomes []batchOutcome
	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		index := start / batchSize

		kept, batchUsage, err := classifyBatch(ctx, ai, cfg, retryCfg, idea, batch)
		usage.Add(batchUsage)
		outcomes = append(outcomes, batchOutcome{index: index, kept: kept, err: err})
	}

	var competitors []model.AnalyzedCompetitor
	for _, o := range outcomes {
		if o.err != nil {
			zap.L().Warn("classify: batch dropped",
				zap.Int("batch", o.index),
				zap.Error(o.err),
			)
			continue
		}
		competitors = append(competitors, o.kept...)
	}

	zap.L().Info("classify: competitor classification complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("batches", len(outcomes)),
		zap.Int("competitors", len(competitors)),
	)
	return competitors, usage
}

func classifyBatch(
	ctx context.Context,
	ai anthropic.Client,
	cfg config.Config,
	retryCfg resilience.RetryConfig,
	idea *model.Idea,
	batch []model.CompetitorCandidate,
) ([]model.AnalyzedCompetitor, anthropic.TokenUsage, error) {
	var usage anthropic.TokenUsage

	rCfg := retryCfg
	rCfg.OnRetry = resilience.RetryLogger("anthropic", "classify")

	resp, err := resilience.DoVal(ctx, rCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     cfg.Anthropic.HaikuModel,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
			System:    anthropic.BuildCachedSystemBlocks(classifySystemPrompt),
			Messages: []anthropic.Message{
				{Role: "user", Content: buildClassifyPrompt(idea, batch)},
			},
		})
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "classify: batch call")
	}
	usage.Add(resp.Usage)

	raw := extractJSONArray(resp.Text())
	if raw == "" {
		return nil, usage, eris.New("classify: no JSON array in response")
	}

	var parsed []rawCompetitor
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, usage, eris.Wrap(err, "classify: parse batch response")
	}

	kept := make([]model.AnalyzedCompetitor, 0, len(parsed))
	for i, rc := range parsed {
		c := model.AnalyzedCompetitor{
			Name:               strings.TrimSpace(rc.Name),
			Website:            strings.TrimSpace(rc.Website),
			Relevance:          model.Relevance(strings.ToLower(strings.TrimSpace(rc.Relevance))),
			ThreatLevel:        clampInt(rc.ThreatLevel, 1, 10),
			KeyFeatures:        rc.KeyFeatures,
			Positioning:        rc.Positioning,
			OurDifferentiation: strings.TrimSpace(rc.OurDifferentiation),
			Keep:               rc.Keep,
		}

		// Backfill identity from the input candidate when the model omits it.
		if c.Name == "" && i < len(batch) {
			c.Name = batch[i].Name
		}
		if c.Website == "" && i < len(batch) {
			c.Website = batch[i].Website
		}

		if !c.Relevance.Valid() {
			zap.L().Debug("classify: invalid relevance, treating as none",
				zap.String("name", c.Name),
				zap.String("relevance", string(c.Relevance)),
			)
			c.Relevance = model.RelevanceNone
		}

		if !c.Keep || c.Relevance == model.RelevanceNone {
			continue
		}
		kept = append(kept, c)
	}
	return kept, usage, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
