package analysis

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
	"github.com/validatehq/idea-cli/internal/store"
	"github.com/validatehq/idea-cli/pkg/anthropic"
	"github.com/validatehq/idea-cli/pkg/serper"
)

// Pipeline orchestrates a full idea analysis: core-field synthesis,
// competitor discovery, classification, risk assessment, titling, and
// persistence.
type Pipeline struct {
	cfg    config.Config
	store  store.Store
	search serper.Client
	ai     anthropic.Client
	names  *NameExtractor
	retry  resilience.RetryConfig
}

// New assembles a pipeline from its collaborators.
func New(cfg config.Config, st store.Store, search serper.Client, ai anthropic.Client) *Pipeline {
	retryCfg := resilience.DefaultRetryConfig()
	if cfg.Retry.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.Retry.MaxRetries
	}
	if cfg.Retry.InitialBackoffMS > 0 {
		retryCfg.InitialBackoff = time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond
	}
	if cfg.Retry.MaxBackoffMS > 0 {
		retryCfg.MaxBackoff = time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond
	}

	return &Pipeline{
		cfg:    cfg,
		store:  st,
		search: search,
		ai:     ai,
		names:  NewNameExtractor(cfg.Analysis),
		retry:  retryCfg,
	}
}

// Run executes the full pipeline for one idea and returns the stored result.
// The run record tracks progress; a failure marks the run failed with its
// reason before the error is returned.
func (p *Pipeline) Run(ctx context.Context, idea *model.Idea) (*model.AnalysisResult, error) {
	runID, err := p.store.CreateRun(ctx, idea.ID)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	if err := p.store.UpdateRunStatus(ctx, runID, model.RunStatusRunning, ""); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark run running")
	}

	result, err := p.analyze(ctx, idea)
	if err != nil {
		p.markFailed(ctx, runID, err)
		return nil, err
	}

	if err := p.store.SaveResult(ctx, idea.ID, result); err != nil {
		p.markFailed(ctx, runID, err)
		return nil, eris.Wrap(err, "pipeline: save result")
	}
	if err := p.store.UpdateRunStatus(ctx, runID, model.RunStatusComplete, ""); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark run complete")
	}
	return result, nil
}

// markFailed records the terminal status on a detached context so a canceled
// run is never left stuck at running.
func (p *Pipeline) markFailed(ctx context.Context, runID string, cause error) {
	if err := p.store.UpdateRunStatus(context.WithoutCancel(ctx), runID, model.RunStatusFailed, cause.Error()); err != nil {
		zap.L().Error("pipeline: failed to mark run failed", zap.Error(err))
	}
}

func (p *Pipeline) analyze(ctx context.Context, idea *model.Idea) (*model.AnalysisResult, error) {
	var haikuUsage, sonnetUsage anthropic.TokenUsage

	// Core-field synthesis. Wizard answers, when present, are authoritative
	// over any previously stored field values.
	if len(idea.Answers) > 0 {
		done := p.trackStage("synthesize")
		fields, usage, err := SynthesizeCoreFields(ctx, p.ai, p.cfg, p.retry, idea)
		haikuUsage.Add(usage)
		done()
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: synthesize core fields")
		}
		idea.Context = fields
	} else if idea.Context.IsEmpty() {
		idea.Context.Solution = idea.Description
	}

	done := p.trackStage("discover")
	candidates := DiscoverCompetitors(ctx, idea, p.search, p.names, p.retry, p.cfg.Analysis.MaxQueries)
	done()

	done = p.trackStage("classify")
	competitors, classifyUsage := ClassifyCompetitors(ctx, p.ai, p.cfg, p.retry, idea, candidates)
	haikuUsage.Add(classifyUsage)
	done()

	done = p.trackStage("risk")
	riskAnalysis, insights, riskUsage, err := AnalyzeRisk(ctx, p.ai, p.cfg, p.retry, idea, competitors)
	sonnetUsage.Add(riskUsage)
	done()
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: risk analysis")
	}

	title := idea.Title
	if title == "" {
		done = p.trackStage("title")
		var titleUsage anthropic.TokenUsage
		title, titleUsage = GenerateTitle(ctx, p.ai, p.cfg, p.retry, idea)
		haikuUsage.Add(titleUsage)
		done()
	}

	haikuUsage.LogCost(p.cfg.Anthropic.HaikuModel, "synthesize+classify+title")
	sonnetUsage.LogCost(p.cfg.Anthropic.SonnetModel, "risk")

	return &model.AnalysisResult{
		Problem:      idea.Context.Problem,
		Audience:     idea.Context.Audience,
		Solution:     idea.Context.Solution,
		Monetization: idea.Context.Monetization,
		Title:        title,
		Score:        viabilityScore(riskAnalysis.OverallScore),
		RiskScore:    riskAnalysis.OverallScore,
		RiskAnalysis: riskAnalysis,
		AIInsights:   insights,
		Competitors:  competitors,
	}, nil
}

// viabilityScore converts the 0-10 risk score into the 0-100 viability scale
// where higher is better.
func viabilityScore(overall float64) int {
	return int(math.Round((10 - overall) * 10))
}

func (p *Pipeline) trackStage(stage string) func() {
	start := time.Now()
	zap.L().Info("pipeline: stage started", zap.String("stage", stage))
	return func() {
		zap.L().Info("pipeline: stage finished",
			zap.String("stage", stage),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
