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

// fieldPlaceholder fills core fields the model could not derive from the
// questionnaire.
const fieldPlaceholder = "To be determined through customer discovery"

// SynthesizeCoreFields distills the wizard answers into the four core idea
// fields with a single model call. On success every field is non-empty; gaps
// are backfilled with a constructive placeholder. A failed call or an
// unparseable response degrades to an empty context so the rest of the
// pipeline can still run; only cancellation surfaces as an error.
func SynthesizeCoreFields(
	ctx context.Context,
	ai anthropic.Client,
	cfg config.Config,
	retryCfg resilience.RetryConfig,
	idea *model.Idea,
) (model.IdeaContext, anthropic.TokenUsage, error) {
	var usage anthropic.TokenUsage

	rCfg := retryCfg
	rCfg.OnRetry = resilience.RetryLogger("anthropic", "synthesize")

	resp, err := resilience.DoVal(ctx, rCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     cfg.Anthropic.HaikuModel,
			MaxTokens: int64(cfg.Anthropic.MaxTokens),
			System:    anthropic.BuildCachedSystemBlocks(synthesizeSystemPrompt),
			Messages: []anthropic.Message{
				{Role: "user", Content: buildSynthesizePrompt(idea)},
			},
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return model.IdeaContext{}, usage, eris.Wrap(err, "synthesize: core fields call")
		}
		zap.L().Warn("synthesize: core fields call failed, continuing without", zap.Error(err))
		return model.IdeaContext{}, usage, nil
	}
	usage.Add(resp.Usage)

	var parsed struct {
		Problem      string `json:"problem"`
		Audience     string `json:"audience"`
		Solution     string `json:"solution"`
		Monetization string `json:"monetization"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &parsed); err != nil {
		zap.L().Warn("synthesize: unparseable response, continuing without", zap.Error(err))
		return model.IdeaContext{}, usage, nil
	}

	out := model.IdeaContext{
		Problem:      orPlaceholder(parsed.Problem),
		Audience:     orPlaceholder(parsed.Audience),
		Solution:     orPlaceholder(parsed.Solution),
		Monetization: orPlaceholder(parsed.Monetization),
	}
	zap.L().Debug("synthesize: core fields derived",
		zap.String("problem", out.Problem),
		zap.String("audience", out.Audience),
	)
	return out, usage, nil
}

// GenerateTitle asks the model for a short idea title. On any failure it
// falls back to a truncated slice of the description so a run never ends up
// untitled.
func GenerateTitle(
	ctx context.Context,
	ai anthropic.Client,
	cfg config.Config,
	retryCfg resilience.RetryConfig,
	idea *model.Idea,
) (string, anthropic.TokenUsage) {
	var usage anthropic.TokenUsage

	rCfg := retryCfg
	rCfg.OnRetry = resilience.RetryLogger("anthropic", "title")

	resp, err := resilience.DoVal(ctx, rCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     cfg.Anthropic.HaikuModel,
			MaxTokens: 64,
			System:    []anthropic.SystemBlock{{Text: titleSystemPrompt}},
			Messages: []anthropic.Message{
				{Role: "user", Content: buildTitlePrompt(idea)},
			},
		})
	})
	if err != nil {
		zap.L().Warn("title: generation failed, using fallback", zap.Error(err))
		return fallbackTitle(idea), usage
	}
	usage.Add(resp.Usage)

	title := strings.TrimSpace(resp.Text())
	title = strings.Trim(title, `"'`)
	if title == "" {
		return fallbackTitle(idea), usage
	}
	return title, usage
}

func fallbackTitle(idea *model.Idea) string {
	source := idea.Context.Solution
	if source == "" {
		source = idea.Description
	}
	source = strings.TrimSpace(source)
	if source == "" {
		return "Untitled Idea"
	}
	words := strings.Fields(source)
	if len(words) > 8 {
		words = words[:8]
	}
	return strings.Join(words, " ")
}

func orPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fieldPlaceholder
	}
	return s
}
