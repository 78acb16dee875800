package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
	"github.com/validatehq/idea-cli/pkg/serper"
)

// BuildSearchQueries derives the bounded competitor-search query set for an
// idea: two base queries from the solution/idea text, then up to two context
// queries from wizard answers (audience, location, and a B2B signal), capped
// at max.
func BuildSearchQueries(idea *model.Idea, max int) []string {
	if max <= 0 {
		max = 4
	}

	subject := condense(idea.Context.Solution, 8)
	if subject == "" {
		subject = condense(idea.Description, 8)
	}
	if subject == "" {
		return nil
	}

	queries := []string{
		subject + " competitors",
		subject + " alternatives",
	}

	var contextQueries []string
	if audience, ok := FindAnswer(idea.Answers, "target", "customer", "audience"); ok {
		contextQueries = append(contextQueries, subject+" for "+condense(audience, 6))
	}
	if location, ok := FindAnswer(idea.Answers, "location", "geographic", "market"); ok {
		contextQueries = append(contextQueries, subject+" "+condense(location, 4))
	}
	if businessType, ok := FindAnswer(idea.Answers, "business_type", "business type"); ok {
		if strings.Contains(strings.ToLower(businessType), "b2b") {
			contextQueries = append(contextQueries, "B2B "+subject+" providers")
		}
	}

	for _, q := range contextQueries {
		if len(queries) >= max {
			break
		}
		queries = append(queries, q)
	}
	if len(queries) > max {
		queries = queries[:max]
	}
	return queries
}

// DiscoverCompetitors issues the query set concurrently against the search
// collaborator and returns deduplicated raw candidates. A failing individual
// query degrades to an empty result set; discovery itself never fails.
func DiscoverCompetitors(
	ctx context.Context,
	idea *model.Idea,
	search serper.Client,
	names *NameExtractor,
	retryCfg resilience.RetryConfig,
	maxQueries int,
) []model.CompetitorCandidate {
	queries := BuildSearchQueries(idea, maxQueries)
	if len(queries) == 0 {
		return nil
	}

	results := make([][]model.CompetitorCandidate, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			cfg := retryCfg
			cfg.OnRetry = resilience.RetryLogger("serper", "search")

			resp, err := resilience.DoVal(gCtx, cfg, func(ctx context.Context) (*serper.SearchResponse, error) {
				return search.Search(ctx, query)
			})
			if err != nil {
				zap.L().Warn("discover: search query failed",
					zap.String("query", query),
					zap.Error(err),
				)
				return nil
			}

			candidates := make([]model.CompetitorCandidate, 0, len(resp.Organic))
			for _, hit := range resp.Organic {
				if hit.Link == "" && hit.Title == "" {
					continue
				}
				candidates = append(candidates, model.CompetitorCandidate{
					Name:        names.Extract(hit.Title, hit.Link),
					Website:     hit.Link,
					Description: hit.Snippet,
					Source:      query,
				})
			}
			results[i] = candidates
			return nil
		})
	}
	_ = g.Wait()

	var all []model.CompetitorCandidate
	for _, r := range results {
		all = append(all, r...)
	}

	deduped := DedupeCandidates(all)
	zap.L().Info("discover: competitor discovery complete",
		zap.Int("queries", len(queries)),
		zap.Int("raw_hits", len(all)),
		zap.Int("candidates", len(deduped)),
	)
	return deduped
}

// condense reduces free text to its first n whitespace-separated words.
func condense(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
