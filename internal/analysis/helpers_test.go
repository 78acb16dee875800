package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/model"
	"github.com/validatehq/idea-cli/internal/resilience"
	"github.com/validatehq/idea-cli/pkg/anthropic"
	"github.com/validatehq/idea-cli/pkg/serper"
)

// stubAnthropicClient returns canned text responses in order, or a fixed
// error. It records every request it receives.
type stubAnthropicClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	errOn     map[int]error // 1-based call number → error for that call
	calls     int
	requests  []anthropic.MessageRequest
}

func (s *stubAnthropicClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if err, ok := s.errOn[s.calls]; ok {
		return nil, err
	}
	text := ""
	if len(s.responses) > 0 {
		text = s.responses[0]
		if len(s.responses) > 1 {
			s.responses = s.responses[1:]
		}
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}, nil
}

// stubSearchClient returns canned results per query, a fixed error for
// queries in failQueries, and records the queries it saw.
type stubSearchClient struct {
	mu          sync.Mutex
	results     map[string][]serper.OrganicResult
	failQueries map[string]error
	queries     []string
}

func (s *stubSearchClient) Search(_ context.Context, query string) (*serper.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if err, ok := s.failQueries[query]; ok {
		return nil, err
	}
	return &serper.SearchResponse{Organic: s.results[query]}, nil
}

func testConfig() config.Config {
	return config.Config{
		Anthropic: config.AnthropicConfig{
			HaikuModel:  "claude-haiku-4-5-20251001",
			SonnetModel: "claude-sonnet-4-5-20250929",
			MaxTokens:   4096,
		},
		Analysis: config.AnalysisConfig{
			BatchSize:  8,
			MaxQueries: 4,
		},
	}
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
	}
}

func testIdea() *model.Idea {
	return &model.Idea{
		ID:          "idea-1",
		Description: "Guided vineyard tours with tastings for wine enthusiasts",
		Context: model.IdeaContext{
			Problem:      "Small wineries struggle to attract visitors",
			Audience:     "Wine enthusiasts",
			Solution:     "Guided vineyard tours with tastings",
			Monetization: "Per-seat tour bookings",
		},
	}
}
