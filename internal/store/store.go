package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/validatehq/idea-cli/internal/config"
	"github.com/validatehq/idea-cli/internal/model"
)

// Store persists analysis runs and their results.
type Store interface {
	// Migrate creates or upgrades the schema.
	Migrate(ctx context.Context) error

	// CreateRun inserts a new pending run for an idea and returns its ID.
	CreateRun(ctx context.Context, ideaID string) (string, error)

	// UpdateRunStatus transitions a run. Message carries the failure reason
	// for failed runs and is empty otherwise.
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, message string) error

	// SaveResult upserts the analysis result for an idea and replaces its
	// stored competitor set atomically.
	SaveResult(ctx context.Context, ideaID string, result *model.AnalysisResult) error

	// GetResult loads the latest stored result for an idea, or a nil result
	// when none exists.
	GetResult(ctx context.Context, ideaID string) (*model.AnalysisResult, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Close() error
}

// Open constructs the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.DatabaseURL
		if path == "" {
			path = "idea-cli.db"
		}
		return OpenSQLite(ctx, path)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
