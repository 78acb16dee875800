package analysis

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/validatehq/idea-cli/internal/model"
)

// mockStore is a testify mock of the store.Store interface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) CreateRun(ctx context.Context, ideaID string) (string, error) {
	args := m.Called(ctx, ideaID)
	return args.String(0), args.Error(1)
}

func (m *mockStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, message string) error {
	return m.Called(ctx, runID, status, message).Error(0)
}

func (m *mockStore) SaveResult(ctx context.Context, ideaID string, result *model.AnalysisResult) error {
	return m.Called(ctx, ideaID, result).Error(0)
}

func (m *mockStore) GetResult(ctx context.Context, ideaID string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, ideaID)
	if res := args.Get(0); res != nil {
		return res.(*model.AnalysisResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	args := m.Called(ctx, limit)
	if runs := args.Get(0); runs != nil {
		return runs.([]model.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
