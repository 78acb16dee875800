package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/validatehq/idea-cli/internal/model"
)

func TestSynthesizeCoreFields(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{"```json\n" + `{
		"problem": "Wineries lack direct bookings",
		"audience": "Wine tourists",
		"solution": "A tour marketplace",
		"monetization": "Commission per booking"
	}` + "\n```"}}

	idea := testIdea()
	idea.Answers = model.WizardAnswers{"q1": "answer"}

	fields, usage, err := SynthesizeCoreFields(context.Background(), ai, testConfig(), fastRetry(), idea)
	require.NoError(t, err)
	assert.Equal(t, "Wineries lack direct bookings", fields.Problem)
	assert.Equal(t, "Wine tourists", fields.Audience)
	assert.Equal(t, "A tour marketplace", fields.Solution)
	assert.Equal(t, "Commission per booking", fields.Monetization)
	assert.Positive(t, usage.InputTokens)
}

func TestSynthesizeCoreFields_BackfillsEmptyFields(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{`{"problem": "P", "audience": "", "solution": "S"}`}}

	fields, _, err := SynthesizeCoreFields(context.Background(), ai, testConfig(), fastRetry(), testIdea())
	require.NoError(t, err)
	assert.Equal(t, "P", fields.Problem)
	assert.Equal(t, fieldPlaceholder, fields.Audience)
	assert.Equal(t, "S", fields.Solution)
	assert.Equal(t, fieldPlaceholder, fields.Monetization)
}

func TestSynthesizeCoreFields_ParseFailureDegrades(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{"not json"}}

	fields, usage, err := SynthesizeCoreFields(context.Background(), ai, testConfig(), fastRetry(), testIdea())
	require.NoError(t, err)
	assert.True(t, fields.IsEmpty())
	assert.Positive(t, usage.InputTokens)
}

func TestSynthesizeCoreFields_CallFailureDegrades(t *testing.T) {
	ai := &stubAnthropicClient{err: assert.AnError}

	fields, _, err := SynthesizeCoreFields(context.Background(), ai, testConfig(), fastRetry(), testIdea())
	require.NoError(t, err)
	assert.True(t, fields.IsEmpty())
}

func TestSynthesizeCoreFields_CanceledContext(t *testing.T) {
	ai := &stubAnthropicClient{err: context.Canceled}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := SynthesizeCoreFields(ctx, ai, testConfig(), fastRetry(), testIdea())
	assert.Error(t, err)
}

func TestGenerateTitle(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{`"Vineyard Tour Marketplace"` + "\n"}}

	title, usage := GenerateTitle(context.Background(), ai, testConfig(), fastRetry(), testIdea())
	assert.Equal(t, "Vineyard Tour Marketplace", title)
	assert.Positive(t, usage.OutputTokens)
}

func TestGenerateTitle_FallsBackOnFailure(t *testing.T) {
	ai := &stubAnthropicClient{err: assert.AnError}

	idea := testIdea()
	title, _ := GenerateTitle(context.Background(), ai, testConfig(), fastRetry(), idea)
	assert.Equal(t, "Guided vineyard tours with tastings", title)
}

func TestGenerateTitle_FallbackTruncatesToEightWords(t *testing.T) {
	ai := &stubAnthropicClient{err: assert.AnError}

	idea := testIdea()
	idea.Context.Solution = "one two three four five six seven eight nine ten"
	title, _ := GenerateTitle(context.Background(), ai, testConfig(), fastRetry(), idea)
	assert.Equal(t, "one two three four five six seven eight", title)
}

func TestGenerateTitle_EmptyResponseFallsBack(t *testing.T) {
	ai := &stubAnthropicClient{responses: []string{"   "}}

	idea := testIdea()
	idea.Context.Solution = ""
	title, _ := GenerateTitle(context.Background(), ai, testConfig(), fastRetry(), idea)
	assert.Equal(t, "Guided vineyard tours with tastings for wine enthusiasts", title)
}
