package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildIdea_RequiresText(t *testing.T) {
	analyzeFlags.text = ""
	_, err := buildIdea()
	require.Error(t, err)
}

func TestBuildIdea_GeneratesID(t *testing.T) {
	analyzeFlags = analyzeOptions{text: "vineyard tours"}

	idea, err := buildIdea()
	require.NoError(t, err)
	assert.NotEmpty(t, idea.ID)
	assert.Equal(t, "vineyard tours", idea.Description)
}

func TestBuildIdea_LoadsFiles(t *testing.T) {
	analyzeFlags = analyzeOptions{
		ideaID:        "idea-1",
		text:          "vineyard tours",
		title:         "Tours",
		answersFile:   writeTempJSON(t, "answers.json", `{"target_customer": "wine lovers", "budget": 5000}`),
		questionsFile: writeTempJSON(t, "questions.json", `{"target_customer": "Who is your customer?"}`),
		demoFile:      writeTempJSON(t, "demo.json", `{"competition_level": 6.5}`),
	}

	idea, err := buildIdea()
	require.NoError(t, err)
	assert.Equal(t, "idea-1", idea.ID)
	assert.Equal(t, "Tours", idea.Title)
	assert.Equal(t, "wine lovers", idea.Answers["target_customer"])
	assert.Equal(t, "Who is your customer?", idea.QuestionText["target_customer"])
	assert.Equal(t, 6.5, idea.DemoBaseline["competition_level"])
}

func TestBuildIdea_BadAnswersFile(t *testing.T) {
	analyzeFlags = analyzeOptions{
		text:        "vineyard tours",
		answersFile: writeTempJSON(t, "answers.json", `not json`),
	}

	_, err := buildIdea()
	require.Error(t, err)
}
