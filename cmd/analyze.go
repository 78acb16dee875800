package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/model"
)

type analyzeOptions struct {
	ideaID        string
	text          string
	title         string
	answersFile   string
	questionsFile string
	demoFile      string
}

var analyzeFlags analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis pipeline for one idea",
	Long:  "Runs synthesis, competitor discovery and classification, risk scoring, and titling for a single idea, stores the result, and prints it as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		idea, err := buildIdea()
		if err != nil {
			return err
		}

		pipeline, st, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		zap.L().Info("analyze: starting run",
			zap.String("idea_id", idea.ID),
		)
		result, err := pipeline.Run(cmd.Context(), idea)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "analyze: marshal result")
		}
		fmt.Println(string(out))
		return nil
	},
}

func buildIdea() (*model.Idea, error) {
	if analyzeFlags.text == "" {
		return nil, eris.New("analyze: --text is required")
	}

	idea := &model.Idea{
		ID:          analyzeFlags.ideaID,
		Title:       analyzeFlags.title,
		Description: analyzeFlags.text,
	}
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}

	if analyzeFlags.answersFile != "" {
		if err := readJSONFile(analyzeFlags.answersFile, &idea.Answers); err != nil {
			return nil, eris.Wrap(err, "analyze: read answers")
		}
	}
	if analyzeFlags.questionsFile != "" {
		if err := readJSONFile(analyzeFlags.questionsFile, &idea.QuestionText); err != nil {
			return nil, eris.Wrap(err, "analyze: read questions")
		}
	}
	if analyzeFlags.demoFile != "" {
		if err := readJSONFile(analyzeFlags.demoFile, &idea.DemoBaseline); err != nil {
			return nil, eris.Wrap(err, "analyze: read demo baseline")
		}
	}
	return idea, nil
}

func readJSONFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.ideaID, "idea-id", "", "idea identifier (generated when omitted)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.text, "text", "", "idea description text (required)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.title, "title", "", "idea title (generated when omitted)")
	analyzeCmd.Flags().StringVar(&analyzeFlags.answersFile, "answers", "", "path to a JSON file of wizard answers")
	analyzeCmd.Flags().StringVar(&analyzeFlags.questionsFile, "questions", "", "path to a JSON file mapping question ids to text")
	analyzeCmd.Flags().StringVar(&analyzeFlags.demoFile, "demo", "", "path to a JSON file of demo baseline category scores")
	rootCmd.AddCommand(analyzeCmd)
}
