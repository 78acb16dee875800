package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/validatehq/idea-cli/internal/store"
)

var runsFlags struct {
	limit int
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(cmd.Context(), runsFlags.limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s  %-8s  idea=%s  %s", r.ID, r.Status, r.IdeaID, r.UpdatedAt.Format("2006-01-02 15:04:05"))
			if r.Error != "" {
				line += "  error=" + r.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <idea-id>",
	Short: "Print the stored analysis result for an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := st.GetResult(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if result == nil {
			return eris.Errorf("no result stored for idea %s", args[0])
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "result: marshal")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsFlags.limit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(resultCmd)
}
