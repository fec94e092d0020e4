package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/misparia/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the player's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyze, _ := cmd.Flags().GetBool("analyze")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		out := cmd.OutOrStdout()
		tracker := rt.Services.Stats
		st := tracker.Stats()
		printStats(out, st)

		if !analyze {
			return nil
		}
		fmt.Fprintln(out)
		report := rt.Services.Oracle.Analyze(cmd.Context(), st)
		fmt.Fprintln(out, report.Text)
		if report.Generated {
			return tracker.MarkAnalyzed(cmd.Context(), time.Now())
		}
		return nil
	},
}

func printStats(out io.Writer, st stats.UserStats) {
	fmt.Fprintf(out, "XP:       %d\n", st.XP)
	fmt.Fprintf(out, "Coins:    %d\n", st.Coins)
	fmt.Fprintf(out, "Answers:  %d (%d correct, %d%%)\n", st.GamesPlayed, st.CorrectAnswers, st.Accuracy())
	if st.LastAnalysis != nil {
		fmt.Fprintf(out, "Analyzed: %s\n", st.LastAnalysis.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(out, strings.Repeat("─", 32))
	fmt.Fprintln(out, stats.Summary(st))
}

func init() {
	statsCmd.Flags().Bool("analyze", false, "Ask the oracle for a progress report")
}
