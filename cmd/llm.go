package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/misparia/internal/llm"
	"github.com/abhisek/misparia/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect oracle request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent oracle calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No oracle events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one oracle call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printEvent(out io.Writer, e *store.LLMRequestEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(out, "ID:        %d\n", e.ID)
	fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(out, "Model:     %s\n", e.Model)
	fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(out, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ label, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, part.label)
		fmt.Fprintln(out, sep)
		if part.body == "" {
			fmt.Fprintln(out, "(not captured)")
			continue
		}
		fmt.Fprintln(out, part.body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated oracle token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No oracle usage recorded yet.")
			return nil
		}
		printUsage(out, byPurpose)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(out)
			printCost(out, byModel)
		}
		return nil
	},
}

func printUsage(out io.Writer, usage []store.UsageStat) {
	fmt.Fprintln(out, "Usage by Purpose")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(out, strings.Repeat("─", 72))

	var calls, in, outTok int
	for _, u := range usage {
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			u.Key, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		outTok += u.OutputTokens
	}

	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, outTok, in+outTok)
}

func printCost(out io.Writer, usage []store.UsageStat) {
	fmt.Fprintln(out, "Estimated Cost (USD)")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(out, strings.Repeat("─", 72))

	var total float64
	var unknown []string
	for _, u := range usage {
		cost := llm.LookupCost(u.Key)
		if cost == nil {
			unknown = append(unknown, u.Key)
			fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %9s\n",
			truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(out, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))

	if len(unknown) > 0 {
		fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "",
		fmt.Sprintf("Filter by purpose (%s, %s, %s, %s)", llm.PurposeProblem, llm.PurposeTutor, llm.PurposeAnalysis, llm.PurposeKeyCheck))

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
