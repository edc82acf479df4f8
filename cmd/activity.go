package cmd

import (
	"fmt"

	"github.com/astrasemi/astrasemi/internal/analytics"
	"github.com/astrasemi/astrasemi/internal/cli"
	"github.com/astrasemi/astrasemi/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var flagActivityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent analysis activity and summary stats",
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().IntVarP(&flagActivityLimit, "limit", "n", 15, "Max entries to show")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(_ *cobra.Command, _ []string) error {
	store, err := analytics.Open(config.ActivityDBPath())
	if err != nil {
		return fmt.Errorf("opening activity store: %w", err)
	}
	defer func() { _ = store.Close() }()

	sum, err := store.Summary()
	if err != nil {
		return fmt.Errorf("reading summary: %w", err)
	}

	trend := analytics.TrendPercent(sum.WeeklyCount, sum.PreviousWeekCount)

	fmt.Println()
	fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
		cli.RenderStatCard("Analyses", cli.FormatNumber(int64(sum.TotalCount)), ""),
		cli.RenderStatCard("This Week", cli.FormatNumber(int64(sum.WeeklyCount)), cli.FormatTrend(trend)+" vs last week"),
		cli.RenderStatCard("Avg Time", cli.FormatElapsed(sum.AvgProcessingSecs), ""),
		cli.RenderStatCard("Uptime", fmt.Sprintf("%.1f%%", sum.UptimePercent), "success rate"),
	))
	fmt.Println()

	if len(sum.Entries) == 0 {
		fmt.Println("  No activity recorded yet.")
		return nil
	}

	limit := flagActivityLimit
	if limit <= 0 || limit > len(sum.Entries) {
		limit = len(sum.Entries)
	}

	rows := make([][]string, 0, limit)
	for _, e := range sum.Entries[:limit] {
		rows = append(rows, []string{
			cli.FormatTimeAgo(e.Timestamp),
			string(e.Category),
			string(e.Status),
			cli.FormatElapsed(e.ElapsedSecs),
			e.Title,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Recent Activity",
		Headers: []string{"When", "Category", "Status", "Time", "Title"},
		Rows:    rows,
	}))
	return nil
}
