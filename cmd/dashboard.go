package cmd

import (
	"fmt"
	"time"

	"github.com/astrasemi/astrasemi/internal/analytics"
	"github.com/astrasemi/astrasemi/internal/config"
	"github.com/astrasemi/astrasemi/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagDashRefresh time.Duration

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive analytics dashboard",
	RunE:    runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&flagDashRefresh, "refresh", 2*time.Second, "Summary refresh interval")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	cfg, _ := loadConfig()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	store, err := analytics.Open(config.ActivityDBPath())
	if err != nil {
		return fmt.Errorf("opening activity store: %w", err)
	}
	defer func() { _ = store.Close() }()

	app := tui.NewApp(store, cfg.Appearance.Theme, flagDashRefresh)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	return nil
}
