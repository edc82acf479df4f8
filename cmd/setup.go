package cmd

import (
	"fmt"
	"strings"

	"github.com/astrasemi/astrasemi/internal/config"
	"github.com/astrasemi/astrasemi/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := loadConfig()

	apiKey := ""
	addr := cfg.Server.Addr
	lang := cfg.Server.DefaultLanguage
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	keyTitle := "OpenAI API key"
	if existing := config.GetAPIKey(cfg); existing != "" {
		keyTitle = fmt.Sprintf("OpenAI API key (current: %s)", maskAPIKey(existing))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(keyTitle).
				Description("Used for analysis, interpretation, and glossary explanations. Leave blank to keep the current key.").
				Placeholder("sk-...").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Server listen address").
				Value(&addr),
			huh.NewInput().
				Title("Default response language").
				Description("Language the AI answers in, e.g. English or Korean.").
				Value(&lang),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if key := strings.TrimSpace(apiKey); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if addr = strings.TrimSpace(addr); addr != "" {
		cfg.Server.Addr = addr
	}
	if lang = strings.TrimSpace(lang); lang != "" {
		cfg.Server.DefaultLanguage = lang
	}
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `astrasemi setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
