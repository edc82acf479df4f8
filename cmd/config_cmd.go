package cmd

import (
	"fmt"

	"github.com/astrasemi/astrasemi/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:          %s\n", cfg.Server.Addr)
	fmt.Printf("    Default language: %s\n", cfg.Server.DefaultLanguage)
	fmt.Println()

	fmt.Println("  [OpenAI]")
	apiKey := config.GetAPIKey(cfg)
	if apiKey != "" {
		fmt.Printf("    API key:    %s\n", maskAPIKey(apiKey))
	} else {
		fmt.Println("    API key:    not configured")
	}
	fmt.Printf("    Model:      %s\n", cfg.OpenAI.Model)
	fmt.Printf("    Max tokens: %d\n", cfg.OpenAI.MaxTokens)
	if cfg.OpenAI.BaseURL != "" {
		fmt.Printf("    Base URL:   %s\n", cfg.OpenAI.BaseURL)
	}
	fmt.Println()

	fmt.Println("  [Uploads]")
	fmt.Printf("    Max CSV size:   %d MB\n", cfg.Uploads.MaxCSVMB)
	fmt.Printf("    Max image size: %d MB\n", cfg.Uploads.MaxImageMB)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `astrasemi setup` to reconfigure.")
	return nil
}
