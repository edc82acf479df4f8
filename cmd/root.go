// Package cmd wires up the astrasemi command-line interface.
package cmd

import (
	"os"

	"github.com/astrasemi/astrasemi/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagServer   string
	flagLanguage string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "astrasemi",
	Short: "Semiconductor workflow assistant",
	Long:  "Analyze production data, interpret shop-floor language, and browse the semiconductor glossary.",
	RunE:  runActivity,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Server base URL (default: from config)")
	rootCmd.PersistentFlags().StringVarP(&flagLanguage, "language", "l", "", "Response language (default: from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig is the shared config loading path used by all commands.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// serverURL resolves the base URL client commands talk to.
func serverURL(cfg config.Config) string {
	if flagServer != "" {
		return flagServer
	}
	return "http://" + cfg.Server.Addr
}

// language resolves the response language for AI-backed commands.
func language(cfg config.Config) string {
	if flagLanguage != "" {
		return flagLanguage
	}
	return cfg.Server.DefaultLanguage
}
