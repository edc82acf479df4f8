package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/astrasemi/astrasemi/internal/cli"
	"github.com/astrasemi/astrasemi/internal/client"

	"github.com/spf13/cobra"
)

var flagConvertType string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run AI analysis workflows against the server",
}

var analyzeCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Analyze a CSV or XLSX production data file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeCSV,
}

var analyzeTextCmd = &cobra.Command{
	Use:   "text <text...>",
	Short: "Interpret shop-floor language in plain terms",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyzeText,
}

var analyzeConvertCmd = &cobra.Command{
	Use:   "convert <text...>",
	Short: "Convert rough notes into an email or status update",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyzeConvert,
}

var analyzeImageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Analyze a wafer map or equipment photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeImage,
}

func init() {
	analyzeConvertCmd.Flags().StringVarP(&flagConvertType, "type", "t", "email", "Output format: email or update")

	analyzeCmd.AddCommand(analyzeCSVCmd)
	analyzeCmd.AddCommand(analyzeTextCmd)
	analyzeCmd.AddCommand(analyzeConvertCmd)
	analyzeCmd.AddCommand(analyzeImageCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// analysisContext allows for slow model responses on large inputs.
func analysisContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 120*time.Second)
}

func runAnalyzeCSV(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	f := client.NewCSVFlow(client.New(serverURL(cfg), nil, nil))
	f.Language = language(cfg)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Analyzing %s (%s)...\n", filepath.Base(args[0]), cli.FormatSize(int64(len(data))))
	}

	ctx, cancel := analysisContext()
	defer cancel()

	res, err := f.Analyze(ctx, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s — %d rows", res.FileName, res.TotalRows)))
	fmt.Println()

	if len(res.DataPreview) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Preview",
			Headers: res.Columns,
			Rows:    res.DataPreview,
		}))
		fmt.Println()
	}

	fmt.Println(cli.RenderMarkdown(res.Analysis))
	return nil
}

func runAnalyzeText(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f := client.NewTextFlow(client.New(serverURL(cfg), nil, nil))
	f.Language = language(cfg)

	ctx, cancel := analysisContext()
	defer cancel()

	res, err := f.Interpret(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderMarkdown(res.Interpretation))
	return nil
}

func runAnalyzeConvert(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	f := client.NewTextFlow(client.New(serverURL(cfg), nil, nil))
	f.Language = language(cfg)

	ctx, cancel := analysisContext()
	defer cancel()

	res, err := f.Convert(ctx, strings.Join(args, " "), flagConvertType)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderMarkdown(res.Converted))
	return nil
}

func runAnalyzeImage(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	f := client.NewImageFlow(client.New(serverURL(cfg), nil, nil))
	f.Language = language(cfg)

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Analyzing %s (%s)...\n", filepath.Base(args[0]), cli.FormatSize(int64(len(data))))
	}

	ctx, cancel := analysisContext()
	defer cancel()

	res, err := f.Analyze(ctx, filepath.Base(args[0]), data)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderMarkdown(res.Analysis))
	return nil
}
