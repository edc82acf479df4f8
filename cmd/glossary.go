package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/astrasemi/astrasemi/internal/cli"
	"github.com/astrasemi/astrasemi/internal/client"

	"github.com/spf13/cobra"
)

var flagGlossaryCategory string

var glossaryCmd = &cobra.Command{
	Use:   "glossary [query]",
	Short: "Search the semiconductor glossary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGlossarySearch,
}

var glossaryTermCmd = &cobra.Command{
	Use:   "term <id>",
	Short: "Show one glossary term with an AI explanation",
	Args:  cobra.ExactArgs(1),
	RunE:  runGlossaryTerm,
}

func init() {
	glossaryCmd.PersistentFlags().StringVar(&flagGlossaryCategory, "category", "", "Filter by category")
	glossaryCmd.AddCommand(glossaryTermCmd)
	rootCmd.AddCommand(glossaryCmd)
}

func runGlossarySearch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	c := client.New(serverURL(cfg), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type outcome struct {
		res client.SearchResult
		err error
	}
	resCh := make(chan outcome, 1)

	s := client.NewSearcher(ctx, c, client.DebounceDelay, func(res client.SearchResult, err error) {
		resCh <- outcome{res, err}
	})
	defer s.Close()

	s.SetQuery(query, flagGlossaryCategory)
	s.Flush()

	var out outcome
	select {
	case out = <-resCh:
	case <-ctx.Done():
		return ctx.Err()
	}
	if out.err != nil {
		return fmt.Errorf("searching glossary: %w", out.err)
	}

	if len(out.res.Terms) == 0 {
		fmt.Println("  No matching terms.")
		return nil
	}

	rows := make([][]string, 0, len(out.res.Terms))
	for _, t := range out.res.Terms {
		rows = append(rows, []string{t.ID, t.Category, t.Term, t.ShortDefinition})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Glossary (%d terms)", len(out.res.Terms)),
		Headers: []string{"ID", "Category", "Term", "Definition"},
		Rows:    rows,
	}))
	fmt.Printf("  Categories: %s\n", strings.Join(out.res.Categories, ", "))
	return nil
}

func runGlossaryTerm(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c := client.New(serverURL(cfg), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	term, err := c.GetTerm(ctx, args[0])
	if err != nil {
		return fmt.Errorf("fetching term: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(term.Term))
	fmt.Printf("\n  Category: %s\n\n  %s\n", term.Category, term.DetailedDefinition)
	if len(term.UseCases) > 0 {
		fmt.Println("\n  Use cases:")
		for _, u := range term.UseCases {
			fmt.Printf("    - %s\n", u)
		}
	}

	// Fetch the AI explanation and related terms concurrently.
	f := client.NewDetailFlow(c)
	f.Language = language(cfg)

	done := make(chan struct{}, 2)
	f.Open(ctx, term, func() { done <- struct{}{} })
	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	st := f.State()
	if st.ExplanationErr != nil {
		fmt.Printf("\n  AI explanation unavailable: %v\n", st.ExplanationErr)
	} else if st.Explanation != "" {
		fmt.Println()
		fmt.Println(cli.RenderMarkdown(st.Explanation))
	}
	if st.RelatedErr == nil && len(st.Related) > 0 {
		fmt.Printf("\n  Related: %s\n", strings.Join(st.Related, ", "))
	}
	return nil
}
