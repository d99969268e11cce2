package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/nabsearch/internal/app"
	"github.com/five82/nabsearch/internal/bytesize"
	"github.com/five82/nabsearch/internal/newznab"
	"github.com/five82/nabsearch/internal/session"
)

func newCategoriesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the indexer's searchable categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Bootstrap(flags.options())
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			cats, err := env.Session.FetchCategories(cmd.Context())
			if err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var (
		cats     []string
		apiKey   string
		remember bool
		limit    int
		offset   int
		maxAge   int
	)

	cmd := &cobra.Command{
		Use:   "search [flags] <query...>",
		Short: "Search the indexer and print matching releases",
		Example: `  nabsearch search --cat 2040 --cat 2045 ubuntu
  nabsearch search --cat 5030,5040 --apikey abc123 --remember some show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			opts.Limit = limit
			env, err := app.Bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			stored := env.Session.LoadPreferences()
			req := session.Request{
				Query:       strings.Join(args, " "),
				CategoryIDs: cats,
				APIKey:      apiKey,
				Remember:    stored.Remember,
				Offset:      offset,
				MaxAge:      maxAge,
			}
			if strings.TrimSpace(req.APIKey) == "" {
				req.APIKey = stored.APIKey
			}
			if cmd.Flags().Changed("remember") {
				req.Remember = remember
			}

			if err := env.Session.Search(cmd.Context(), req); err != nil {
				return err
			}
			printResults(cmd.OutOrStdout(), env.Session.Snapshot().Results)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&cats, "cat", nil, "category id to search (repeatable or comma separated)")
	f.StringVar(&apiKey, "apikey", "", "indexer API key (default: the remembered key)")
	f.BoolVar(&remember, "remember", false, "store the API key after a successful search; --remember=false forgets it")
	f.IntVar(&limit, "limit", 0, "maximum number of results (default: result_limit)")
	f.IntVar(&offset, "offset", 0, "skip this many results")
	f.IntVar(&maxAge, "maxage", 0, "only releases posted within this many days")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...)
}

func printCategories(w io.Writer, cats []newznab.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	t := newTable("ID", "Name")
	for _, c := range cats {
		t.Row(c.ID, c.Name)
	}
	fmt.Fprintln(w, t.String())
}

func printResults(w io.Writer, results []newznab.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	t := newTable("Title", "Category", "Size", "Published")
	for _, r := range results {
		t.Row(r.Title, r.Category, bytesize.Format(r.Size), r.PublishedText())
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d results\n", len(results))
}
