package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

var (
	historyJSON  bool
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect browsing history",
	RunE:  runHistoryList,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.PersistentFlags().IntVar(&historyLimit, "limit", 25, "maximum entries to show")
}

func runHistoryList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	entries, err := app.History.Recent(app.Ctx(), historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VISITS\tLAST VISITED\tTITLE\tURL")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.VisitCount,
			e.LastVisited.Format("2006-01-02 15:04"),
			title,
			e.URL,
		)
	}
	return w.Flush()
}

// history search <term>
var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search history by URL or title",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

func init() {
	historyCmd.AddCommand(historySearchCmd)
}

func runHistorySearch(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	entries, err := app.History.Search(app.Ctx(), args[0], historyLimit)
	if err != nil {
		return fmt.Errorf("search history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No matching history entries found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VISITS\tLAST VISITED\tTITLE\tURL")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.VisitCount,
			e.LastVisited.Format("2006-01-02 15:04"),
			title,
			e.URL,
		)
	}
	return w.Flush()
}

// history top
var historyTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the most visited sites",
	RunE:  runHistoryTop,
}

func init() {
	historyCmd.AddCommand(historyTopCmd)
}

func runHistoryTop(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	var (
		ranks []entity.SiteRank
		stats *entity.HistoryStats
	)

	g, ctx := errgroup.WithContext(app.Ctx())
	g.Go(func() error {
		var err error
		ranks, err = app.History.TopSites(ctx, historyLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = app.History.Stats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("query history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Sites []entity.SiteRank    `json:"sites"`
			Stats *entity.HistoryStats `json:"stats"`
		}{ranks, stats})
	}

	if len(ranks) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RANK\tHOST\tVISITS")
	for i, r := range ranks {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, r.Host, r.Visits)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d entries, %d total visits\n", stats.TotalEntries, stats.TotalVisits)
	return nil
}
