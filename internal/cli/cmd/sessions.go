package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/neuralweb/neuralweb/internal/cli/model"
	"github.com/neuralweb/neuralweb/internal/domain/entity"
)

var sessionsJSON bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved window sessions",
	Long: `View and manage saved window sessions.

A snapshot of every window's tabs and groups is saved automatically
while the shell runs, and restored on the next launch.

Run without arguments to open the interactive session browser.`,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewSessionsModel(app.Ctx(), app.Theme, app.SessionState)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// sessions list
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved window snapshots",
	RunE:  runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output as JSON")
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	snapshots, err := app.SessionState.ListSnapshots(app.Ctx())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if sessionsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	return outputSnapshotsTable(snapshots)
}

func outputSnapshotsTable(snapshots []*entity.SessionState) error {
	if len(snapshots) == 0 {
		fmt.Println("No saved sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WINDOW\tTABS\tGROUPS\tSAVED")

	for _, snap := range snapshots {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
			snap.WindowID,
			len(snap.Tabs),
			len(snap.Groups),
			snap.SavedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

// sessions delete <window-id>
var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <window-id>",
	Short: "Delete a window's saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}

		windowID := entity.WindowID(args[0])
		if err := app.SessionState.DeleteSnapshot(app.Ctx(), windowID); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		fmt.Printf("Snapshot for window %s deleted.\n", windowID)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
