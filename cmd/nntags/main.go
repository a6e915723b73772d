package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/gravitrone/nntags/internal/cmd"
	"github.com/gravitrone/nntags/internal/config"
	"github.com/gravitrone/nntags/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:   "nntags",
		Short: "nntags - link records to a host record",
		Long:  "nntags: browse candidate records as tags and link or unlink them from a host record through a many-to-many relationship.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(cmd.LoginCmd())
	root.AddCommand(cmd.LinksCmd())
	root.AddCommand(cmd.ToggleCmd())
	root.AddCommand(cmd.ResolveCmd())

	err := root.Execute()
	glog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func runTUI() error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Println("not logged in. run 'nntags login' first.")
		}
		return err
	}

	glog.Infof("starting tui for %s(%s) via %s", cfg.HostEntity, cfg.HostID, cfg.RelationshipName)
	app := ui.NewApp(cmd.NewClient(cfg), cfg)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
