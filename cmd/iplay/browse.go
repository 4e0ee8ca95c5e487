package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse albums interactively",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	site := current.engine.Session().Active()
	if site == nil {
		return errors.New(domain.MsgNoSite + ": run 'iplay login' first")
	}

	outcomes := current.engine.Bus().SubscribeAll(16)
	defer current.engine.Bus().Unsubscribe(outcomes)

	p := tea.NewProgram(
		tui.NewModel(current.engine, site.DisplayName()).WithOutcomes(outcomes),
		tea.WithAltScreen(),
	)

	current.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		current.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
