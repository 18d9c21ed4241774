package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notifeed/notifeed/internal/tui"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive feed browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasTTY() {
				return fmt.Errorf("the feed browser requires an interactive terminal")
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			program := tea.NewProgram(tui.New(newClient(cfg)), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
