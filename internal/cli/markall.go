package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/notifeed/notifeed/internal/feed"
)

func newMarkAllReadCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		Long:  "Mark every notification as read. Asks for confirmation on a terminal; non-interactive use requires --yes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirmPrompt("Mark all notifications as read? [y/N] ")
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			c := newClient(cfg)
			page, err := c.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading feed: %w", err)
			}

			engine := feed.NewEngine(page,
				feed.WithMutator(c),
				feed.WithFallback(c),
				feed.WithLoader(c),
			)
			if _, err := engine.Apply(cmd.Context(), feed.MarkAllRead{Confirmed: true}); err != nil {
				return fmt.Errorf("marking all read: %w", err)
			}

			fmt.Printf("Done. %d unread remaining.\n", engine.UnreadDisplay())
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")

	return cmd
}

// confirmPrompt asks on the terminal. Without a TTY there is nobody to
// ask, so the answer is no and the caller's --yes flag is the way through.
func confirmPrompt(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal, pass --yes to confirm")
	}

	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
