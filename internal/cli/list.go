package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notifeed/notifeed/internal/feed"
)

func newListCmd(opts *options) *cobra.Command {
	var (
		filterFlag string
		searchFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current feed page",
		Long:  "List the current feed page grouped by day, optionally filtered the same way the TUI filters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			page, err := newClient(cfg).Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading feed: %w", err)
			}

			engine := feed.NewEngine(page)
			if filterFlag != "" {
				if !feed.ValidFilter(feed.Filter(filterFlag)) {
					return fmt.Errorf("unknown filter %q", filterFlag)
				}
				if _, err := engine.Apply(cmd.Context(), feed.SetFilter{Filter: feed.Filter(filterFlag)}); err != nil {
					return err
				}
			}
			if searchFlag != "" {
				if _, err := engine.Apply(cmd.Context(), feed.SetSearch{Query: searchFlag}); err != nil {
					return err
				}
			}

			return printFeed(engine)
		},
	}

	cmd.Flags().StringVar(&filterFlag, "filter", "", "filter to apply (all, unread, recent, task, note, other)")
	cmd.Flags().StringVar(&searchFlag, "search", "", "search query to apply")

	return cmd
}

func printFeed(engine *feed.Engine) error {
	vm := engine.View()
	summary := engine.Summary()

	fmt.Printf("Unread %d · Today %d · This week %d · Listed %d\n\n",
		engine.UnreadDisplay(), summary.Today, summary.Week, summary.Total)

	if vm.Empty != nil {
		fmt.Println(vm.Empty.Title)
		fmt.Println(vm.Empty.Message)
		return nil
	}

	for _, bv := range vm.Buckets {
		if bv.Hidden {
			continue
		}
		header := bv.Bucket.Label
		if bv.Bucket.DateLabel != "" && bv.Bucket.DateLabel != bv.Bucket.Label {
			header += " (" + bv.Bucket.DateLabel + ")"
		}
		fmt.Printf("%s · %s\n", header, bv.CountLabel)

		rows := make([][]string, 0, bv.VisibleCount)
		for _, item := range bv.Bucket.Items {
			if !vm.Visible[item.Record.ID] {
				continue
			}
			status := "read"
			if item.Unread() {
				status = "UNREAD"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", item.Record.ID),
				status,
				item.Icon + " " + item.Title,
				item.Label,
				item.Class.Relative,
			})
		}
		if err := writeTable(os.Stdout, []string{"ID", "STATUS", "TITLE", "TYPE", "WHEN"}, rows); err != nil {
			return err
		}
		fmt.Println()
	}

	fmt.Printf("Showing %d %s\n", vm.VisibleCount, vm.MatchLabel)
	return nil
}
