package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notifeed/notifeed/internal/feed"
	"github.com/notifeed/notifeed/internal/store"
)

// seedRecords are the demo notifications, spread across the day buckets.
var seedRecords = []struct {
	typeKey string
	title   string
	body    string
	url     string
	age     time.Duration
	read    bool
}{
	{"task.assigned", "Quarterly report handed to you", "Sarah assigned you the Q3 numbers review.", "/tasks/118", 25 * time.Minute, false},
	{"note.comment", "", "Priya commented on the launch checklist.", "/notes/42", 2 * time.Hour, false},
	{"task.updated", "Deploy window moved", "The release train now leaves at 16:00.", "/tasks/97", 26 * time.Hour, false},
	{"note.shared", "", "Q3 planning doc shared with the team.", "/notes/51", 3 * 24 * time.Hour, true},
	{"task.unassigned", "Backlog triage reassigned", "", "/tasks/64", 5 * 24 * time.Hour, true},
	{"billing.invoice", "Invoice ready", "October invoice is ready for download.", "", 12 * 24 * time.Hour, true},
}

func newSeedCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo notifications into the local database",
		Long:  "Seed the daemon's database with a handful of demo notifications so the feed has something to show.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			st, err := store.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer st.Close()

			now := time.Now()
			for _, s := range seedRecords {
				rec := feed.Record{
					Type:      s.typeKey,
					Title:     s.title,
					Body:      s.body,
					URL:       s.url,
					CreatedAt: now.Add(-s.age).Format(time.RFC3339),
					Read:      s.read,
				}
				if _, err := st.Insert(cmd.Context(), cfg.Client.UserID, rec); err != nil {
					return fmt.Errorf("inserting seed record: %w", err)
				}
			}

			fmt.Printf("Seeded %d notifications for user %d in %s\n",
				len(seedRecords), cfg.Client.UserID, cfg.Database.Path)
			return nil
		},
	}

	return cmd
}
