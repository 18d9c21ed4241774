// Package cli implements the notifeed command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notifeed/notifeed/internal/client"
	"github.com/notifeed/notifeed/internal/config"
	"github.com/notifeed/notifeed/internal/logging"
)

// options are the persistent flags shared by all subcommands.
type options struct {
	configFile string
	serverURL  string
	userID     int64
}

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "notifeed",
		Short:         "Browse and manage your notification feed",
		Long:          "notifeed reads the activity feed served by notifeedd and manages read state.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is $HOME/.config/notifeed/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.serverURL, "server", "", "feed daemon base URL (overrides config)")
	cmd.PersistentFlags().Int64Var(&opts.userID, "user", 0, "feed owner id (overrides config)")

	cmd.AddCommand(
		newTUICmd(opts),
		newListCmd(opts),
		newMarkAllReadCmd(opts),
		newSeedCmd(opts),
	)

	return cmd
}

// loadConfig resolves configuration, applies flag overrides, and wires up
// logging.
func loadConfig(opts *options) (*config.Config, error) {
	loader := config.NewLoader()
	if opts.configFile != "" {
		loader.SetConfigFile(opts.configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.serverURL != "" {
		cfg.Client.BaseURL = opts.serverURL
	}
	if opts.userID > 0 {
		cfg.Client.UserID = opts.userID
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	return cfg, nil
}

// newClient builds the daemon client from resolved configuration.
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Client.BaseURL, cfg.Client.UserID, cfg.Client.Timeout)
}
