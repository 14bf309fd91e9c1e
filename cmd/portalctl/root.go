package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"batalhao/internal/app"
	"batalhao/internal/config"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Administer the battalion portal",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if c.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log store activity")

	root.AddCommand(
		newAccountCmd(c),
		newCollectionsCmd(c),
		newMigrateCmd(c),
		newConfigCmd(c),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	if path == "" {
		path = config.DefaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openPortal loads config and opens the stores. The caller closes the portal.
func (c *cli) openPortal() (*app.Portal, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Open(cfg, nil)
}
