package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/app"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/logger"
)

// cli holds the dependencies shared across commands. The application is opened
// lazily so commands that never touch the database do not need one.
type cli struct {
	ctx    context.Context
	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
	out    io.Writer
}

func main() {
	c := &cli{ctx: context.Background(), out: os.Stdout}
	if err := c.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "substitutes",
		Short:         "Administer teacher absences and substitute assignments",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.AddCommand(c.reportCmd())
	root.AddCommand(c.confirmCmd())
	root.AddCommand(c.rejectCmd())
	root.AddCommand(c.findCmd())
	root.AddCommand(c.tokenCmd())
	return root
}

func (c *cli) init() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logr
	return nil
}

func (c *cli) application() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(c.ctx, c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise application: %w", err)
	}
	a.Start(c.ctx)
	c.app = a
	return a, nil
}
