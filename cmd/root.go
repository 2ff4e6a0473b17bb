package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/microgrid/app"
	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "microgrid",
	Short: "Micro-grid digital twin simulator",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (stock assembly when omitted)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
