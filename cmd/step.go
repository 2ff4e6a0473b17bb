package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/microgrid/app"
)

var stepCount int

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Run a fixed number of ticks offline and print the balance",
	RunE:  runSteps,
}

func init() {
	stepCmd.Flags().IntVarP(&stepCount, "steps", "n", 96, "number of ticks to simulate")
	rootCmd.AddCommand(stepCmd)
}

func runSteps(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Offline run: no transports, no pacing.
	cfg.MQTT.Broker = ""
	cfg.Influx.Enabled = false
	cfg.Metrics.Enabled = false
	cfg.Sim.Scale = 0

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.RunSteps(ctx, stepCount)
	if err != nil {
		return err
	}
	fmt.Printf("last tick %s\n", res.Time.Format("2006-01-02 15:04"))
	fmt.Printf("  supply    %10.2f kW\n", res.TotalSupplyKW)
	fmt.Printf("  demand    %10.2f kW\n", res.TotalDemandKW)
	fmt.Printf("  import    %10.2f kW\n", res.ExternalImportKW)
	fmt.Printf("external grid cost %.2f %s\n", svc.Orchestrator().TotalExternalCost(), cfg.Tariff.Currency)
	return nil
}
