package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hoopsleague/config"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Scheduler maintenance commands",
}

var schedulerTickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run a single scheduler pass and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, config.Get(), prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer a.close()

		run, err := a.scheduler.Tick(ctx)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"runID":    run.ID,
			"failures": run.Summary.Failures,
		}).Info("Scheduler pass finished")
		return nil
	},
}

func init() {
	schedulerCmd.AddCommand(schedulerTickCmd)
	rootCmd.AddCommand(schedulerCmd)
}
