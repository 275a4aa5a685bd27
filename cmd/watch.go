package main

import (
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"recruitment-tracker/config"
	"recruitment-tracker/domain"
	"recruitment-tracker/infrastructure"
)

func newWatchEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch-events",
		Short: "Log stage change events from the events queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithoutDatabase()
			if err != nil {
				return err
			}
			log := infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if cfg.RabbitMQURL == "" {
				log.Warn("RABBITMQ_URL not set")
				return nil
			}

			rmq, err := infrastructure.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsQueue, log)
			if err != nil {
				return err
			}
			defer rmq.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("📥 Waiting for stage change events")
			return rmq.ConsumeStageChanges(ctx, func(e domain.StageChangeEvent) {
				log.WithFields(logrus.Fields{
					"application_id": e.ApplicationID,
					"action":         e.Action,
					"from_stage":     e.FromStageID,
					"to_stage":       e.ToStageID,
					"from_status":    e.FromStatus,
					"to_status":      e.ToStatus,
					"occurred_at":    e.OccurredAt,
				}).Info("stage changed")
			})
		},
	}
}
