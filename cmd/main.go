package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"recruitment-tracker/config"
	"recruitment-tracker/infrastructure"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recruitment",
		Short:         "Recruitment tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newImportLegacyCommand())
	cmd.AddCommand(newWatchEventsCommand())
	return cmd
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default roles and stages into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat)
			db, err := infrastructure.NewDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(db)

			n, err := infrastructure.SeedDefaults(db)
			if err != nil {
				return err
			}
			log.WithField("roles", n).Info("seed finished")
			return nil
		},
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
