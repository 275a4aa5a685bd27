package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recruitment-tracker/config"
	"recruitment-tracker/infrastructure"
)

func newImportLegacyCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import-legacy",
		Short: "Copy records from a legacy SQLite database into the configured database",
		Long: `Copy roles, openings, stages, candidates, applications and experiences
from a legacy SQLite file. Primary keys are kept and existing ids are skipped,
so the import can be re-run.

Example:
  recruitment import-legacy --source ./recruitment.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat)

			src, err := infrastructure.OpenLegacy(source)
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := infrastructure.NewDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(dst)

			failed := 0
			for _, r := range infrastructure.ImportLegacy(cmd.Context(), src, dst, log) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-13s copied=%d skipped=%d failed=%d\n", r.Table, r.Copied, r.Skipped, r.Failed)
				if r.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d tables could not be imported", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "path to the legacy SQLite database (required)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
