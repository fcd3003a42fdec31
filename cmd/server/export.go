package main

import (
	"task-tracker-api/internal/persistence"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored records as CSV",
	Long: `export loads the configured backend and writes its content to stdout in
the CSV snapshot format, e.g. to move data from sqlite or postgres to a file:

  tracker export --backend sqlite --path tasks.db > tasks.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m, backend, err := openStore(cmd.Context(), cfg, logger, nil)
		if err != nil {
			return err
		}
		defer backend.Close()

		return persistence.WriteCSV(cmd.OutOrStdout(), m.Snapshot())
	},
}
