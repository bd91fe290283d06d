package main

import (
	"github.com/spf13/cobra"

	"vms/backend/internal/commands"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		return commands.MigrateUP(cmd.Context(), e.db)
	},
}
