package cmd

import (
	"github.com/spf13/cobra"

	"skillcheck/config"
	"skillcheck/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		if err := store.New(db).AutoMigrate(); err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
		log.Info("database schema is up to date", "database", cfg.DBName)
		return nil
	},
}
