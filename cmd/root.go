package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillcheck/config"
	"skillcheck/logger"
)

var rootCmd = &cobra.Command{
	Use:           "skillcheck",
	Short:         "Skill assessment quiz server",
	Long:          "skillcheck serves per-skill multiple-choice quizzes, scores submissions and reports performance.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (defaults to ./config.yaml or ./configs/config.yaml when present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
