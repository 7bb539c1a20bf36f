package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/searchbench/internal/common/app"
	"github.com/armadaproject/searchbench/internal/common/logging"
	"github.com/armadaproject/searchbench/internal/searchbench/orchestrator"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs a benchmark",
		RunE:  runBenchmark,
	}
	return cmd
}

func runBenchmark(_ *cobra.Command, _ []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := app.CreateContextWithShutdown()
	if _, err := orchestrator.NewRunner(config).Run(ctx); err != nil {
		logging.WithStacktrace(err).Error("benchmark failed")
		return err
	}
	return nil
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validates the configuration without running a benchmark",
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			logging.Info("Configuration is valid")
			return nil
		},
	}
	return cmd
}
