package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armadaproject/searchbench/internal/common"
	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
)

const (
	CustomConfigLocation string = "config"
	defaultConfigPath    string = "./config/searchbench"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "searchbench",
		SilenceUsage: true,
		Short:        "Load tester for search engines",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return common.BindCommandlineArguments(cmd.Flags())
		},
	}

	cmd.PersistentFlags().StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")

	cmd.AddCommand(
		runCmd(),
		validateCmd(),
	)

	return cmd
}

func loadConfig() (configuration.TestConfig, error) {
	var config configuration.TestConfig
	userSpecifiedConfigs := viper.GetStringSlice(CustomConfigLocation)
	_, err := common.LoadConfig(&config, defaultConfigPath, userSpecifiedConfigs)
	return config, err
}
