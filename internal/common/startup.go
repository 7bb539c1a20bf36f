package common

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	commonconfig "github.com/armadaproject/searchbench/internal/common/config"
)

const envPrefix = "SEARCHBENCH"

// LoadConfig reads config.yaml from defaultPath, merges any override files on top of it in order and finally applies
// SEARCHBENCH_ prefixed environment variables, e.g. SEARCHBENCH_WORKLOAD_CONCURRENCY.  The result is unmarshalled
// into config and validated.
func LoadConfig(config commonconfig.Config, defaultPath string, overrideConfigs []string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(defaultPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithMessagef(err, "failed to read default config from %s", defaultPath)
	}

	for _, overrideConfig := range overrideConfigs {
		v.SetConfigFile(overrideConfig)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.WithMessagef(err, "failed to merge config file %s", overrideConfig)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := config.Validate(); err != nil {
		commonconfig.LogValidationErrors(err)
		return nil, err
	}
	return v, nil
}

// BindCommandlineArguments makes the flags available through the global viper instance.
func BindCommandlineArguments(flags *pflag.FlagSet) error {
	return errors.WithStack(viper.BindPFlags(flags))
}
