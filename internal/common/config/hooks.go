package config

import (
	"reflect"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks must be passed to every viper.Unmarshal call.  viper only honours the last DecodeHook option, so
// the standard duration and slice hooks are composed here together with our own.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		PathDecodeHook(),
	)),
}

// PathDecodeHook expands a leading ~ in any value decoded into a Path.
func PathDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(Path("")) {
			return data, nil
		}
		expanded, err := homedir.Expand(data.(string))
		if err != nil {
			return nil, err
		}
		return Path(expanded), nil
	}
}
