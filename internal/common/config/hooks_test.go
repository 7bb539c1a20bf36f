package config

import (
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHooks(t *testing.T) {
	type target struct {
		Dir     Path
		Plain   string
		Timeout time.Duration
		Codes   []string
	}

	v := viper.New()
	v.Set("dir", "~/results")
	v.Set("plain", "~/untouched")
	v.Set("timeout", "1m30s")
	v.Set("codes", "500,502")

	var out target
	require.NoError(t, v.Unmarshal(&out, CustomHooks...))

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, Path(home+"/results"), out.Dir)
	assert.Equal(t, "~/untouched", out.Plain)
	assert.Equal(t, 90*time.Second, out.Timeout)
	assert.Equal(t, []string{"500", "502"}, out.Codes)
}
