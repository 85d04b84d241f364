package network

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vx-labs/roster/roster"
)

func TestConfigurationFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	RegisterFlagsForService(cmd, v, "rpc", 3500)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--rpc-bind-address", "127.0.0.1",
		"--rpc-advertised-address", "node1.example.net",
	}))

	config, err := ConfigurationFromFlags(v, "rpc")
	require.NoError(t, err)
	assert.Equal(t, 3500, config.BindPort())
	assert.Equal(t, 3500, config.AdvertisedPort())
	assert.Equal(t, roster.Host("node1.example.net:3500"), config.Identity().Host())
	assert.Equal(t, "service rpc is running on 127.0.0.1:3500 and exposed on node1.example.net:3500", config.Describe())
}

func TestConfigurationFromFlags_RandomPort(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	RegisterFlagsForService(cmd, v, "rpc", 0)
	require.NoError(t, cmd.Flags().Parse([]string{"--rpc-bind-address", "127.0.0.1", "--rpc-advertised-address", "127.0.0.1"}))
	config, err := ConfigurationFromFlags(v, "rpc")
	require.NoError(t, err)
	assert.NotZero(t, config.BindPort())
	assert.Equal(t, config.BindPort(), config.AdvertisedPort())
}

func TestConfigurationFromFlags_Invalid(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	v := viper.New()
	RegisterFlagsForService(cmd, v, "rpc", 3500)
	require.NoError(t, cmd.Flags().Parse([]string{"--rpc-bind-address", "not-an-ip"}))
	_, err := ConfigurationFromFlags(v, "rpc")
	assert.Error(t, err)
}
