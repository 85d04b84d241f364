package network

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vx-labs/roster/identity"
)

type Configuration struct {
	name              string
	advertisedAddress string
	advertisedPort    int
	bindAddress       string
	bindPort          int
}

func (c *Configuration) Name() string {
	return c.name
}
func (c *Configuration) AdvertisedAddress() string {
	return c.advertisedAddress
}
func (c *Configuration) AdvertisedPort() int {
	return c.advertisedPort
}
func (c *Configuration) BindPort() int {
	return c.bindPort
}
func (c *Configuration) BindAddress() string {
	return c.bindAddress
}

// Identity returns the network identity described by this configuration.
func (c *Configuration) Identity() identity.Identity {
	return identity.New(c.bindAddress, c.bindPort, c.advertisedAddress, c.advertisedPort)
}

func randomFreePort(host string) (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil

}

func advertisedAddressFlagName(name string) string {
	return fmt.Sprintf("%s-advertised-address", name)
}
func advertisedPortFlagName(name string) string {
	return fmt.Sprintf("%s-advertised-port", name)
}
func bindAddressFlagName(name string) string {
	return fmt.Sprintf("%s-bind-address", name)
}
func bindPortFlagName(name string) string {
	return fmt.Sprintf("%s-bind-port", name)
}

func envName(flag string) string {
	return "ROSTER_" + strings.ToUpper(strings.Replace(flag, "-", "_", -1))
}

func (c Configuration) Describe() string {
	return fmt.Sprintf("service %s is running on %s:%d and exposed on %s:%d",
		c.name,
		c.bindAddress, c.bindPort,
		c.advertisedAddress, c.advertisedPort,
	)
}

// ConfigurationFromFlags reads the listener configuration of the named service, registered with
// RegisterFlagsForService.
// A zero bind port is replaced by a random free port, and the advertised address and port default to
// the bind ones.
func ConfigurationFromFlags(v *viper.Viper, name string) (Configuration, error) {
	config := Configuration{
		name:              name,
		advertisedAddress: v.GetString(advertisedAddressFlagName(name)),
		advertisedPort:    v.GetInt(advertisedPortFlagName(name)),
		bindAddress:       v.GetString(bindAddressFlagName(name)),
		bindPort:          v.GetInt(bindPortFlagName(name)),
	}

	if net.ParseIP(config.bindAddress) == nil {
		return config, fmt.Errorf("invalid bind address specified for service %s: %q", name, config.bindAddress)
	}
	if len(config.advertisedAddress) == 0 {
		config.advertisedAddress = config.bindAddress
	}
	if config.bindPort == 0 {
		randomPort, err := randomFreePort(config.bindAddress)
		if err != nil {
			return config, err
		}
		config.bindPort = randomPort
	}
	if config.advertisedPort == 0 {
		config.advertisedPort = config.bindPort
	}
	if config.advertisedPort < 1 || config.advertisedPort > 65535 {
		return config, fmt.Errorf("invalid advertised port specified for service %s: %d", name, config.advertisedPort)
	}
	if config.bindPort < 1 || config.bindPort > 65535 {
		return config, fmt.Errorf("invalid bind port specified for service %s: %d", name, config.bindPort)
	}
	return config, nil
}

// RegisterFlagsForService declares the bind and advertise flags of the named service, and binds them
// to viper keys and ROSTER_ prefixed environment variables.
func RegisterFlagsForService(cmd *cobra.Command, config *viper.Viper, name string, defaultPort int) {
	long := bindPortFlagName(name)
	longAddr := bindAddressFlagName(name)
	advLong := advertisedPortFlagName(name)
	advLongAddr := advertisedAddressFlagName(name)

	defaultAdvertisedAddr, err := identity.LocalPrivateHost()
	if err != nil {
		defaultAdvertisedAddr = ""
	}

	cmd.Flags().IntP(long, "", defaultPort, fmt.Sprintf("Start %s listener on this port", name))
	config.BindPFlag(long, cmd.Flags().Lookup(long))
	config.BindEnv(long, envName(long), fmt.Sprintf("NOMAD_PORT_%s", name))

	cmd.Flags().StringP(longAddr, "", "0.0.0.0", fmt.Sprintf("Start %s listener on this address", name))
	config.BindPFlag(longAddr, cmd.Flags().Lookup(longAddr))
	config.BindEnv(longAddr, envName(longAddr))

	cmd.Flags().StringP(advLongAddr, "", defaultAdvertisedAddr, fmt.Sprintf("Advertise %s listener on this address", name))
	config.BindPFlag(advLongAddr, cmd.Flags().Lookup(advLongAddr))
	config.BindEnv(advLongAddr, envName(advLongAddr), fmt.Sprintf("NOMAD_IP_%s", name))

	cmd.Flags().IntP(advLong, "", 0, fmt.Sprintf("Advertise %s listener on this port", name))
	config.BindPFlag(advLong, cmd.Flags().Lookup(advLong))
	config.BindEnv(advLong, envName(advLong), fmt.Sprintf("NOMAD_HOST_PORT_%s", name))
}
