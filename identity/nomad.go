package identity

import (
	"fmt"
	"os"
	"strconv"
)

func nomadPort(envkey string) (int, error) {
	port, err := strconv.ParseInt(os.Getenv(envkey), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %v", envkey, err)
	}
	return int(port), nil
}

func nomadPublicPort(service string) (int, error) {
	envkey := fmt.Sprintf("NOMAD_HOST_PORT_%s", service)
	return nomadPort(envkey)
}
func nomadPrivatePort(service string) (int, error) {
	envkey := fmt.Sprintf("NOMAD_PORT_%s", service)
	return nomadPort(envkey)
}

func nomadPrivateHost() string {
	host, err := LocalPrivateHost()
	if err != nil {
		return "0.0.0.0"
	}
	return host
}
func nomadPublicHost(service string) string {
	envkey := fmt.Sprintf("NOMAD_IP_%s", service)
	return os.Getenv(envkey)
}

// NomadService returns the identity of a cluster member running on Nomad, based on environment variables populated by Nomad
func NomadService(name string) (Identity, error) {
	publicPort, err := nomadPublicPort(name)
	if err != nil {
		return nil, err
	}
	privatePort, err := nomadPrivatePort(name)
	if err != nil {
		return nil, err
	}

	return &identity{
		private: &address{
			host: nomadPrivateHost(),
			port: privatePort,
		},
		public: &address{
			host: nomadPublicHost(name),
			port: publicPort,
		},
	}, nil
}
