package identity

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/vx-labs/roster/roster"
)

// DefaultPort is used when a host is specified without port.
const DefaultPort = 3500

// Address represents a host and port combinaison
type Address interface {
	Port() int
	Host() string
	String() string
}
type address struct {
	port    int
	host    string
	address string
}

func (a *address) String() string {
	if a.address == "" {
		a.address = net.JoinHostPort(a.host, strconv.Itoa(a.port))
	}
	return a.address
}
func (a *address) Host() string {
	return a.host
}

func (a *address) Port() int {
	return a.port
}

// ParseAddress decodes a "hostname[:port]" string. A missing port is replaced by defaultPort.
func ParseAddress(spec string, defaultPort int) (Address, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty host")
	}
	host, portStr, err := net.SplitHostPort(spec)
	if err != nil {
		if !strings.Contains(err.Error(), "missing port") {
			return nil, fmt.Errorf("invalid host %q: %v", spec, err)
		}
		host = strings.Trim(spec, "[]")
		portStr = strconv.Itoa(defaultPort)
	}
	if host == "" {
		return nil, fmt.Errorf("invalid host %q: empty hostname", spec)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid host %q: bad port %q", spec, portStr)
	}
	return &address{host: host, port: port}, nil
}

// ParseHost decodes a "hostname[:port]" string into a cluster member address.
func ParseHost(spec string, defaultPort int) (roster.Host, error) {
	a, err := ParseAddress(spec, defaultPort)
	if err != nil {
		return "", err
	}
	return roster.Host(a.String()), nil
}
