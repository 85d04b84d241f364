package identity

import (
	"errors"
	"net"
	"strings"
)

var ErrNoInterface = errors.New("could not find a valid network interface")

// LocalPrivateHost returns the first address of the first non-loopback interface.
func LocalPrivateHost() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	for _, v := range ifaces {
		if v.Flags&net.FlagLoopback != net.FlagLoopback && v.Flags&net.FlagUp == net.FlagUp {
			h := v.HardwareAddr.String()
			if len(h) == 0 {
				continue
			} else {
				addresses, _ := v.Addrs()
				if len(addresses) > 0 {
					ip := strings.Split(addresses[0].String(), "/")[0]
					return ip, nil
				}
			}
		}
	}
	return "", ErrNoInterface
}
