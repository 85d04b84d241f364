package lists

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vx-labs/roster/identity"
	"github.com/vx-labs/roster/roster"
)

// ParseHosts decodes a comma separated host specification, and returns the client and server lists
// it describes.
// Each host is formatted as "hostname[:port][/c|/s]": the "/c" suffix marks a client, "/s" a server,
// and a host without suffix is both a client and a server.
func ParseHosts(spec string, defaultPort int) ([]roster.Host, []roster.Host, error) {
	clients := []roster.Host{}
	servers := []roster.Host{}
	for _, token := range strings.Split(spec, ",") {
		parts := strings.Split(token, "/")
		if len(parts) > 2 {
			return nil, nil, errors.Errorf("bad host: %s", token)
		}
		host, err := identity.ParseHost(parts[0], defaultPort)
		if err != nil {
			return nil, nil, errors.Wrap(err, "bad host")
		}
		if len(parts) == 1 {
			clients = append(clients, host)
			servers = append(servers, host)
			continue
		}
		switch parts[1] {
		case "c":
			clients = append(clients, host)
		case "s":
			servers = append(servers, host)
		default:
			return nil, nil, errors.Errorf("expected /c or /s or nothing after host: %s", parts[0])
		}
	}
	return clients, servers, nil
}
