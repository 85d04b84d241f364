package roster

import (
	"fmt"
	"strings"
)

// Role describes what a member does in the cluster: issuing work, accepting work, or both.
type Role int32

const (
	Client Role = iota
	Server
	Both
)

func (r Role) String() string {
	switch r {
	case Client:
		return "client"
	case Server:
		return "server"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("role(%d)", int32(r))
	}
}

// IsClient returns true if a member with this role accepts to issue work.
func (r Role) IsClient() bool {
	return r == Client || r == Both
}

// IsServer returns true if a member with this role accepts work from clients.
func (r Role) IsServer() bool {
	return r == Server || r == Both
}

func (r Role) Valid() bool {
	return r == Client || r == Server || r == Both
}

// ParseRole decodes a role name, as used in command line flags and host specifications.
// An empty name means Both.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "both", "b":
		return Both, nil
	case "client", "c":
		return Client, nil
	case "server", "s":
		return Server, nil
	default:
		return Both, fmt.Errorf("invalid role %q: expected client, server or both", name)
	}
}
