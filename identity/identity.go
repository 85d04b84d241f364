package identity

import (
	"crypto/sha1"
	"fmt"

	"github.com/vx-labs/roster/roster"
)

// Identity represents a Host network identity, with a unique ID, and two network identities: one private, and one public.
// The public address is the one advertised to other cluster members.
type Identity interface {
	ID() string
	WithID(string) Identity
	Private() Address
	Public() Address
	Host() roster.Host
}

type identity struct {
	id      string
	private *address
	public  *address
}

func (i identity) WithID(id string) Identity {
	i.id = id
	return &i
}
func (i identity) ID() string {
	if i.id != "" {
		return i.id
	}
	hash := sha1.New()
	hash.Write([]byte(i.public.String()))
	return fmt.Sprintf("%x", hash.Sum(nil))
}
func (i identity) Private() Address {
	return i.private
}
func (i identity) Public() Address {
	return i.public
}
func (i identity) Host() roster.Host {
	return roster.Host(i.public.String())
}

// New returns an identity listening on bindHost:bindPort, and advertising advertisedHost:advertisedPort
// to other cluster members.
func New(bindHost string, bindPort int, advertisedHost string, advertisedPort int) Identity {
	return &identity{
		private: &address{
			host: bindHost,
			port: bindPort,
		},
		public: &address{
			host: advertisedHost,
			port: advertisedPort,
		},
	}
}
