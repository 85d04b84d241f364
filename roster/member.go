package roster

// Host is the network address of a cluster member, formatted as hostname:port.
// It is used as the member unique key.
type Host string

func (h Host) String() string {
	return string(h)
}

type Member struct {
	Host Host
	Role Role
}

func (m Member) IsClient() bool {
	return m.Role.IsClient()
}
func (m Member) IsServer() bool {
	return m.Role.IsServer()
}

// String renders the member with the host specification syntax: "host" for Both, "host/c" for
// a client-only member and "host/s" for a server-only member.
func (m Member) String() string {
	switch m.Role {
	case Client:
		return string(m.Host) + "/c"
	case Server:
		return string(m.Host) + "/s"
	default:
		return string(m.Host)
	}
}

// IsClient and IsServer are the role predicates accepted by Roster.HostsWithRole.
var (
	IsClient = Member.IsClient
	IsServer = Member.IsServer
	Any      = func(Member) bool { return true }
)

type MemberSet []Member

func (set MemberSet) Filter(filters ...func(Member) bool) MemberSet {
	copy := make(MemberSet, 0, len(set))
	for _, member := range set {
		accepted := true
		for _, f := range filters {
			if !f(member) {
				accepted = false
				break
			}
		}
		if accepted {
			copy = append(copy, member)
		}
	}
	return copy
}

func (set MemberSet) Hosts() []Host {
	out := make([]Host, len(set))
	for idx, member := range set {
		out[idx] = member.Host
	}
	return out
}
