package discovery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	consul "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/roster"
)

// Consul discovers cluster members registered as a Consul service.
type Consul struct {
	id      string
	service string
	api     *consul.Client
}

func NewConsul(id, service string) (*Consul, error) {
	consulConfig := consul.DefaultConfig()
	consulConfig.HttpClient = http.DefaultClient
	consulAPI, err := consul.NewClient(consulConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to consul")
	}
	return &Consul{
		id:      id,
		service: service,
		api:     consulAPI,
	}, nil
}

// Endpoints returns the addresses of the service instances whose checks are not critical.
func (c *Consul) Endpoints(ctx context.Context) ([]roster.Host, error) {
	opts := (&consul.QueryOptions{AllowStale: false}).WithContext(ctx)
	services, _, err := c.api.Health().Service(c.service, "", false, opts)
	if err != nil {
		return nil, err
	}
	out := []roster.Host{}
	for _, service := range services {
		if service.Checks.AggregatedStatus() == consul.HealthCritical {
			continue
		}
		address := service.Service.Address
		if address == "" {
			address = service.Node.Address
		}
		out = append(out, roster.Host(net.JoinHostPort(address, strconv.Itoa(service.Service.Port))))
	}
	return out, nil
}

// Register declares this member in Consul, with a TCP check on its advertised address.
func (c *Consul) Register(self roster.Host, role roster.Role) error {
	host, port, err := net.SplitHostPort(string(self))
	if err != nil {
		return err
	}
	intPort, err := strconv.ParseInt(port, 10, 64)
	if err != nil {
		return err
	}
	return c.api.Agent().ServiceRegister(&consul.AgentServiceRegistration{
		ID:      c.id,
		Name:    c.service,
		Address: host,
		Port:    int(intPort),
		Tags:    []string{fmt.Sprintf("role=%s", role)},
		Meta: map[string]string{
			"node_id": c.id,
		},
		EnableTagOverride: true,
		Check: &consul.AgentServiceCheck{
			CheckID:                        fmt.Sprintf("check-tcp-%s-%s", c.service, c.id),
			Name:                           fmt.Sprintf("TCP Check on address %s", self),
			DeregisterCriticalServiceAfter: "5m",
			TCP:                            string(self),
			Interval:                       "10s",
			Timeout:                        "2s",
		},
	})
}

func (c *Consul) Deregister() error {
	return c.api.Agent().ServiceDeregister(c.id)
}
