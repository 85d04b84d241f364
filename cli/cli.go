package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cenkalti/backoff"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vx-labs/roster/discovery"
	"github.com/vx-labs/roster/identity"
	"github.com/vx-labs/roster/lists"
	"github.com/vx-labs/roster/membership"
	"github.com/vx-labs/roster/network"
	"github.com/vx-labs/roster/roster"
	"github.com/vx-labs/roster/routines"
	"github.com/vx-labs/roster/rpc"
)

const (
	FLAG_NAME_RPC = "rpc"
)

// HealthChecker reports "ok", "warning" or "critical".
type HealthChecker interface {
	Health() string
}

func AddClusterFlags(root *cobra.Command, config *viper.Viper) {
	root.Flags().StringSliceP("join", "j", []string{}, "Join the cluster through one of these members")
	config.BindPFlag("join", root.Flags().Lookup("join"))
	root.Flags().StringP("role", "r", "both", "Role of this member in the cluster: client, server or both")
	config.BindPFlag("role", root.Flags().Lookup("role"))
	root.Flags().BoolP("use-consul", "", false, "Discover other members and register this one using Consul")
	config.BindPFlag("use-consul", root.Flags().Lookup("use-consul"))
	root.Flags().StringP("consul-service-name", "", "roster", "Consul service name of the cluster members")
	config.BindPFlag("consul-service-name", root.Flags().Lookup("consul-service-name"))
	AddCommonFlags(root, config)
}

// AddCommonFlags declares the flags shared by every member kind, workers and controller.
func AddCommonFlags(root *cobra.Command, config *viper.Viper) {
	root.Flags().Int64P("seed", "", 0, "Seed of the random number generator. The same seed produces the same sequence of random numbers")
	config.BindPFlag("seed", root.Flags().Lookup("seed"))
	root.Flags().DurationP("rpc-timeout", "", 5*time.Second, "Timeout of remote procedure calls")
	config.BindPFlag("rpc-timeout", root.Flags().Lookup("rpc-timeout"))
	root.Flags().StringP("health-address", "", "[::]:9000", "Serve health and metrics endpoints on this address")
	config.BindPFlag("health-address", root.Flags().Lookup("health-address"))
	root.Flags().BoolP("pprof", "", false, "Enable pprof endpoint")
	config.BindPFlag("pprof", root.Flags().Lookup("pprof"))
	network.RegisterFlagsForService(root, config, FLAG_NAME_RPC, identity.DefaultPort)
}

// Context holds the components of a running cluster member.
type Context struct {
	ID          string
	Logger      *zap.Logger
	Config      *viper.Viper
	NetConf     network.Configuration
	Self        roster.Host
	Dispatcher  *rpc.Dispatcher
	Server      *rpc.Server
	Caller      *rpc.Caller
	Executor    *rpc.Remote
	Node        *membership.Node
	Broadcaster *lists.Broadcaster
	Routines    *routines.Registry
	consul      *discovery.Consul
	joined      bool
}

func logService(logger *zap.Logger, config network.Configuration) {
	logger.Info("loaded service config",
		zap.String("service_kind", config.Name()),
		zap.String("bind_address", config.BindAddress()),
		zap.Int("bind_port", config.BindPort()),
		zap.String("advertised_address", config.AdvertisedAddress()),
		zap.Int("advertised_port", config.AdvertisedPort()),
	)
}

func newLogger(id string) (*zap.Logger, error) {
	fields := []zap.Field{
		zap.String("node_id", id), zap.String("version", Version()),
	}
	if allocID := os.Getenv("NOMAD_ALLOC_ID"); allocID != "" {
		fields = append(fields,
			zap.String("nomad_alloc_id", os.Getenv("NOMAD_ALLOC_ID")),
			zap.String("nomad_alloc_name", os.Getenv("NOMAD_ALLOC_NAME")),
			zap.String("nomad_alloc_index", os.Getenv("NOMAD_ALLOC_INDEX")),
		)
	}
	opts := []zap.Option{
		zap.Fields(fields...),
	}
	if os.Getenv("ENABLE_PRETTY_LOG") == "true" {
		return zap.NewDevelopment(opts...)
	}
	return zap.NewProduction(opts...)
}

func selfHost(netConf network.Configuration) (roster.Host, error) {
	if allocID := os.Getenv("NOMAD_ALLOC_ID"); allocID != "" {
		id, err := identity.NomadService(FLAG_NAME_RPC)
		if err != nil {
			return "", err
		}
		return id.Host(), nil
	}
	return netConf.Identity().Host(), nil
}

// Bootstrap creates the logger, the rpc layer, the membership node and the list broadcaster, and
// registers their procedures, as well as the procedures of every routine, on the local dispatcher.
func Bootstrap(cmd *cobra.Command, config *viper.Viper, registry *routines.Registry) (*Context, error) {
	id := uuid.New().String()
	logger, err := newLogger(id)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		ID:       id,
		Config:   config,
		Routines: registry,
	}
	if config.GetBool("pprof") {
		go func() {
			fmt.Println("pprof endpoint is running on port 8080")
			http.ListenAndServe(":8080", nil)
		}()
	}
	netConf, err := network.ConfigurationFromFlags(config, FLAG_NAME_RPC)
	if err != nil {
		return nil, err
	}
	ctx.NetConf = netConf
	logService(logger, netConf)
	self, err := selfHost(netConf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute advertised address")
	}
	ctx.Self = self
	ctx.Logger = logger.With(zap.String("host", string(self)))

	ctx.Dispatcher = rpc.NewDispatcher()
	ctx.Caller = rpc.NewCaller()
	ctx.Executor = rpc.NewRemote(self, ctx.Caller, config.GetDuration("rpc-timeout"))
	ctx.Node = membership.New(ctx.Executor, logger)
	if err := ctx.Node.Register(ctx.Dispatcher); err != nil {
		return nil, err
	}
	if config.IsSet("seed") {
		ctx.Node.Seed(config.GetInt64("seed"))
	} else {
		ctx.Node.Seed(time.Now().UnixNano())
	}
	ctx.Broadcaster = lists.NewBroadcaster(ctx.Executor, lists.New(), lists.LoaderFunc(registry.Loader(ctx.Dispatcher)), logger)
	if err := ctx.Broadcaster.Register(ctx.Dispatcher); err != nil {
		return nil, err
	}
	if err := registry.LoadAll(ctx.Dispatcher); err != nil {
		return nil, err
	}
	ctx.Logger.Debug("procedures registered", zap.Strings("procedures", ctx.Dispatcher.Procedures()))
	ctx.Server = rpc.NewServer(ctx.Dispatcher, ctx.Logger)
	return ctx, nil
}

// Serve starts the rpc listener, and the health and metrics endpoint.
func (ctx *Context) Serve(checkers ...HealthChecker) error {
	address := net.JoinHostPort(ctx.NetConf.BindAddress(), strconv.Itoa(ctx.NetConf.BindPort()))
	listener, err := ctx.Server.Serve(address)
	if err != nil {
		return err
	}
	ctx.Logger.Info("rpc server started", zap.String("listen_address", listener.Addr().String()))
	fmt.Printf("Use the following address to join the cluster: %s\n", ctx.Self)
	go serveHTTPHealth(ctx.Logger, ctx.Config.GetString("health-address"), checkers...)
	return nil
}

func (ctx *Context) provider() (discovery.Provider, error) {
	if ctx.Config.GetBool("use-consul") {
		consul, err := discovery.NewConsul(ctx.ID, ctx.Config.GetString("consul-service-name"))
		if err != nil {
			return nil, err
		}
		role, err := roster.ParseRole(ctx.Config.GetString("role"))
		if err != nil {
			return nil, err
		}
		err = consul.Register(ctx.Self, role)
		if err != nil {
			return nil, errors.Wrap(err, "failed to register in consul")
		}
		ctx.consul = consul
		return consul, nil
	}
	hosts := []roster.Host{}
	for _, spec := range ctx.Config.GetStringSlice("join") {
		host, err := identity.ParseHost(spec, identity.DefaultPort)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, host)
	}
	return discovery.NewStatic(hosts), nil
}

// JoinCluster joins the first discovered member accepting this one. The member becomes the first
// member of a new cluster if no other member is discovered.
func (ctx *Context) JoinCluster(parent context.Context) error {
	role, err := roster.ParseRole(ctx.Config.GetString("role"))
	if err != nil {
		return err
	}
	provider, err := ctx.provider()
	if err != nil {
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	joiner := &discovery.Joiner{
		Provider: provider,
		BackOff:  policy,
		Logger:   ctx.Logger,
	}
	_, err = joiner.Join(parent, ctx.Self, func(existing roster.Host) error {
		return ctx.Node.Join(parent, role, existing)
	})
	if err == io.EOF {
		err = ctx.Node.JoinSelf(parent, role)
	}
	if err != nil {
		return err
	}
	ctx.joined = true
	return nil
}

// Shutdown leaves the cluster if it was joined, and stops every component.
func (ctx *Context) Shutdown() {
	logger := ctx.Logger
	if ctx.joined {
		leaveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := ctx.Node.Leave(leaveCtx)
		cancel()
		if err != nil {
			logger.Warn("failed to notify every member of our departure", zap.Error(err))
		}
		logger.Info("cluster left")
	}
	if ctx.consul != nil {
		if err := ctx.consul.Deregister(); err != nil {
			logger.Warn("failed to deregister from consul", zap.Error(err))
		}
	}
	ctx.Server.Shutdown()
	ctx.Caller.Close()
	logger.Info("stopped rpc service")
}

// Run waits for a termination signal, then shuts the member down.
func (ctx *Context) Run() {
	quit := make(chan struct{})
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		defer close(quit)
		<-sigc
		ctx.Logger.Info("received termination signal")
		ctx.Shutdown()
	}()
	<-quit
	ctx.Logger.Sync()
}

func healthHandler(checkers ...HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		for _, checker := range checkers {
			switch checker.Health() {
			case "warning":
				w.WriteHeader(http.StatusTooManyRequests)
				return
			case "critical":
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func serveHTTPHealth(logger *zap.Logger, address string, checkers ...HealthChecker) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(checkers...))
	err := http.ListenAndServe(address, mux)
	if err != nil {
		logger.Error("failed to run healthcheck endpoint", zap.Error(err))
	}
}
