package rpc

import (
	"context"
	"fmt"
	"net"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/pkg/errors"
	"github.com/vx-labs/roster/network"
	"github.com/vx-labs/roster/rpc/pb"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type server struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func (s *server) Invoke(ctx context.Context, call *pb.Call) (*pb.Result, error) {
	out, err := s.dispatcher.Dispatch(ctx, call.Procedure, call.Payload)
	if err != nil {
		s.logger.Debug("procedure failed", zap.String("procedure", call.Procedure), zap.Error(err))
		if errors.Is(err, ErrUnknownProcedure) {
			return nil, status.Error(codes.Unimplemented, err.Error())
		}
		return nil, status.Error(codes.Unknown, err.Error())
	}
	return &pb.Result{Payload: out}, nil
}

// Server exposes a Dispatcher on the network.
type Server struct {
	grpc     *grpc.Server
	listener net.Listener
}

func NewServer(dispatcher *Dispatcher, logger *zap.Logger) *Server {
	s := grpc.NewServer(
		network.GRPCServerOptions()...,
	)
	pb.RegisterExecutorServer(s, &server{dispatcher: dispatcher, logger: logger})
	grpc_prometheus.Register(s)
	return &Server{grpc: s}
}

// Serve starts serving the dispatcher on the given address, in background.
func (s *Server) Serve(address string) (net.Listener, error) {
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to start rpc listener")
	}
	s.listener = lis
	go s.grpc.Serve(lis)
	return lis, nil
}

func (s *Server) ServePort(port int) (net.Listener, error) {
	return s.Serve(fmt.Sprintf(":%d", port))
}

func (s *Server) Shutdown() {
	s.grpc.GracefulStop()
}
