package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Config holds the gRPC server settings.
type Config struct {
	Port    string
	Timeout int
}

// Server exposes the health endpoint consumed by the orchestrator probes.
type Server struct {
	server  *grpc.Server
	logger  *zap.Logger
	address string
}

func NewServer(cfg Config, logger *zap.Logger) *Server {
	server := grpc.NewServer()

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	reflection.Register(server)

	return &Server{
		server:  server,
		logger:  logger,
		address: fmt.Sprintf(":%s", cfg.Port),
	}
}

func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	s.logger.Info("starting gRPC server", zap.String("address", s.address))

	return s.server.Serve(listener)
}

func (s *Server) Stop() {
	s.logger.Info("stopping gRPC server")
	s.server.GracefulStop()
}
