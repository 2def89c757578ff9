package grpc

import (
	"context"
	"net"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the draft store
const ServiceName = "hoops.DraftStore"

// Pinger is anything whose readiness can be probed, normally the draft DAL
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the standard gRPC health service, fed by store readiness
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	store  Pinger
}

// NewServer creates a gRPC server reporting the readiness of store
func NewServer(store Pinger) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
		store:  store,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	return s
}

// Check probes the store once and publishes the result for both the overall
// server and ServiceName
func (s *Server) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		logger.Warn("gRPC: store not ready", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve probes the store every interval and serves on lis until ctx is done
func (s *Server) Serve(ctx context.Context, lis net.Listener, interval time.Duration) error {
	s.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Check(ctx)
			}
		}
	}()
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}()

	logger.Info("gRPC server starting", "address", lis.Addr().String())
	return s.grpc.Serve(lis)
}
