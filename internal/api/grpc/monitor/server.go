package monitor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/logger"
)

// Source provides the latest published frame.
type Source interface {
	Latest() display.Frame
}

// Server implements the PanelMonitor gRPC API.
type Server struct {
	// source is read on every call; it must be safe for concurrent use.
	source Source
	// health reports panel readiness under ServiceName.
	health *health.Server
}

// NewServer wires a frame source into a gRPC handler.
func NewServer(source Source) *Server {
	s := &Server{
		source: source,
		health: health.NewServer(),
	}

	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// Register installs the monitor and health services on reg.
func (s *Server) Register(reg grpc.ServiceRegistrar) {
	reg.RegisterService(&ServiceDesc, s)
	healthpb.RegisterHealthServer(reg, s.health)
}

// GetFrame returns the latest frame.
func (s *Server) GetFrame(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if host, user := Caller(ctx); host != "" || user != "" {
		logger.DebugKV(ctx, "Frame requested", "hostname", host, "username", user)
	}

	frame := s.source.Latest()
	if frame.Sequence == 0 {
		return nil, status.Error(codes.Unavailable, "no frame published yet")
	}

	out, err := FrameToStruct(&frame)
	if err != nil {
		logger.Errorf(ctx, "Failed to encode frame: %v", err)

		return nil, status.Error(codes.Internal, "unable to encode frame")
	}

	return out, nil
}

// RefreshHealth sets the health status from the latest frame.
// The panel is serving while the controller is attached and no fault is shown.
func (s *Server) RefreshHealth() healthpb.HealthCheckResponse_ServingStatus {
	frame := s.source.Latest()

	st := healthpb.HealthCheckResponse_NOT_SERVING
	if frame.Sequence != 0 && !frame.Blanked && !frame.Fault {
		st = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus(ServiceName, st)

	return st
}

// WatchHealth refreshes the health status every interval until ctx is done,
// then marks every service as not serving.
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.RefreshHealth()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()

			return
		case <-ticker.C:
			if st := s.RefreshHealth(); st != last {
				logger.InfoKV(ctx, "Panel health changed", "status", st.String())
				last = st
			}
		}
	}
}
