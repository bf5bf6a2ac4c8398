package monitor

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/numeric"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/domain/tick"
)

// fixedSource always returns the same frame.
type fixedSource struct {
	frame display.Frame
}

func (s *fixedSource) Latest() display.Frame { return s.frame }

func runningFrame() display.Frame {
	v := display.View{
		Values:       numeric.Defaults(),
		Power:        power.On,
		Blink:        tick.BlinkOff,
		AliveMinutes: 90,
	}

	v.Values.TidalVolume.Val = 500
	v.Alarms[alarm.PeakPressure] = alarm.Set

	f := display.Compose(v)
	f.Sequence = 7

	return f
}

// TestServer_GetFrame_Errors maps bad requests and missing frames to status codes.
func TestServer_GetFrame_Errors(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fixedSource{})

	_, err := srv.GetFrame(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = srv.GetFrame(context.Background(), &emptypb.Empty{})
	require.Equal(t, codes.Unavailable, status.Code(err))
}

// TestServer_GetFrame encodes the headline values and numeric fields.
func TestServer_GetFrame(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fixedSource{frame: runningFrame()})

	out, err := srv.GetFrame(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	sum := Summarize(out)
	require.Equal(t, uint64(7), sum.Sequence)
	require.Equal(t, "on", sum.Power)
	require.True(t, sum.Attached)
	require.False(t, sum.Fault)
	require.Equal(t, uint32(90), sum.AliveMinutes)
	require.Equal(t, []string{"peak_pressure"}, sum.Alarms)

	v, ok := Field(out, display.TidalVolume)
	require.True(t, ok)
	require.Equal(t, int32(400), v)
}

// TestFrameToStruct_Blank encodes dark displays as null and the power off LED by name.
func TestFrameToStruct_Blank(t *testing.T) {
	t.Parallel()

	f := display.Compose(display.View{Power: power.Off})

	out, err := FrameToStruct(&f)
	require.NoError(t, err)

	_, ok := Field(out, display.PEEP)
	require.False(t, ok)
	require.Equal(t, []string{"power_off"}, Summarize(out).Alarms)
	require.Empty(t, Summarize(&structpb.Struct{}).Alarms)
}

// TestServer_RefreshHealth serves only while attached and not faulted.
func TestServer_RefreshHealth(t *testing.T) {
	t.Parallel()

	src := &fixedSource{}
	srv := NewServer(src)

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.RefreshHealth())

	src.frame = runningFrame()
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.RefreshHealth())

	src.frame = display.Compose(display.View{ForceBlank: true})
	src.frame.Sequence = 1
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.RefreshHealth())

	src.frame = display.Compose(display.View{Fault: true})
	src.frame.Sequence = 2
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.RefreshHealth())
}

// TestServer_OverTheWire calls GetFrame and Check through a real gRPC stack.
func TestServer_OverTheWire(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 16)
	gs := grpc.NewServer()

	srv := NewServer(&fixedSource{frame: runningFrame()})
	srv.Register(gs)
	srv.RefreshHealth()

	go func() {
		_ = gs.Serve(lis)
	}()

	defer gs.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	defer func() {
		_ = conn.Close()
	}()

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), GetFrameMethod, &emptypb.Empty{}, out))
	require.Equal(t, "on", Summarize(out).Power)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

// TestCaller reads the identity from incoming metadata.
func TestCaller(t *testing.T) {
	t.Parallel()

	host, user := Caller(context.Background())
	require.Empty(t, host)
	require.Empty(t, user)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataHostname, "bench-2"))
	host, user = Caller(ctx)
	require.Equal(t, "bench-2", host)
	require.Empty(t, user)
}

// TestServer_UnavailableUntilFirstRender serves a fresh publisher and
// answers only once the control cycle has rendered a frame.
func TestServer_UnavailableUntilFirstRender(t *testing.T) {
	t.Parallel()

	pub := display.NewPublisher(context.Background())
	srv := NewServer(pub)

	_, err := srv.GetFrame(context.Background(), &emptypb.Empty{})
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, srv.RefreshHealth())

	pub.Render(display.View{Power: power.Off})

	out, err := srv.GetFrame(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, uint64(1), Summarize(out).Sequence)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, srv.RefreshHealth())
}
