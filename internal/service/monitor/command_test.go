package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/vent-panel/internal/api/grpc/monitor"
	"github.com/oshokin/vent-panel/internal/display"
	"github.com/oshokin/vent-panel/internal/domain/alarm"
	"github.com/oshokin/vent-panel/internal/domain/power"
	"github.com/oshokin/vent-panel/internal/logger"
)

var errTestUnreachable = errors.New("connection refused")

// scriptedReader returns the given views as frames, one per call.
type scriptedReader struct {
	views  []display.View
	fail   bool
	health healthpb.HealthCheckResponse_ServingStatus
}

func (r *scriptedReader) GetFrame(context.Context) (*structpb.Struct, error) {
	if r.fail {
		return nil, errTestUnreachable
	}

	v := r.views[0]
	if len(r.views) > 1 {
		r.views = r.views[1:]
	}

	f := display.Compose(v)
	f.Sequence = 1

	return api.FrameToStruct(&f)
}

func (r *scriptedReader) Health(context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	return r.health, nil
}

func observed() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// TestWatcher_LogsChangesOnly logs the first frame and then only differences.
func TestWatcher_LogsChangesOnly(t *testing.T) {
	t.Parallel()

	ctx, logs := observed()

	on := display.View{Power: power.On}
	alarmed := on
	alarmed.Alarms[alarm.LowPower] = alarm.Latch

	r := &scriptedReader{
		views:  []display.View{on, on, alarmed, alarmed},
		health: healthpb.HealthCheckResponse_SERVING,
	}
	w := new(watcher)

	w.poll(ctx, r)
	require.Equal(t, 1, logs.FilterMessage("Panel state").Len())
	require.Equal(t, 1, logs.FilterMessage("Panel alarms").Len())
	require.Equal(t, 1, logs.FilterMessage("Panel health").Len())

	w.poll(ctx, r)
	require.Equal(t, 3, logs.Len())

	w.poll(ctx, r)
	require.Equal(t, 2, logs.FilterMessage("Panel alarms").Len())
	require.Equal(t, []string{"low_power"}, w.last.Alarms)

	w.poll(ctx, r)
	require.Equal(t, 4, logs.Len())
}

// TestWatcher_FaultAndOutage logs a fault once and an outage once.
func TestWatcher_FaultAndOutage(t *testing.T) {
	t.Parallel()

	ctx, logs := observed()

	r := &scriptedReader{views: []display.View{{Fault: true}}}
	w := new(watcher)

	w.poll(ctx, r)
	w.poll(ctx, r)
	require.Equal(t, 1, logs.FilterMessage("Panel shows machine fault").Len())

	r.fail = true
	w.poll(ctx, r)
	w.poll(ctx, r)
	require.Equal(t, 1, logs.FilterMessage("Panel unreachable").Len())

	r.fail = false
	w.poll(ctx, r)
	require.Equal(t, 1, logs.FilterMessage("Panel reachable again").Len())
}

// TestRun_MissingConfig fails before dialing.
func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.ErrorContains(t, err, "load configuration")
}
