package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vent-panel/internal/domain/panel"
)

// TestFileRepository_NotFound verifies Load reports ErrNotFound for a missing file and a missing key.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	_, err := repo.Load(context.Background(), AliveMinutes)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Save(context.Background(), PIDKp, 1))

	_, err = repo.Load(context.Background(), AliveMinutes)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_SaveLoad keeps independent records side by side.
func TestFileRepository_SaveLoad(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "records.json")
	repo := NewFileRepository(file)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, AliveMinutes, 4_000_000_000))
	require.NoError(t, repo.Save(ctx, Shape, 7))
	require.NoError(t, repo.Save(ctx, AliveMinutes, 61))

	got, err := repo.Load(ctx, AliveMinutes)
	require.NoError(t, err)
	require.Equal(t, uint32(61), got)

	got, err = repo.Load(ctx, Shape)
	require.NoError(t, err)
	require.Equal(t, uint32(7), got)

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// TestFileRepository_BadValue rejects values that are not uint32.
func TestFileRepository_BadValue(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"alive_minutes": -1, "shape": "x"}`), 0o600))

	repo := NewFileRepository(file)

	_, err := repo.Load(context.Background(), AliveMinutes)
	require.ErrorIs(t, err, errBadValue)

	_, err = repo.Load(context.Background(), Shape)
	require.ErrorIs(t, err, errBadValue)
}

// TestFileRepository_Corrupt surfaces decode errors instead of ErrNotFound.
func TestFileRepository_Corrupt(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(file, []byte("{"), 0o600))

	repo := NewFileRepository(file)

	_, err := repo.Load(context.Background(), AliveMinutes)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Error(t, repo.Save(context.Background(), AliveMinutes, 1))
}

// TestTuning_RoundTrip stores signed tuning values and fills gaps with defaults.
func TestTuning_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "records.json"))
	ctx := context.Background()
	defaults := panel.DefaultTuning()

	got, err := LoadTuning(ctx, repo, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, got)

	require.NoError(t, repo.Save(ctx, IntegralLower, uint32(0xFFFFFF00)))

	got, err = LoadTuning(ctx, repo, defaults)
	require.NoError(t, err)
	require.Equal(t, int32(-256), got.IntegralLower)
	require.Equal(t, defaults.Kp, got.Kp)

	want := defaults
	want.Delay = 12
	want.IntegralLower = -7
	require.NoError(t, SaveTuning(ctx, repo, want))

	got, err = LoadTuning(ctx, repo, panel.Tuning{})
	require.NoError(t, err)
	require.Equal(t, want, got)
}
