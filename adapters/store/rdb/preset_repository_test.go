package rdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolo-us/appvalues/domain"
	"github.com/apolo-us/appvalues/domain/model"
)

func newTestRepo(t *testing.T) *PresetRepository {
	t.Helper()
	db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "presets.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewPresetRepository(db)
}

func TestOpenFromURLUnsupported(t *testing.T) {
	_, err := OpenFromURL("postgres://localhost/db")
	assert.ErrorContains(t, err, "unsupported db scheme")
}

func TestPresetRepository(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	gpu := &model.Preset{
		Name:          "gpu-small",
		CPU:           4,
		Memory:        16e9,
		Shm:           true,
		Accelerators:  []model.Accelerator{{Vendor: model.GPUVendorNvidia, Count: 1, Memory: 16e9, Model: "t4"}},
		ResourcePools: []string{"gpu_pool"},
	}
	require.NoError(t, r.Upsert(ctx, gpu))
	require.NoError(t, r.Upsert(ctx, &model.Preset{Name: "cpu-small", CPU: 1, Memory: 1e9}))

	got, err := r.Get(ctx, "gpu-small")
	require.NoError(t, err)
	assert.Equal(t, gpu, got)

	// Upsert replaces.
	gpu.CPU = 8
	require.NoError(t, r.Upsert(ctx, gpu))
	got, err = r.Get(ctx, "gpu-small")
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.CPU)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cpu-small", list[0].Name)
	assert.Empty(t, list[0].Accelerators)

	require.NoError(t, r.Delete(ctx, "cpu-small"))
	_, err = r.Get(ctx, "cpu-small")
	assert.ErrorIs(t, err, domain.ErrPresetNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "cpu-small"), domain.ErrPresetNotFound)
}
