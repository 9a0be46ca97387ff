package helmrel

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chartutil"
	kubefake "helm.sh/helm/v3/pkg/kube/fake"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage"
	"helm.sh/helm/v3/pkg/storage/driver"

	"github.com/apolo-us/appvalues/domain/model"
)

func newTestReader(t *testing.T, rels ...*release.Release) *Reader {
	t.Helper()
	cfg := &action.Configuration{
		Releases:     storage.Init(driver.NewMemory()),
		KubeClient:   &kubefake.PrintingKubeClient{Out: io.Discard},
		Capabilities: chartutil.DefaultCapabilities,
		Log:          func(string, ...any) {},
	}
	for _, r := range rels {
		require.NoError(t, cfg.Releases.Create(r))
	}
	return NewReaderFromConfiguration(cfg)
}

func testRelease(version int, cfg map[string]any) *release.Release {
	return &release.Release{
		Name:      "weaviate-abc123",
		Namespace: "ns",
		Version:   version,
		Config:    cfg,
		Info:      &release.Info{Status: release.StatusDeployed},
		Chart:     &chart.Chart{Metadata: &chart.Metadata{Name: "weaviate", Version: "1.0.0"}},
	}
}

func TestValues(t *testing.T) {
	r := newTestReader(t,
		testRelease(1, map[string]any{"apolo_app_type": "weaviate", "old": true}),
		testRelease(2, map[string]any{"apolo_app_type": "weaviate", "apolo_app_id": "abc123"}),
	)
	v, err := r.Values(context.Background(), "weaviate-abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", v["apolo_app_id"])
	assert.NotContains(t, v, "old")
}

func TestValuesNotFound(t *testing.T) {
	r := newTestReader(t)
	_, err := r.Values(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
