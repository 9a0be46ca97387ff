package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCompile(t *testing.T) {
	before := testutil.ToFloat64(CompilesTotal.WithLabelValues("weaviate", ResultError))
	ObserveCompile("weaviate", time.Now(), errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(CompilesTotal.WithLabelValues("weaviate", ResultError)))
}

func TestWriteTextfile(t *testing.T) {
	require.NoError(t, WriteTextfile(""))

	SecretRetriesTotal.Inc()
	path := filepath.Join(t.TempDir(), "appvalues.prom")
	require.NoError(t, WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "appvalues_secret_put_retries_total"))
}
