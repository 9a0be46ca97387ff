package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
version: v1
cluster:
  name: default
  org: myorg
  project: myproject
  ingressHostTemplate: "{app_names}.apps.default.org.apolo.us"
  appsSecretsName: apps-secrets
  secretsNamespace: platform-apps
presets:
  - name: cpu-small
    cpu: 1
    memory: 4Gi
    resourcePools: [cpu_pool]
  - name: gpu-small
    cpu: 4
    memory: 16Gi
    nvidiaGPU: {count: 1, memory: 16Gi}
`

const testInput = `
preset: cpu-small
image:
  repository: nginx
  tag: "1.27"
`

// run executes the CLI with a fresh root command and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KUBECONFIG", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
	t.Setenv("APPVALUES_LOG_FORMAT", "")
	t.Setenv("APPVALUES_PRESET_DB", "")

	dir := t.TempDir()
	cfg := filepath.Join(dir, "appvalues.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(testConfig), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfg, "--log-output", "none"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	out, err := run(t, testInput, "compile", "--app-type", "custom-deployment", "--app-name", "web", "--namespace", "ns", "--app-id", "abc123")
	require.NoError(t, err)

	var got struct {
		HelmArgs []string       `json:"helmArgs"`
		Values   map[string]any `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"--timeout", "15m", "--dependency-update"}, got.HelmArgs)
	assert.Equal(t, "cpu-small", got.Values["preset_name"])
	assert.Equal(t, "abc123", got.Values["apolo_app_id"])
}

func TestCompileCommandValuesOutput(t *testing.T) {
	out, err := run(t, testInput, "compile", "--app-type", "custom-deployment", "--namespace", "ns", "--app-id", "abc123", "-o", "values")
	require.NoError(t, err)
	assert.Contains(t, out, "preset_name: cpu-small")
	assert.Contains(t, out, "apolo_app_type: custom-deployment")
}

func TestCompileCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown app type",
			stdin:   testInput,
			args:    []string{"compile", "--app-type", "kafka", "--app-id", "abc123"},
			wantErr: "kafka",
		},
		{
			name:    "missing app id",
			stdin:   testInput,
			args:    []string{"compile", "--app-type", "custom-deployment"},
			wantErr: "app-id",
		},
		{
			name:    "bad output format",
			stdin:   testInput,
			args:    []string{"compile", "--app-type", "custom-deployment", "--app-id", "abc123", "-o", "toml"},
			wantErr: "unsupported output format",
		},
		{
			name:    "unknown preset",
			stdin:   "preset: huge\nimage: {repository: nginx}\n",
			args:    []string{"compile", "--app-type", "custom-deployment", "--namespace", "ns", "--app-id", "abc123"},
			wantErr: "huge",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompileCommandMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appvalues.prom")
	_, err := run(t, testInput, "--metrics-file", path, "compile", "--app-type", "custom-deployment", "--namespace", "ns", "--app-id", "abc123")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `appvalues_compiles_total{app_type="custom-deployment",result="success"}`)
}

func TestPresetsImportAndList(t *testing.T) {
	db := "sqlite:" + filepath.Join(t.TempDir(), "presets.db")

	out, err := run(t, "", "--preset-db", db, "presets", "import")
	require.NoError(t, err)
	assert.Equal(t, "imported 2 presets, pruned 0\n", out)

	out, err = run(t, "", "--preset-db", db, "presets", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "cpu-small"))
	assert.True(t, strings.HasPrefix(lines[2], "gpu-small"))
	assert.Contains(t, lines[2], "nvidia:1x16Gi")
}

func TestPresetsImportRequiresDB(t *testing.T) {
	_, err := run(t, "", "presets", "import")
	assert.ErrorContains(t, err, "--preset-db is required")
}

func TestUpdateOutputsArgs(t *testing.T) {
	_, err := run(t, "", "update-outputs", "--namespace", "ns")
	assert.ErrorContains(t, err, "either the values document or --release")

	_, err = run(t, "", "update-outputs", "--namespace", "ns", "--release", "r", `{"apolo_app_id":"x"}`)
	assert.ErrorContains(t, err, "either the values document or --release")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "appvalues version latest"))
}
