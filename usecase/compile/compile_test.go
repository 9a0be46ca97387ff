package compile

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolo-us/appvalues/adapters/store/inmem"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/metrics"
	"github.com/apolo-us/appvalues/schema"
	"github.com/apolo-us/appvalues/usecase/preset"
)

type fakePlatform struct{}

func (fakePlatform) Cluster(context.Context) (*model.ClusterConfig, error) {
	return &model.ClusterConfig{
		Name:                "default",
		Org:                 "myorg",
		Project:             "myproject",
		IngressHostTemplate: "{app_names}.apps.default.org.apolo.us",
		AppsSecretsName:     "apps-secrets",
	}, nil
}

func (fakePlatform) Bucket(_ context.Context, id string) (*model.Bucket, error) {
	return nil, model.ErrNotFound
}

func (fakePlatform) ImagePullCredentials(context.Context, model.ImagePullRequest) (*model.RegistryCredentials, error) {
	return &model.RegistryCredentials{Username: "sa", Token: "tok"}, nil
}

func newUseCase(t *testing.T) *UseCase {
	t.Helper()
	repo := inmem.NewPresetRepository()
	pu := &preset.UseCase{Repos: &preset.Repos{Preset: repo}, Cluster: "default"}
	_, err := pu.Import(context.Background(), &preset.ImportInput{Presets: []*model.Preset{
		{Name: "cpu-small", CPU: 1, Memory: 2e9, ResourcePools: []string{"cpu_pool"}},
	}})
	require.NoError(t, err)
	return &UseCase{Presets: pu.Catalog(), Platform: fakePlatform{}}
}

func request(appType model.AppType) CompileInput {
	return CompileInput{AppType: appType, AppName: "my-app", Namespace: "ns", AppID: "abc123"}
}

func TestCompile(t *testing.T) {
	ctx := context.Background()
	u := newUseCase(t)

	in := request(model.AppTypeCustomDeployment)
	in.Input = &schema.CustomDeploymentInputs{Preset: "cpu-small", Image: model.Image{Repository: "nginx", Tag: "1.27"}}
	before := testutil.ToFloat64(metrics.CompilesTotal.WithLabelValues("custom-deployment", metrics.ResultSuccess))

	out, err := u.Compile(ctx, &in)
	require.NoError(t, err)
	assert.Equal(t, []string{"--timeout", "15m", "--dependency-update"}, out.HelmArgs)
	assert.Equal(t, "custom-deployment", out.Values["apolo_app_type"])
	assert.Equal(t, "cpu-small", out.Values["preset_name"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CompilesTotal.WithLabelValues("custom-deployment", metrics.ResultSuccess))-before)
}

func TestCompileErrors(t *testing.T) {
	ctx := context.Background()
	u := newUseCase(t)

	tests := []struct {
		name    string
		in      func() CompileInput
		wantErr error
	}{
		{
			name: "unknown preset",
			in: func() CompileInput {
				in := request(model.AppTypeCustomDeployment)
				in.Input = &schema.CustomDeploymentInputs{Preset: "nope", Image: model.Image{Repository: "nginx"}}
				return in
			},
			wantErr: model.ErrUnknownPreset,
		},
		{
			name: "input type mismatch",
			in: func() CompileInput {
				in := request(model.AppTypeJupyter)
				in.Input = &schema.CustomDeploymentInputs{Preset: "cpu-small", Image: model.Image{Repository: "nginx"}}
				return in
			},
			wantErr: model.ErrValidation,
		},
		{
			name:    "missing input",
			in:      func() CompileInput { return request(model.AppTypeCustomDeployment) },
			wantErr: model.ErrValidation,
		},
		{
			name: "weaviate persistence below minimum",
			in: func() CompileInput {
				in := request(model.AppTypeWeaviate)
				in.Input = &schema.WeaviateInputs{Preset: "cpu-small", Persistence: schema.Persistence{Size: 8}}
				return in
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "postgres reserved user",
			in: func() CompileInput {
				in := request(model.AppTypePostgres)
				in.Input = &schema.PostgresInputs{
					Preset:         "cpu-small",
					PostgresConfig: schema.PostgresConfig{InstanceSize: 1},
					PgBouncer:      schema.PGBouncer{Preset: "cpu-small"},
					DBUsers:        []schema.PostgresDBUser{{Name: "postgres"}},
				}
				return in
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "mlflow postgres backend without uri",
			in: func() CompileInput {
				in := request(model.AppTypeMLflow)
				in.Input = &schema.MLflowInputs{Preset: "cpu-small", Backend: schema.MLflowBackend{DatabaseType: schema.DatabasePostgres}}
				return in
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "missing app id",
			in: func() CompileInput {
				in := request(model.AppTypeCustomDeployment)
				in.AppID = ""
				in.Input = &schema.CustomDeploymentInputs{Preset: "cpu-small", Image: model.Image{Repository: "nginx"}}
				return in
			},
			wantErr: model.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in()
			_, err := u.Compile(ctx, &in)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompileRaw(t *testing.T) {
	ctx := context.Background()
	u := newUseCase(t)

	t.Run("yaml document", func(t *testing.T) {
		in := &CompileRawInput{
			CompileInput: request(model.AppTypeCustomDeployment),
			Data:         []byte("preset: cpu-small\nimage:\n  repository: nginx\n"),
		}
		out, err := u.CompileRaw(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "cpu-small", out.Values["preset_name"])
	})

	t.Run("raw map", func(t *testing.T) {
		in := &CompileRawInput{
			CompileInput: request(model.AppTypeCustomDeployment),
			Raw:          map[string]any{"preset": "cpu-small", "image": map[string]any{"repository": "nginx"}},
		}
		_, err := u.CompileRaw(ctx, in)
		require.NoError(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		in := &CompileRawInput{
			CompileInput: request(model.AppTypeCustomDeployment),
			Raw:          map[string]any{"preset": "cpu-small", "image": map[string]any{"repository": "nginx"}, "extra": 1},
		}
		_, err := u.CompileRaw(ctx, in)
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("unsupported app type", func(t *testing.T) {
		in := &CompileRawInput{CompileInput: request("kafka"), Raw: map[string]any{}}
		_, err := u.CompileRaw(ctx, in)
		require.ErrorIs(t, err, model.ErrUnsupportedAppType)
	})
}
