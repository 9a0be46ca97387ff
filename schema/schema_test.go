package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolo-us/appvalues/domain/model"
)

func validationPath(t *testing.T, err error) string {
	t.Helper()
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Path
}

func TestDecodeInputBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		appType  model.AppType
		doc      string
		wantPath string
	}{
		{
			name:     "weaviate below minimum size",
			appType:  model.AppTypeWeaviate,
			doc:      `{"preset":"cpu-small","persistence":{"size":31}}`,
			wantPath: "persistence.size",
		},
		{
			name:     "lightrag zero persistence",
			appType:  model.AppTypeLightRAG,
			doc:      `{"preset":"p","persistence":{"size":0},"llm":{},"embedding":{},"postgres":{"credentials":{}}}`,
			wantPath: "persistence.size",
		},
		{
			name:     "postgres without users",
			appType:  model.AppTypePostgres,
			doc:      `{"preset":"p","postgres_config":{"instance_size":1},"pg_bouncer":{"preset":"p"},"db_users":[]}`,
			wantPath: "db_users",
		},
		{
			name:     "postgres reserved user",
			appType:  model.AppTypePostgres,
			doc:      `{"preset":"p","postgres_config":{"instance_size":1},"pg_bouncer":{"preset":"p"},"db_users":[{"name":"admin"},{"name":"postgres"}]}`,
			wantPath: "db_users[1].name",
		},
		{
			name:     "unknown field",
			appType:  model.AppTypeJupyter,
			doc:      `{"preset":"p","colour":"red"}`,
			wantPath: "",
		},
		{
			name:     "wrong type reports field",
			appType:  model.AppTypeWeaviate,
			doc:      `{"preset":"p","persistence":{"size":"big"}}`,
			wantPath: "persistence.size",
		},
		{
			name:     "yaml wrong type reports nested field",
			appType:  model.AppTypePostgres,
			doc:      "preset: p\npostgres_config:\n  instance_size: large\n",
			wantPath: "postgres_config.instance_size",
		},
		{
			name:     "custom deployment mount path",
			appType:  model.AppTypeCustomDeployment,
			doc:      `{"preset":"p","image":{"repository":"nginx"},"storage_mounts":{"mounts":[{"storage_uri":"storage:a","mount_path":"rel"}]}}`,
			wantPath: "storage_mounts.mounts[0].mount_path",
		},
		{
			name:     "custom auth without middleware",
			appType:  model.AppTypeMLflow,
			doc:      `{"preset":"p","backend":{"database_type":"sqlite"},"ingress_http":{"auth":{"type":"custom"}}}`,
			wantPath: "ingress_http.auth.middleware_name",
		},
		{
			name:     "mlflow postgres without uri",
			appType:  model.AppTypeMLflow,
			doc:      `{"preset":"p","backend":{"database_type":"postgres"}}`,
			wantPath: "backend.postgres.postgres_uri",
		},
		{
			name:     "spark java without main class",
			appType:  model.AppTypeSparkJob,
			doc:      `{"image":{"repository":"spark"},"spark_application_config":{"type":"java","main_application_file":"storage:app.jar"},"driver_config":{"preset":"p"},"executor_config":{"preset":"p"}}`,
			wantPath: "spark_application_config.main_class",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInput(tt.appType, []byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Equal(t, tt.wantPath, validationPath(t, err))
		})
	}
}

func TestDecodeInputYAML(t *testing.T) {
	doc := `
preset: gpu-small
hugging_face_model:
  model_hf_name: meta-llama/Llama-3.1-8B-Instruct
  hf_token:
    key: hf-token
server_extra_args: ["--max-model-len=4096"]
ingress_http:
  auth:
    type: none
`
	in, err := DecodeInput(model.AppTypeLLMInference, []byte(doc))
	require.NoError(t, err)
	llm := in.(*LLMInferenceInputs)
	assert.Equal(t, "gpu-small", llm.Preset)
	require.NotNil(t, llm.HuggingFaceModel.HFToken)
	assert.True(t, llm.HuggingFaceModel.HFToken.IsSecret())
	assert.Equal(t, model.AuthNone, llm.IngressHTTP.Auth.Effective())
}

func TestInputRoundTripPreservesSecretRefs(t *testing.T) {
	doc := `{
		"preset": "cpu-small",
		"image": {"repository": "any", "tag": "latest"},
		"container": {"env": [
			{"name": "PLAIN", "value": "x"},
			{"name": "SECRET", "value": {"key": "db-password"}}
		]},
		"networking": {"ports": [{"name": "http", "port": 8080}]},
		"docker_config": {"file": {"key": "dockerconfig"}}
	}`
	in, err := DecodeInput(model.AppTypeCustomDeployment, []byte(doc))
	require.NoError(t, err)

	data, err := Encode(in)
	require.NoError(t, err)
	again, err := DecodeInput(model.AppTypeCustomDeployment, data)
	require.NoError(t, err)
	assert.Equal(t, in, again)

	cd := again.(*CustomDeploymentInputs)
	assert.False(t, cd.Container.Env[0].Value.IsSecret())
	assert.Equal(t, "db-password", cd.Container.Env[1].Value.Ref().Key)
	assert.True(t, cd.DockerConfig.File.IsSecret())
}

func TestDecodeInputMap(t *testing.T) {
	in, err := DecodeInputMap(model.AppTypeWeaviate, map[string]any{
		"preset":      "cpu-large",
		"persistence": map[string]any{"size": 64},
		"cluster_api": map[string]any{"username": "admin", "password": "pw"},
	})
	require.NoError(t, err)
	w := in.(*WeaviateInputs)
	assert.Equal(t, 64, w.Persistence.Size)
	assert.Equal(t, "admin", w.ClusterAPI.Username)
}

func TestRegistryCoversEveryAppType(t *testing.T) {
	for _, at := range model.AppTypes() {
		in, err := NewInput(at)
		require.NoError(t, err, at)
		if at != model.AppTypeLLMBundle && at != model.AppTypeJupyter && at != model.AppTypeOpenWebUI {
			assert.Equal(t, at, in.AppType())
		}
		_, err = NewOutput(at)
		require.NoError(t, err, at)
	}
	_, err := NewInput("wordpress")
	assert.ErrorIs(t, err, model.ErrUnsupportedAppType)
}

func TestOutputRoundTrip(t *testing.T) {
	api := model.NewRestAPI("http", "pg.ns", 5432, "/")
	out := &PostgresOutputs{PostgresUsers: PostgresUsers{Users: []model.CrunchyPostgresUserCredentials{{
		User:     "admin",
		Password: model.SecretRef{Key: "postgres-admin-password-app1"},
		Host:     api.Host, Port: api.Port,
		URI: &model.SecretRef{Key: "postgres-admin-uri-app1"},
	}}}}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	back, err := DecodeOutput(model.AppTypePostgres, data)
	require.NoError(t, err)
	assert.Equal(t, out, back)
}
