package processor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	testAppID     = "abc123"
	testNamespace = "platform--myorg--myproject"
)

type fakeCatalog struct {
	presets []*model.Preset
}

func (c *fakeCatalog) Resolve(_ context.Context, name string) (*model.Preset, error) {
	for _, p := range c.presets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &model.UnknownPresetError{Cluster: "default", Name: name}
}

func (c *fakeCatalog) List(context.Context) ([]*model.Preset, error) { return c.presets, nil }

type fakePlatform struct {
	cluster *model.ClusterConfig
	buckets map[string]*model.Bucket
	pulls   []model.ImagePullRequest
}

func (p *fakePlatform) Cluster(context.Context) (*model.ClusterConfig, error) {
	c := *p.cluster
	return &c, nil
}

func (p *fakePlatform) Bucket(_ context.Context, id string) (*model.Bucket, error) {
	b, ok := p.buckets[id]
	if !ok {
		return nil, fmt.Errorf("bucket %q: %w", id, model.ErrNotFound)
	}
	return b, nil
}

func (p *fakePlatform) ImagePullCredentials(_ context.Context, req model.ImagePullRequest) (*model.RegistryCredentials, error) {
	p.pulls = append(p.pulls, req)
	return &model.RegistryCredentials{Username: "image-pull-sa", Token: "tok"}, nil
}

func testPresets() []*model.Preset {
	return []*model.Preset{
		{Name: "cpu-small", CPU: 1, Memory: 2e9, ResourcePools: []string{"cpu_pool"}},
		{Name: "cpu-large", CPU: 4, Memory: 16e9, ResourcePools: []string{"cpu_pool"}},
		{
			Name: "gpu-small", CPU: 4, Memory: 16e9, Shm: true, ResourcePools: []string{"gpu_pool"},
			Accelerators: []model.Accelerator{{Vendor: model.GPUVendorNvidia, Count: 1, Memory: 16e9}},
		},
		{
			Name: "t4-medium", CPU: 8, Memory: 32e9, ResourcePools: []string{"gpu_pool"},
			Accelerators: []model.Accelerator{{Vendor: model.GPUVendorNvidia, Count: 1, Memory: 16e9}},
		},
		{
			Name: "a100-large", CPU: 16, Memory: 128e9, ResourcePools: []string{"gpu_pool"},
			Accelerators: []model.Accelerator{{Vendor: model.GPUVendorNvidia, Count: 1, Memory: 80e9}},
		},
		{
			Name: "gpu-extra-large", CPU: 32, Memory: 256e9, ResourcePools: []string{"gpu_pool"},
			Accelerators: []model.Accelerator{{Vendor: model.GPUVendorNvidia, Count: 3, Memory: 80e9}},
		},
	}
}

func newTestDeps() (Deps, *fakePlatform) {
	platform := &fakePlatform{
		cluster: &model.ClusterConfig{
			Name:                  "default",
			Org:                   "myorg",
			Project:               "myproject",
			IngressHostTemplate:   "{app_names}.apps.default.org.apolo.us",
			AuthMiddlewareAddress: "http://auth.platform:8080/oauth/authorize",
			RegistryHost:          "registry.default.org.apolo.us",
			AppsSecretsName:       "apps-secrets",
			AppTypesImageTag:      "v25.4.0",
		},
		buckets: map[string]*model.Bucket{
			"aws-bucket": {
				ID: "aws-bucket", Provider: model.BucketProviderAWS, Name: "backups",
				Endpoint: "https://s3.us-east-1.amazonaws.com", Region: "us-east-1",
				AccessKeyID: "AKIA", SecretAccessKey: "s3cr3t",
			},
			"gcp-bucket": {ID: "gcp-bucket", Provider: model.BucketProviderGCP, Name: "backups", KeyJSON: "{}"},
			"minio-bucket": {
				ID: "minio-bucket", Provider: model.BucketProviderMinio, Name: "backups",
				Endpoint: "https://minio.local", AccessKeyID: "minio", SecretAccessKey: "minio123",
			},
			"azure-bucket": {ID: "azure-bucket", Provider: model.BucketProviderAzure, Name: "backups"},
		},
	}
	return Deps{Presets: &fakeCatalog{presets: testPresets()}, Platform: platform}, platform
}

func testRequest() Request {
	return Request{AppName: "my-app", Namespace: testNamespace, AppID: testAppID}
}

func compile(t *testing.T, in schema.Input) values.Values {
	t.Helper()
	d, _ := newTestDeps()
	p, err := NewRegistry(d).Lookup(in.AppType())
	require.NoError(t, err)
	v, err := p.ExtraValues(context.Background(), in, testRequest())
	require.NoError(t, err)
	return v
}

func lookup(t *testing.T, v values.Values, keys ...string) any {
	t.Helper()
	got, ok := values.Lookup(v, keys...)
	require.True(t, ok, "missing %s", strings.Join(keys, "."))
	return got
}

func envByName(t *testing.T, env any) map[string]map[string]any {
	t.Helper()
	list, ok := env.([]any)
	require.True(t, ok, "env is %T", env)
	out := map[string]map[string]any{}
	for _, e := range list {
		m := e.(map[string]any)
		out[m["name"].(string)] = m
	}
	return out
}

func TestRegistryCoversAppTypes(t *testing.T) {
	d, _ := newTestDeps()
	r := NewRegistry(d)
	assert.Equal(t, model.AppTypes(), r.AppTypes())

	_, err := r.Lookup(model.AppType("nope"))
	assert.ErrorIs(t, err, model.ErrUnsupportedAppType)
}

func TestExtraHelmArgs(t *testing.T) {
	d, _ := newTestDeps()
	r := NewRegistry(d)
	tests := []struct {
		appType model.AppType
		want    []string
	}{
		{model.AppTypeLLMInference, []string{"--timeout", "30m", "--dependency-update"}},
		{model.AppTypeLLMBundle, []string{"--timeout", "30m", "--dependency-update"}},
		{model.AppTypePostgres, []string{"--timeout", "15m", "--dependency-update"}},
		{model.AppTypeJupyter, []string{"--timeout", "15m", "--dependency-update"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.appType), func(t *testing.T) {
			p, err := r.Lookup(tt.appType)
			require.NoError(t, err)
			in, err := schema.NewInput(tt.appType)
			require.NoError(t, err)
			got, err := p.ExtraHelmArgs(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustomDeploymentMultiPort(t *testing.T) {
	in := &schema.CustomDeploymentInputs{
		Preset: "cpu-small",
		Image:  model.Image{Repository: "any", Tag: "latest"},
		Container: &model.Container{Env: []model.Env{
			{Name: "A", Value: model.Literal("1")},
			{Name: "B", Value: model.Literal("2")},
			{Name: "C", Value: model.Secret("c-key")},
		}},
		Networking: &schema.Networking{
			Ports: []model.Port{
				{Name: "http1", Port: 8000, Path: "/p1"},
				{Name: "http2", Port: 9000, Path: "/p2"},
			},
			IngressHTTP: &model.IngressHTTP{},
		},
	}
	v := compile(t, in)

	assert.Equal(t, "cpu-small", v["preset_name"])
	wantPorts := []any{
		map[string]any{"name": "http1", "containerPort": 8000},
		map[string]any{"name": "http2", "containerPort": 9000},
	}
	if diff := cmp.Diff(wantPorts, lookup(t, v, "service", "ports")); diff != "" {
		t.Errorf("service.ports mismatch (-want +got):\n%s", diff)
	}
	hosts := lookup(t, v, "ingress", "hosts").([]any)
	require.Len(t, hosts, 1)
	wantPaths := []any{
		map[string]any{"path": "/p1", "portName": "http1"},
		map[string]any{"path": "/p2", "portName": "http2"},
	}
	assert.Equal(t, wantPaths, hosts[0].(map[string]any)["paths"])
	assert.Equal(t, "custom-deployment--abc123.apps.default.org.apolo.us", hosts[0].(map[string]any)["host"])

	env := envByName(t, lookup(t, v, "container", "env"))
	require.Len(t, env, 3)
	assert.Equal(t, "1", env["A"]["value"])
	assert.Equal(t, map[string]any{"name": "apps-secrets", "key": "c-key"}, env["C"]["valueFrom"].(map[string]any)["secretKeyRef"])

	assert.Equal(t, map[string]any{"repository": "any", "tag": "latest", "pullPolicy": "IfNotPresent"}, v["image"])
	assert.Equal(t, testAppID, v["apolo_app_id"])
	assert.Equal(t, "custom-deployment", v["apolo_app_type"])
	assert.Equal(t, "v25.4.0", lookup(t, v, "appTypesImage", "tag"))

	res := lookup(t, v, "resources").(map[string]any)
	assert.Equal(t, res["requests"], res["limits"])
}

func TestCustomDeploymentPlatformImage(t *testing.T) {
	d, platform := newTestDeps()
	in := &schema.CustomDeploymentInputs{
		Preset: "cpu-small",
		Image:  model.Image{Repository: "image:my-image", Tag: "v1"},
	}
	v, err := NewRegistry(d).procs[model.AppTypeCustomDeployment].ExtraValues(context.Background(), in, testRequest())
	require.NoError(t, err)

	assert.Equal(t, "registry.default.org.apolo.us/myorg/myproject/my-image", lookup(t, v, "image", "repository"))
	require.Len(t, platform.pulls, 1)
	assert.Equal(t, model.ImagePullRequest{AppID: testAppID, Scope: "image://default/myorg/myproject"}, platform.pulls[0])

	raw, err := base64.StdEncoding.DecodeString(v["dockerconfigjson"].(string))
	require.NoError(t, err)
	var cfg struct {
		Auths map[string]struct {
			Auth string `json:"auth"`
		} `json:"auths"`
	}
	require.NoError(t, json.Unmarshal(raw, &cfg))
	auth, err := base64.StdEncoding.DecodeString(cfg.Auths["registry.default.org.apolo.us"].Auth)
	require.NoError(t, err)
	assert.Equal(t, "image-pull-sa:tok", string(auth))

	// No ingress intent disables the ingress.
	assert.Equal(t, map[string]any{"enabled": false}, v["ingress"])
}

func TestLLMInferenceSingleGPU(t *testing.T) {
	tok := model.Literal("hf_xxx")
	in := &schema.LLMInferenceInputs{
		Preset:           "gpu-small",
		HuggingFaceModel: schema.HuggingFaceModel{ModelHFName: "test", HFToken: &tok},
	}
	v := compile(t, in)

	assert.Equal(t, "0", lookup(t, v, "envNvidia", "CUDA_VISIBLE_DEVICES"))
	assert.Equal(t, []any{}, v["serverExtraArgs"])
	assert.Equal(t, "hf_xxx", lookup(t, v, "env", "HUGGING_FACE_HUB_TOKEN"))
	assert.Equal(t, "test", lookup(t, v, "model", "tokenizerHFName"))
	assert.Equal(t, "nvidia", v["gpuProvider"])
	assert.Equal(t, true, lookup(t, v, "shm", "enabled"))
	assert.Equal(t, true, lookup(t, v, "modelDownload", "initEnabled"))

	var tolerated bool
	for _, tol := range v["tolerations"].([]any) {
		if tol.(map[string]any)["key"] == "nvidia.com/gpu" {
			tolerated = true
		}
	}
	assert.True(t, tolerated, "nvidia.com/gpu toleration missing")

	terms := lookup(t, v, "affinity", "nodeAffinity", "requiredDuringSchedulingIgnoredDuringExecution", "nodeSelectorTerms").([]any)
	expr := terms[0].(map[string]any)["matchExpressions"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"gpu_pool"}, expr["values"])
}

func TestLLMInferenceTensorParallel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []any
	}{
		{"injected", nil, []any{"--tensor-parallel-size=3"}},
		{"user tensor parallel wins", []string{"--tensor-parallel-size=2"}, []any{"--tensor-parallel-size=2"}},
		{"user pipeline parallel wins", []string{"--pipeline-parallel-size=3"}, []any{"--pipeline-parallel-size=3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &schema.LLMInferenceInputs{
				Preset:           "gpu-extra-large",
				HuggingFaceModel: schema.HuggingFaceModel{ModelHFName: "big"},
				ServerExtraArgs:  tt.args,
			}
			v := compile(t, in)
			assert.Equal(t, tt.want, v["serverExtraArgs"])
			assert.Equal(t, "0,1,2", lookup(t, v, "envNvidia", "CUDA_VISIBLE_DEVICES"))
		})
	}
}

func TestLLMInferenceCacheAndSecretToken(t *testing.T) {
	tok := model.Secret("hf-token")
	in := &schema.LLMInferenceInputs{
		Preset:           "gpu-small",
		HuggingFaceModel: schema.HuggingFaceModel{ModelHFName: "test", HFToken: &tok},
		CacheConfig:      &schema.HuggingFaceCache{FilesPath: "storage:.apps/hf-cache"},
	}
	v := compile(t, in)

	assert.Equal(t, map[string]any{"secretKeyRef": map[string]any{"name": "apps-secrets", "key": "hf-token"}},
		lookup(t, v, "env", "HUGGING_FACE_HUB_TOKEN", "valueFrom"))
	assert.Equal(t, true, lookup(t, v, "modelDownload", "hookEnabled"))

	raw := lookup(t, v, "podAnnotations", "platform.apolo.us/inject-storage").(string)
	var mounts []map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &mounts))
	assert.Equal(t, []map[string]string{{
		"storage_uri": "storage://default/myorg/myproject/.apps/hf-cache",
		"mount_path":  "/root/.cache/huggingface",
		"mount_mode":  "rw",
	}}, mounts)
	assert.Equal(t, "true", lookup(t, v, "podLabels", "platform.apolo.us/inject-storage"))
}

func TestSelectPreset(t *testing.T) {
	tests := []struct {
		name       string
		requiredGB int64
		want       string
		wantErr    error
	}{
		{"ties break by name", 16, "gpu-small", nil},
		{"smallest total vram", 80, "a100-large", nil},
		{"needs three units", 200, "gpu-extra-large", nil},
		{"nothing fits", 1790, "", model.ErrNoPresetSatisfies},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectPreset(testPresets(), tt.requiredGB)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestLLMBundle(t *testing.T) {
	d, _ := newTestDeps()
	p := NewRegistry(d).procs[model.AppTypeLLMBundle].(*LLMBundle)

	resolved, err := p.Resolve(context.Background(), &schema.LLMBundleInputs{ModelFamily: "deepseek-r1", Size: "distill-qwen-32b"})
	require.NoError(t, err)
	assert.Equal(t, "a100-large", resolved.Preset)

	v, err := p.ExtraValues(context.Background(), &schema.LLMBundleInputs{ModelFamily: "deepseek-r1", Size: "distill-qwen-32b"}, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "llm-bundle", v["apolo_app_type"])
	assert.Equal(t, "a100-large", v["preset_name"])

	_, err = p.Resolve(context.Background(), &schema.LLMBundleInputs{ModelFamily: "deepseek-r1", Size: "671b"})
	assert.ErrorIs(t, err, model.ErrNoPresetSatisfies)

	_, err = p.Resolve(context.Background(), &schema.LLMBundleInputs{ModelFamily: "gpt", Size: "7b"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUnknownPreset(t *testing.T) {
	d, _ := newTestDeps()
	in := &schema.CustomDeploymentInputs{Preset: "missing", Image: model.Image{Repository: "any"}}
	_, err := NewRegistry(d).procs[model.AppTypeCustomDeployment].ExtraValues(context.Background(), in, testRequest())
	assert.ErrorIs(t, err, model.ErrUnknownPreset)
}

func TestHostnameTooLong(t *testing.T) {
	d, _ := newTestDeps()
	in := &schema.CustomDeploymentInputs{
		Preset:     "cpu-small",
		Image:      model.Image{Repository: "any"},
		Networking: &schema.Networking{IngressHTTP: &model.IngressHTTP{}},
	}
	req := testRequest()
	req.AppID = strings.Repeat("a", 60)
	_, err := NewRegistry(d).procs[model.AppTypeCustomDeployment].ExtraValues(context.Background(), in, req)
	require.ErrorIs(t, err, model.ErrHostnameTooLong)
	assert.Contains(t, err.Error(), "consider a shorter app name")
}

func TestWeaviateBackup(t *testing.T) {
	d, _ := newTestDeps()
	p := NewRegistry(d).procs[model.AppTypeWeaviate]

	in := &schema.WeaviateInputs{
		Preset:         "cpu-large",
		Persistence:    schema.Persistence{Size: 64},
		ClusterAPI:     &schema.BasicAuth{Username: "admin", Password: model.Secret("weaviate-password")},
		IngressHTTP:    &model.IngressHTTP{},
		IngressGRPC:    &model.IngressGRPC{},
		BackupBucketID: "aws-bucket",
	}
	v, err := p.ExtraValues(context.Background(), in, testRequest())
	require.NoError(t, err)

	assert.Equal(t, true, lookup(t, v, "backups", "s3", "enabled"))
	assert.Equal(t, map[string]any{
		"BACKUP_S3_BUCKET":   "backups",
		"BACKUP_S3_ENDPOINT": "s3.us-east-1.amazonaws.com",
		"BACKUP_S3_REGION":   "us-east-1",
	}, lookup(t, v, "backups", "s3", "envconfig"))
	assert.Equal(t, map[string]any{
		"AWS_ACCESS_KEY_ID":     "AKIA",
		"AWS_SECRET_ACCESS_KEY": "s3cr3t",
	}, lookup(t, v, "backups", "s3", "secrets"))
	assert.Equal(t, "64Gi", lookup(t, v, "storage", "size"))
	assert.Equal(t, "admin", lookup(t, v, "clusterApi", "username"))
	assert.Equal(t, "weaviate--abc123-grpc.apps.default.org.apolo.us",
		lookup(t, v, "ingress", "grpc", "hosts").([]any)[0].(map[string]any)["host"])
	_, hasForwardAuth := values.Lookup(v, "ingress", "forwardAuth")
	assert.False(t, hasForwardAuth)

	for _, bucket := range []string{"gcp-bucket", "minio-bucket", "azure-bucket"} {
		t.Run(bucket, func(t *testing.T) {
			in := *in
			in.BackupBucketID = bucket
			_, err := p.ExtraValues(context.Background(), &in, testRequest())
			assert.ErrorIs(t, err, model.ErrBucketUnsupported)
		})
	}
}

func TestOpenWebUIAuthDatabaseMatrix(t *testing.T) {
	auths := []struct {
		name string
		auth model.IngressAuth
		want string
	}{
		{"apolo", model.ApoloAuth(), testNamespace + "-forwardauth@kubernetescrd," + testNamespace + "-strip-headers@kubernetescrd"},
		{"none", model.NoAuth(), ""},
		{"custom m1", model.CustomAuth("m1"), "m1@kubernetescrd"},
		{"custom m2", model.CustomAuth("m2"), "m2@kubernetescrd"},
	}
	databases := []schema.OpenWebUIDatabase{
		{DatabaseType: schema.DatabaseSQLite},
		{DatabaseType: schema.DatabasePostgres, Credentials: &model.CrunchyPostgresUserCredentials{
			User:          "owui",
			Password:      model.SecretRef{Key: "postgres-owui-password-" + testAppID},
			Host:          "pg-primary.ns.svc",
			Port:          5432,
			PgBouncerHost: "pg-pgbouncer.ns.svc",
			PgBouncerPort: 5432,
			DBName:        "openwebui",
		}},
	}
	for _, a := range auths {
		for _, db := range databases {
			t.Run(a.name+"/"+db.DatabaseType, func(t *testing.T) {
				in := &schema.OpenWebUIInputs{
					Preset:         "cpu-small",
					IngressHTTP:    &model.IngressHTTP{Auth: a.auth},
					DatabaseConfig: db,
				}
				v := compile(t, in)

				annotations := lookup(t, v, "ingress", "annotations").(map[string]any)
				mw, ok := annotations["traefik.ingress.kubernetes.io/router.middlewares"]
				if a.want == "" {
					assert.False(t, ok)
				} else {
					assert.Equal(t, a.want, mw)
				}

				env := envByName(t, lookup(t, v, "container", "env"))
				if db.DatabaseType == schema.DatabasePostgres {
					require.Contains(t, env, "DATABASE_URL")
					assert.True(t, strings.HasPrefix(env["DATABASE_URL"]["value"].(string), "postgresql://"))
					assert.Equal(t, "pgvector", env["VECTOR_DB"]["value"])
					assert.Equal(t, env["DATABASE_URL"]["value"], env["PGVECTOR_DB_URL"]["value"])
					assert.Contains(t, env["POSTGRES_PASSWORD"], "valueFrom")
				} else {
					assert.NotContains(t, env, "DATABASE_URL")
					assert.NotContains(t, env, "VECTOR_DB")
					assert.NotContains(t, env, "PGVECTOR_DB_URL")
				}
				assert.Equal(t, "False", env["ENABLE_OLLAMA_API"]["value"])
			})
		}
	}
}

func TestJupyterDefaults(t *testing.T) {
	v := compile(t, &schema.JupyterInputs{Preset: "cpu-small", IngressHTTP: &model.IngressHTTP{}})

	assert.Equal(t, "jupyter", v["apolo_app_type"])
	assert.Equal(t, []any{map[string]any{"name": "http", "containerPort": 8888}}, lookup(t, v, "service", "ports"))
	env := envByName(t, lookup(t, v, "container", "env"))
	assert.Equal(t, "lab", env["DOCKER_STACKS_JUPYTER_CMD"]["value"])

	raw := lookup(t, v, "podAnnotations", "platform.apolo.us/inject-storage").(string)
	assert.Contains(t, raw, `"storage_uri":"storage://default/myorg/myproject/.apps/jupyter/my-app"`)
	assert.Contains(t, raw, `"mount_path":"/home/jovyan/work"`)
	_, ok := values.Lookup(v, "ingress", "forwardAuth")
	assert.True(t, ok)
}

func TestPostgres(t *testing.T) {
	d, _ := newTestDeps()
	p := NewRegistry(d).procs[model.AppTypePostgres]
	base := schema.PostgresInputs{
		Preset:         "cpu-large",
		PostgresConfig: schema.PostgresConfig{InstanceSize: 10},
		PgBouncer:      schema.PGBouncer{Preset: "cpu-small"},
		DBUsers:        []schema.PostgresDBUser{{Name: "admin", DBNames: []string{"mydatabase", "otherdatabase"}}, {Name: "reader"}},
	}

	in := base
	v, err := p.ExtraValues(context.Background(), &in, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "10Gi", v["instanceSize"])
	assert.Equal(t, "16", v["postgresVersion"])
	assert.Equal(t, []any{
		map[string]any{"name": "admin", "databases": []any{"mydatabase", "otherdatabase"}},
		map[string]any{"name": "reader", "databases": []any{"reader"}},
	}, v["users"])
	assert.Equal(t, "cpu-small", lookup(t, v, "pgBouncerConfig", "metadata", "labels", "platform.apolo.us/preset"))

	instances := v["instances"].([]any)
	require.Len(t, instances, 1)
	inst := instances[0].(map[string]any)
	_, ok := values.Lookup(inst, "affinity", "podAntiAffinity")
	assert.True(t, ok)
	_, ok = values.Lookup(inst, "affinity", "nodeAffinity")
	assert.True(t, ok)

	backups := []struct {
		bucket  string
		repo    string
		wantErr error
	}{
		{"aws-bucket", "s3", nil},
		{"minio-bucket", "s3", nil},
		{"gcp-bucket", "gcs", nil},
		{"azure-bucket", "", model.ErrBucketUnsupported},
		{"missing", "", model.ErrNotFound},
	}
	for _, tt := range backups {
		t.Run("backup "+tt.bucket, func(t *testing.T) {
			in := base
			in.Backup = &schema.PostgresBackup{BucketID: tt.bucket}
			v, err := p.ExtraValues(context.Background(), &in, testRequest())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			_, ok := values.Lookup(v, "pgBackRestConfig", tt.repo)
			assert.True(t, ok)
		})
	}
}

func TestMLflow(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		v := compile(t, &schema.MLflowInputs{
			Preset:        "cpu-small",
			Backend:       schema.MLflowBackend{DatabaseType: schema.DatabaseSQLite},
			ArtifactStore: &schema.MLflowArtifactStore{Path: "storage:mlflow"},
		})
		args := lookup(t, v, "mlflow", "args").([]any)
		assert.Contains(t, args, "--backend-store-uri=sqlite:///mlflow-data/mlflow.db")
		assert.Contains(t, args, "--artifacts-destination=/mlflow-artifacts")
		assert.Equal(t, "mlflow-sqlite-storage", lookup(t, v, "persistence", "pvcName"))
	})
	t.Run("postgres", func(t *testing.T) {
		v := compile(t, &schema.MLflowInputs{
			Preset: "cpu-small",
			Backend: schema.MLflowBackend{
				DatabaseType: schema.DatabasePostgres,
				Postgres:     &schema.MLflowPostgres{PostgresURI: model.Secret("postgres-admin-uri-" + testAppID)},
			},
		})
		env := envByName(t, lookup(t, v, "mlflow", "env"))
		assert.Contains(t, env["MLFLOW_BACKEND_STORE_URI"], "valueFrom")
		assert.Contains(t, lookup(t, v, "mlflow", "args").([]any), "--backend-store-uri=$(MLFLOW_BACKEND_STORE_URI)")
		_, ok := values.Lookup(v, "persistence")
		assert.False(t, ok)
	})
}

func TestSparkJob(t *testing.T) {
	d, _ := newTestDeps()
	p := NewRegistry(d).procs[model.AppTypeSparkJob]
	in := &schema.SparkJobInputs{
		Image: model.Image{Repository: "spark", Tag: "3.5.3"},
		SparkApplicationConfig: schema.SparkApplicationConfig{
			Type:                schema.SparkPython,
			MainApplicationFile: "storage:jobs/main.py",
			Arguments:           []string{"--n", "10"},
			Volumes:             []model.FilesMount{{StoragePath: "storage:data", MountPath: "/data", Mode: model.MountModeRead}},
		},
		DriverConfig:   schema.SparkDriverConfig{Preset: "cpu-small"},
		ExecutorConfig: schema.SparkExecutorConfig{Preset: "cpu-large", Instances: 2},
	}
	v, err := p.ExtraValues(context.Background(), in, testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Python", lookup(t, v, "spark", "type"))
	assert.Equal(t, "spark:3.5.3", lookup(t, v, "spark", "image"))
	assert.Equal(t, "local:///opt/spark/app/main.py", lookup(t, v, "spark", "mainApplicationFile"))
	assert.Equal(t, 1, lookup(t, v, "driver", "cores"))
	assert.Equal(t, "1000m", lookup(t, v, "driver", "coreLimit"))
	assert.Equal(t, 4, lookup(t, v, "executor", "cores"))
	assert.Equal(t, 2, lookup(t, v, "executor", "instances"))
	assert.Equal(t, "cpu-large", lookup(t, v, "executor", "labels", "platform.apolo.us/preset"))

	raw := lookup(t, v, "driver", "annotations", "platform.apolo.us/inject-storage").(string)
	assert.Contains(t, raw, `"storage_uri":"storage://default/myorg/myproject/jobs","mount_path":"/opt/spark/app","mount_mode":"r"`)
	assert.Contains(t, raw, `"mount_path":"/data"`)

	conflict := *in
	conflict.SparkApplicationConfig.Volumes = []model.FilesMount{{StoragePath: "storage:x", MountPath: "/opt/spark/app/lib"}}
	_, err = p.ExtraValues(context.Background(), &conflict, testRequest())
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestLightRAG(t *testing.T) {
	v := compile(t, &schema.LightRAGInputs{
		Preset:      "cpu-small",
		Persistence: schema.Persistence{Size: 5},
		LLM: schema.LightRAGModel{
			Endpoint: model.NewRestAPI("http", "llm.ns.svc", 8000, "/v1"),
			Model:    "llama",
			APIKey:   model.Secret("llm-key"),
		},
		Embedding: schema.LightRAGModel{
			Endpoint:   model.NewRestAPI("http", "emb.ns.svc", 8000, "/v1"),
			Model:      "bge",
			Dimensions: 1024,
		},
		Postgres: schema.LightRAGPostgres{Credentials: model.CrunchyPostgresUserCredentials{
			User:     "rag",
			Password: model.SecretRef{Key: "postgres-rag-password-" + testAppID},
			Host:     "pg-primary.ns.svc",
			Port:     5432,
		}},
	})
	env := envByName(t, v["env"])
	assert.Equal(t, "llama", env["LLM_MODEL"]["value"])
	assert.Contains(t, env["LLM_BINDING_API_KEY"], "valueFrom")
	assert.NotContains(t, env, "EMBEDDING_BINDING_API_KEY")
	assert.Equal(t, "1024", env["EMBEDDING_DIM"]["value"])
	assert.Equal(t, "pg-primary.ns.svc", env["POSTGRES_HOST"]["value"])
	assert.Equal(t, "rag", env["POSTGRES_DATABASE"]["value"])
	assert.Equal(t, "PGVectorStorage", env["LIGHTRAG_VECTOR_STORAGE"]["value"])
	assert.Equal(t, "5Gi", lookup(t, v, "persistence", "ragStorage", "size"))
}
