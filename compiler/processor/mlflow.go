package processor

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	mlflowPort          = 5000
	mlflowDataDir       = "/mlflow-data"
	mlflowArtifactsDir  = "/mlflow-artifacts"
	mlflowDefaultPVC    = "mlflow-sqlite-storage"
	mlflowSQLiteVolume  = "mlflow-db"
	mlflowSQLiteSize    = "1Gi"
	mlflowBackendURIEnv = "MLFLOW_BACKEND_STORE_URI"
)

// MLflow compiles MLflow tracking servers.
type MLflow struct {
	baseProcessor
}

func (p *MLflow) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	m, err := inputAs[*schema.MLflowInputs](in)
	if err != nil {
		return nil, err
	}
	var mounts []model.FilesMount
	if m.ArtifactStore != nil {
		mounts = append(mounts, model.FilesMount{
			StoragePath: m.ArtifactStore.Path,
			MountPath:   mlflowArtifactsDir,
			Mode:        model.MountModeReadWrite,
		})
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{
		AppType: model.AppTypeMLflow,
		Preset:  m.Preset,
		HTTP:    m.IngressHTTP,
		Ports:   []model.Port{{Name: "http", Port: mlflowPort}},
		WebApp:  true,
		Mounts:  mounts,
	})
	if err != nil {
		return nil, err
	}
	secrets := secretsName(req, b.Cluster)

	app := values.Values{}
	var env []any
	var backendURI string
	switch m.Backend.DatabaseType {
	case schema.DatabaseSQLite:
		pvc := mlflowDefaultPVC
		if m.Backend.SQLite != nil && m.Backend.SQLite.PVCName != "" {
			pvc = m.Backend.SQLite.PVCName
		}
		backendURI = "sqlite://" + mlflowDataDir + "/mlflow.db"
		app["persistence"] = map[string]any{
			"enabled":     true,
			"pvcName":     pvc,
			"size":        mlflowSQLiteSize,
			"accessModes": []any{"ReadWriteOnce"},
		}
		app["volumes"] = []any{map[string]any{
			"name":                  mlflowSQLiteVolume,
			"persistentVolumeClaim": map[string]any{"claimName": pvc},
		}}
		app["volumeMounts"] = []any{map[string]any{
			"name":      mlflowSQLiteVolume,
			"mountPath": mlflowDataDir,
		}}
	case schema.DatabasePostgres:
		env = append(env, shape.EnvVar(mlflowBackendURIEnv, m.Backend.Postgres.PostgresURI, secrets))
		backendURI = fmt.Sprintf("$(%s)", mlflowBackendURIEnv)
	}

	args := []any{
		"server",
		"--host=0.0.0.0",
		fmt.Sprintf("--port=%d", mlflowPort),
		"--backend-store-uri=" + backendURI,
		"--serve-artifacts",
	}
	if m.ArtifactStore != nil {
		args = append(args, "--artifacts-destination="+mlflowArtifactsDir)
	}
	mlflow := map[string]any{"args": args}
	if env != nil {
		mlflow["env"] = env
	}
	app["mlflow"] = mlflow
	app["service"] = map[string]any{"ports": []any{map[string]any{"name": "http", "port": mlflowPort}}}
	return values.Merge(b.Values, app), nil
}
