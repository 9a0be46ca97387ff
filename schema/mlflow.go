package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

// MLflowSQLite keeps the tracking database on a PVC.
type MLflowSQLite struct {
	PVCName string `json:"pvc_name,omitempty"`
}

// MLflowPostgres points the tracking server at an external Postgres.
type MLflowPostgres struct {
	PostgresURI model.StrOrSecret `json:"postgres_uri"`
}

// MLflowBackend is the backend store union discriminated by DatabaseType.
type MLflowBackend struct {
	DatabaseType string          `json:"database_type"`
	SQLite       *MLflowSQLite   `json:"sqlite,omitempty"`
	Postgres     *MLflowPostgres `json:"postgres,omitempty"`
}

func (b *MLflowBackend) Validate() error {
	switch b.DatabaseType {
	case DatabaseSQLite:
		if b.Postgres != nil {
			return model.Invalid("postgres", "not allowed with database_type %q", DatabaseSQLite)
		}
	case DatabasePostgres:
		if b.SQLite != nil {
			return model.Invalid("sqlite", "not allowed with database_type %q", DatabasePostgres)
		}
		if b.Postgres == nil || b.Postgres.PostgresURI.IsZero() {
			return model.Required("postgres.postgres_uri")
		}
	default:
		return model.Invalid("database_type", "must be %q or %q, got %q", DatabaseSQLite, DatabasePostgres, b.DatabaseType)
	}
	return nil
}

// MLflowArtifactStore keeps artifacts on platform storage.
type MLflowArtifactStore struct {
	Path model.StoragePath `json:"path"`
}

// MLflowInputs deploys an MLflow tracking server.
type MLflowInputs struct {
	Preset        string               `json:"preset"`
	IngressHTTP   *model.IngressHTTP   `json:"ingress_http,omitempty"`
	Backend       MLflowBackend        `json:"backend"`
	ArtifactStore *MLflowArtifactStore `json:"artifact_store,omitempty"`
}

func (*MLflowInputs) AppType() model.AppType { return model.AppTypeMLflow }

func (in *MLflowInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := in.Backend.Validate(); err != nil {
		return model.WithPathPrefix("backend", err)
	}
	if in.ArtifactStore != nil {
		if in.ArtifactStore.Path == "" {
			return model.Required("artifact_store.path")
		}
		if err := in.ArtifactStore.Path.Validate(); err != nil {
			return model.WithPathPrefix("artifact_store.path", err)
		}
	}
	return validateIngress(in.IngressHTTP, nil)
}

// MLflowOutputs describes a running MLflow.
type MLflowOutputs struct {
	WebAppURL model.ServiceAPI[model.HTTPAPI] `json:"web_app_url"`
	ServerURL model.ServiceAPI[model.RestAPI] `json:"server_url"`
}
