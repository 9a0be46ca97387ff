package processor

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	jupyterImage     = "quay.io/jupyter/scipy-notebook"
	jupyterImageTag  = "2025-03-17"
	jupyterPort      = 8888
	jupyterCodePath  = "/home/jovyan/work"
	openWebUIImage   = "ghcr.io/open-webui/open-webui"
	openWebUITag     = "v0.6.5"
	openWebUIPort    = 8080
	openWebUIDataDir = "/app/backend/data"
)

// appStoragePath is the default per-app directory on platform storage.
func appStoragePath(appType model.AppType, appName string) model.StoragePath {
	return model.StoragePath(fmt.Sprintf("storage:.apps/%s/%s", appType.Slug(), appName))
}

// Jupyter compiles Jupyter servers as custom deployments.
type Jupyter struct {
	custom *CustomDeployment
}

func (p *Jupyter) ExtraHelmArgs(ctx context.Context, in schema.Input) ([]string, error) {
	return p.custom.ExtraHelmArgs(ctx, in)
}

// Resolve builds the custom deployment a Jupyter input compiles to.
func (p *Jupyter) Resolve(in *schema.JupyterInputs, appName string) *schema.CustomDeploymentInputs {
	flavor := in.JupyterType
	if flavor == "" {
		flavor = schema.JupyterLab
	}
	mount := model.FilesMount{
		StoragePath: appStoragePath(model.AppTypeJupyter, appName),
		MountPath:   jupyterCodePath,
		Mode:        model.MountModeReadWrite,
	}
	if in.CodeStorageMount != nil {
		mount = *in.CodeStorageMount
	}
	return &schema.CustomDeploymentInputs{
		Preset: in.Preset,
		Image:  model.Image{Repository: jupyterImage, Tag: jupyterImageTag, PullPolicy: model.PullIfNotPresent},
		Container: &model.Container{
			Command: []string{"start-notebook.py"},
			Args: []string{
				"--ServerApp.token=",
				"--ServerApp.password=",
				fmt.Sprintf("--ServerApp.port=%d", jupyterPort),
				"--ServerApp.root_dir=" + mount.MountPath,
			},
			Env: []model.Env{{Name: "DOCKER_STACKS_JUPYTER_CMD", Value: model.Literal(flavor)}},
		},
		Networking: &schema.Networking{
			Ports:       []model.Port{{Name: defaultPortName, Port: jupyterPort}},
			IngressHTTP: in.IngressHTTP,
		},
		StorageMounts: &model.StorageMounts{Mounts: []model.FilesMount{mount}},
	}
}

func (p *Jupyter) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	j, err := inputAs[*schema.JupyterInputs](in)
	if err != nil {
		return nil, err
	}
	return p.custom.compile(ctx, model.AppTypeJupyter, p.Resolve(j, req.AppName), req)
}

// OpenWebUI compiles OpenWebUI as a custom deployment.
type OpenWebUI struct {
	custom *CustomDeployment
}

func (p *OpenWebUI) ExtraHelmArgs(ctx context.Context, in schema.Input) ([]string, error) {
	return p.custom.ExtraHelmArgs(ctx, in)
}

// postgresURL builds a connection URL whose password is expanded by the
// container runtime from the POSTGRES_PASSWORD variable.
func postgresURL(c *model.CrunchyPostgresUserCredentials) string {
	host, port := c.ConnectHost()
	db := c.DBName
	if db == "" {
		db = c.User
	}
	return fmt.Sprintf("postgresql://%s:$(POSTGRES_PASSWORD)@%s:%d/%s", c.User, host, port, db)
}

// Resolve builds the custom deployment an OpenWebUI input compiles to.
func (p *OpenWebUI) Resolve(in *schema.OpenWebUIInputs, appName string) *schema.CustomDeploymentInputs {
	env := []model.Env{
		{Name: "ENABLE_OLLAMA_API", Value: model.Literal("False")},
	}
	if api := in.LLMChatAPI; api != nil {
		env = append(env, model.Env{Name: "OPENAI_API_BASE_URL", Value: model.Literal(api.URL())})
	}
	if api := in.EmbeddingsAPI; api != nil {
		env = append(env,
			model.Env{Name: "RAG_EMBEDDING_ENGINE", Value: model.Literal("openai")},
			model.Env{Name: "RAG_OPENAI_API_BASE_URL", Value: model.Literal(api.URL())},
		)
	}
	if db := in.DatabaseConfig; db.DatabaseType == schema.DatabasePostgres && db.Credentials != nil {
		url := postgresURL(db.Credentials)
		env = append(env,
			model.Env{Name: "POSTGRES_PASSWORD", Value: model.FromRef(db.Credentials.Password)},
			model.Env{Name: "DATABASE_URL", Value: model.Literal(url)},
			model.Env{Name: "VECTOR_DB", Value: model.Literal("pgvector")},
			model.Env{Name: "PGVECTOR_DB_URL", Value: model.Literal(url)},
		)
	}
	return &schema.CustomDeploymentInputs{
		Preset:    in.Preset,
		Image:     model.Image{Repository: openWebUIImage, Tag: openWebUITag, PullPolicy: model.PullIfNotPresent},
		Container: &model.Container{Env: env},
		Networking: &schema.Networking{
			Ports:       []model.Port{{Name: defaultPortName, Port: openWebUIPort}},
			IngressHTTP: in.IngressHTTP,
		},
		StorageMounts: &model.StorageMounts{Mounts: []model.FilesMount{{
			StoragePath: appStoragePath(model.AppTypeOpenWebUI, appName),
			MountPath:   openWebUIDataDir,
			Mode:        model.MountModeReadWrite,
		}}},
	}
}

func (p *OpenWebUI) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	o, err := inputAs[*schema.OpenWebUIInputs](in)
	if err != nil {
		return nil, err
	}
	return p.custom.compile(ctx, model.AppTypeOpenWebUI, p.Resolve(o, req.AppName), req)
}
