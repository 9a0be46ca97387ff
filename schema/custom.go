package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

// Networking declares ports and public exposure of a deployment.
type Networking struct {
	Ports       []model.Port       `json:"ports,omitempty"`
	IngressHTTP *model.IngressHTTP `json:"ingress_http,omitempty"`
	IngressGRPC *model.IngressGRPC `json:"ingress_grpc,omitempty"`
}

func (n *Networking) Validate() error {
	if err := validatePorts("ports", n.Ports); err != nil {
		return err
	}
	return validateIngress(n.IngressHTTP, n.IngressGRPC)
}

// Autoscaling configures a horizontal pod autoscaler.
type Autoscaling struct {
	MinReplicas                    int `json:"min_replicas"`
	MaxReplicas                    int `json:"max_replicas"`
	TargetCPUUtilizationPercentage int `json:"target_cpu_utilization_percentage,omitempty"`
}

func (a *Autoscaling) Validate() error {
	if a.MinReplicas < 1 {
		return model.Invalid("min_replicas", "must be at least 1, got %d", a.MinReplicas)
	}
	if a.MaxReplicas < a.MinReplicas {
		return model.Invalid("max_replicas", "must not be below min_replicas (%d), got %d", a.MinReplicas, a.MaxReplicas)
	}
	if a.TargetCPUUtilizationPercentage < 0 || a.TargetCPUUtilizationPercentage > 100 {
		return model.Invalid("target_cpu_utilization_percentage", "must be between 0 and 100")
	}
	return nil
}

// DockerConfig is a user-supplied dockerconfigjson pull secret.
type DockerConfig struct {
	File model.StrOrSecret `json:"file"`
}

// CustomDeploymentInputs deploys an arbitrary container image.
type CustomDeploymentInputs struct {
	Preset        string               `json:"preset"`
	Image         model.Image          `json:"image"`
	Container     *model.Container     `json:"container,omitempty"`
	Networking    *Networking          `json:"networking,omitempty"`
	StorageMounts *model.StorageMounts `json:"storage_mounts,omitempty"`
	Autoscaling   *Autoscaling         `json:"autoscaling,omitempty"`
	DockerConfig  *DockerConfig        `json:"docker_config,omitempty"`
}

func (*CustomDeploymentInputs) AppType() model.AppType { return model.AppTypeCustomDeployment }

func (in *CustomDeploymentInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := in.Image.Validate(); err != nil {
		return model.WithPathPrefix("image", err)
	}
	if in.Container != nil {
		if err := validateEnvs("container.env", in.Container.Env); err != nil {
			return err
		}
	}
	if in.Networking != nil {
		if err := in.Networking.Validate(); err != nil {
			return model.WithPathPrefix("networking", err)
		}
	}
	if in.StorageMounts != nil {
		if err := in.StorageMounts.Validate(); err != nil {
			return model.WithPathPrefix("storage_mounts", err)
		}
	}
	if in.Autoscaling != nil {
		if err := in.Autoscaling.Validate(); err != nil {
			return model.WithPathPrefix("autoscaling", err)
		}
	}
	if in.DockerConfig != nil && in.DockerConfig.File.IsZero() {
		return model.Required("docker_config.file")
	}
	return nil
}

// CustomDeploymentOutputs describes a running custom deployment.
type CustomDeploymentOutputs struct {
	AppURL model.ServiceAPI[model.HTTPAPI] `json:"app_url"`
}

// WebAppOutputs is shared by apps that publish a single web UI.
type WebAppOutputs struct {
	AppURL model.ServiceAPI[model.HTTPAPI] `json:"app_url"`
}

// Jupyter flavors.
const (
	JupyterLab      = "lab"
	JupyterNotebook = "notebook"
)

// JupyterInputs deploys a Jupyter server with code kept on platform storage.
type JupyterInputs struct {
	Preset           string             `json:"preset"`
	JupyterType      string             `json:"jupyter_type,omitempty"`
	CodeStorageMount *model.FilesMount  `json:"code_storage_mount,omitempty"`
	IngressHTTP      *model.IngressHTTP `json:"ingress_http,omitempty"`
}

func (*JupyterInputs) AppType() model.AppType { return model.AppTypeJupyter }

func (in *JupyterInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	switch in.JupyterType {
	case "", JupyterLab, JupyterNotebook:
	default:
		return model.Invalid("jupyter_type", "must be %q or %q, got %q", JupyterLab, JupyterNotebook, in.JupyterType)
	}
	if in.CodeStorageMount != nil {
		if err := in.CodeStorageMount.Validate(); err != nil {
			return model.WithPathPrefix("code_storage_mount", err)
		}
	}
	return validateIngress(in.IngressHTTP, nil)
}

// OpenWebUI database kinds.
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// OpenWebUIDatabase selects the OpenWebUI metadata database.
type OpenWebUIDatabase struct {
	DatabaseType string                                `json:"database_type"`
	Credentials  *model.CrunchyPostgresUserCredentials `json:"credentials,omitempty"`
}

func (d *OpenWebUIDatabase) Validate() error {
	switch d.DatabaseType {
	case DatabaseSQLite:
		if d.Credentials != nil {
			return model.Invalid("credentials", "not allowed with database_type %q", DatabaseSQLite)
		}
	case DatabasePostgres:
		if d.Credentials == nil {
			return model.Required("credentials")
		}
		return model.WithPathPrefix("credentials", d.Credentials.Validate())
	default:
		return model.Invalid("database_type", "must be %q or %q, got %q", DatabaseSQLite, DatabasePostgres, d.DatabaseType)
	}
	return nil
}

// OpenWebUIInputs deploys an OpenWebUI chat front end.
type OpenWebUIInputs struct {
	Preset         string             `json:"preset"`
	IngressHTTP    *model.IngressHTTP `json:"ingress_http,omitempty"`
	LLMChatAPI     *model.RestAPI     `json:"llm_chat_api,omitempty"`
	EmbeddingsAPI  *model.RestAPI     `json:"embeddings_api,omitempty"`
	DatabaseConfig OpenWebUIDatabase  `json:"database_config"`
}

func (*OpenWebUIInputs) AppType() model.AppType { return model.AppTypeOpenWebUI }

func (in *OpenWebUIInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if in.LLMChatAPI != nil {
		if err := in.LLMChatAPI.Validate(); err != nil {
			return model.WithPathPrefix("llm_chat_api", err)
		}
	}
	if in.EmbeddingsAPI != nil {
		if err := in.EmbeddingsAPI.Validate(); err != nil {
			return model.WithPathPrefix("embeddings_api", err)
		}
	}
	if err := in.DatabaseConfig.Validate(); err != nil {
		return model.WithPathPrefix("database_config", err)
	}
	return validateIngress(in.IngressHTTP, nil)
}
