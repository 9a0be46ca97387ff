package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

const minLightRAGPersistenceSize = 1

// LightRAGModel is an OpenAI-compatible model endpoint.
type LightRAGModel struct {
	Endpoint   model.RestAPI     `json:"endpoint"`
	Model      string            `json:"model"`
	APIKey     model.StrOrSecret `json:"api_key,omitempty"`
	Dimensions int               `json:"dimensions,omitempty"`
}

func (m *LightRAGModel) Validate() error {
	if err := m.Endpoint.Validate(); err != nil {
		return model.WithPathPrefix("endpoint", err)
	}
	if m.Model == "" {
		return model.Required("model")
	}
	return nil
}

// LightRAGPostgres supplies the pgvector-enabled database.
type LightRAGPostgres struct {
	Credentials model.CrunchyPostgresUserCredentials `json:"credentials"`
}

// LightRAGInputs deploys a LightRAG server.
type LightRAGInputs struct {
	Preset      string             `json:"preset"`
	Persistence Persistence        `json:"persistence"`
	LLM         LightRAGModel      `json:"llm"`
	Embedding   LightRAGModel      `json:"embedding"`
	Postgres    LightRAGPostgres   `json:"postgres"`
	IngressHTTP *model.IngressHTTP `json:"ingress_http,omitempty"`
}

func (*LightRAGInputs) AppType() model.AppType { return model.AppTypeLightRAG }

func (in *LightRAGInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := minSize("persistence.size", in.Persistence.Size, minLightRAGPersistenceSize); err != nil {
		return err
	}
	if err := in.LLM.Validate(); err != nil {
		return model.WithPathPrefix("llm", err)
	}
	if err := in.Embedding.Validate(); err != nil {
		return model.WithPathPrefix("embedding", err)
	}
	if in.Embedding.Dimensions < 1 {
		return model.Invalid("embedding.dimensions", "must be positive")
	}
	if err := in.Postgres.Credentials.Validate(); err != nil {
		return model.WithPathPrefix("postgres.credentials", err)
	}
	return validateIngress(in.IngressHTTP, nil)
}

// LightRAGOutputs describes a running LightRAG.
type LightRAGOutputs struct {
	WebAppURL model.ServiceAPI[model.HTTPAPI] `json:"web_app_url"`
	ServerURL model.ServiceAPI[model.RestAPI] `json:"server_url"`
}
