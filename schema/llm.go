package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

// HuggingFaceModel names a model on the Hugging Face hub.
type HuggingFaceModel struct {
	ModelHFName string             `json:"model_hf_name"`
	HFToken     *model.StrOrSecret `json:"hf_token,omitempty"`
}

func (m *HuggingFaceModel) Validate() error {
	if m.ModelHFName == "" {
		return model.Required("model_hf_name")
	}
	return nil
}

// HuggingFaceCache keeps downloaded models on platform storage.
type HuggingFaceCache struct {
	FilesPath model.StoragePath `json:"files_path"`
}

func (c *HuggingFaceCache) Validate() error {
	if c.FilesPath == "" {
		return model.Required("files_path")
	}
	return model.WithPathPrefix("files_path", c.FilesPath.Validate())
}

// LLMInferenceInputs deploys a vLLM server.
type LLMInferenceInputs struct {
	Preset           string             `json:"preset"`
	HuggingFaceModel HuggingFaceModel   `json:"hugging_face_model"`
	TokenizerHFName  string             `json:"tokenizer_hf_name,omitempty"`
	ServerExtraArgs  []string           `json:"server_extra_args,omitempty"`
	ExtraEnvVars     []model.Env        `json:"extra_env_vars,omitempty"`
	IngressHTTP      *model.IngressHTTP `json:"ingress_http,omitempty"`
	CacheConfig      *HuggingFaceCache  `json:"cache_config,omitempty"`
}

func (*LLMInferenceInputs) AppType() model.AppType { return model.AppTypeLLMInference }

func (in *LLMInferenceInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := in.HuggingFaceModel.Validate(); err != nil {
		return model.WithPathPrefix("hugging_face_model", err)
	}
	if err := validateEnvs("extra_env_vars", in.ExtraEnvVars); err != nil {
		return err
	}
	if in.CacheConfig != nil {
		if err := in.CacheConfig.Validate(); err != nil {
			return model.WithPathPrefix("cache_config", err)
		}
	}
	return validateIngress(in.IngressHTTP, nil)
}

// LLMInferenceOutputs describes a running inference server.
type LLMInferenceOutputs struct {
	HuggingFaceModel *HuggingFaceModel              `json:"hugging_face_model,omitempty"`
	TokenizerHFName  string                         `json:"tokenizer_hf_name,omitempty"`
	ServerExtraArgs  []string                       `json:"server_extra_args,omitempty"`
	ChatAPI          model.ServiceAPI[model.RestAPI] `json:"chat_api"`
	LLMAPIKey        *model.SecretRef               `json:"llm_api_key,omitempty"`
}

// LLMBundleInputs deploys a pre-packaged model at a given size; the preset is
// chosen from the model's VRAM requirement.
type LLMBundleInputs struct {
	ModelFamily     string             `json:"model_family"`
	Size            string             `json:"size"`
	HFToken         *model.StrOrSecret `json:"hf_token,omitempty"`
	ServerExtraArgs []string           `json:"server_extra_args,omitempty"`
	IngressHTTP     *model.IngressHTTP `json:"ingress_http,omitempty"`
	CacheConfig     *HuggingFaceCache  `json:"cache_config,omitempty"`
}

func (*LLMBundleInputs) AppType() model.AppType { return model.AppTypeLLMBundle }

func (in *LLMBundleInputs) Validate() error {
	if in.ModelFamily == "" {
		return model.Required("model_family")
	}
	if in.Size == "" {
		return model.Required("size")
	}
	if in.CacheConfig != nil {
		if err := in.CacheConfig.Validate(); err != nil {
			return model.WithPathPrefix("cache_config", err)
		}
	}
	return validateIngress(in.IngressHTTP, nil)
}
