package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	hfCacheMountPath   = "/root/.cache/huggingface"
	tensorParallelFlag = "tensor-parallel-size"
	pipelineParallel   = "pipeline-parallel-size"
	llmHTTPPortName    = "http"
	llmHTTPPort        = 8000
)

// LLMInference compiles vLLM inference servers.
type LLMInference struct {
	baseProcessor
}

func (p *LLMInference) ExtraHelmArgs(context.Context, schema.Input) ([]string, error) {
	return append([]string(nil), downloadHelmArgs...), nil
}

func (p *LLMInference) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	llm, err := inputAs[*schema.LLMInferenceInputs](in)
	if err != nil {
		return nil, err
	}
	return p.compile(ctx, model.AppTypeLLMInference, llm, req)
}

// hasParallelismArg reports whether the user already chose a parallelism layout.
func hasParallelismArg(args []string) bool {
	for _, a := range args {
		if strings.Contains(a, tensorParallelFlag) || strings.Contains(a, pipelineParallel) {
			return true
		}
	}
	return false
}

func gpuProvider(p *model.Preset) string {
	switch {
	case p.GPUCount(model.GPUVendorNvidia) > 0:
		return string(model.GPUVendorNvidia)
	case p.GPUCount(model.GPUVendorAMD) > 0:
		return string(model.GPUVendorAMD)
	case p.GPUCount(model.GPUVendorIntel) > 0:
		return string(model.GPUVendorIntel)
	}
	return "cpu"
}

func (p *LLMInference) compile(ctx context.Context, appType model.AppType, in *schema.LLMInferenceInputs, req Request) (values.Values, error) {
	var mounts []model.FilesMount
	if in.CacheConfig != nil {
		mounts = append(mounts, model.FilesMount{
			StoragePath: in.CacheConfig.FilesPath,
			MountPath:   hfCacheMountPath,
			Mode:        model.MountModeReadWrite,
		})
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{
		AppType: appType,
		Preset:  in.Preset,
		HTTP:    in.IngressHTTP,
		Ports:   []model.Port{{Name: llmHTTPPortName, Port: llmHTTPPort}},
		Mounts:  mounts,
	})
	if err != nil {
		return nil, err
	}
	secrets := secretsName(req, b.Cluster)

	args := append([]string(nil), in.ServerExtraArgs...)
	if n := b.Preset.TotalGPUCount(); n > 1 && !hasParallelismArg(args) {
		args = append(args, fmt.Sprintf("--%s=%d", tensorParallelFlag, n))
	}

	tokenizer := in.TokenizerHFName
	if tokenizer == "" {
		tokenizer = in.HuggingFaceModel.ModelHFName
	}
	env := map[string]any{}
	if tok := in.HuggingFaceModel.HFToken; tok != nil && !tok.IsZero() {
		env["HUGGING_FACE_HUB_TOKEN"] = shape.SecretValue(*tok, secrets)
	}

	cached := in.CacheConfig != nil
	app := values.Values{
		"model": map[string]any{
			"modelHFName":     in.HuggingFaceModel.ModelHFName,
			"tokenizerHFName": tokenizer,
		},
		"env":             env,
		"extraEnv":        shape.EnvList(in.ExtraEnvVars, secrets),
		"gpuProvider":     gpuProvider(b.Preset),
		"serverExtraArgs": stringList(args),
		"cache":           map[string]any{"enabled": cached, "mountPath": hfCacheMountPath},
		"modelDownload":   map[string]any{"hookEnabled": cached, "initEnabled": !cached},
	}
	if b.Preset.Shm {
		app["shm"] = map[string]any{"enabled": true}
	}
	return values.Merge(b.Values, shape.VisibleDevices(b.Preset), app), nil
}
