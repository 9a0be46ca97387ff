package processor

import (
	"context"
	"fmt"
	"sort"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const gigabyte = 1_000_000_000

// BundleModel is one size of a pre-packaged model.
type BundleModel struct {
	ModelHFName       string
	VRAMMinRequiredGB int64
}

// LLMBundles maps model family and size to the model and its VRAM need.
var LLMBundles = map[string]map[string]BundleModel{
	"llama4": {
		"scout-17b-16e":     {ModelHFName: "meta-llama/Llama-4-Scout-17B-16E-Instruct", VRAMMinRequiredGB: 220},
		"maverick-17b-128e": {ModelHFName: "meta-llama/Llama-4-Maverick-17B-128E-Instruct", VRAMMinRequiredGB: 790},
	},
	"deepseek-r1": {
		"distill-qwen-1.5b": {ModelHFName: "deepseek-ai/DeepSeek-R1-Distill-Qwen-1.5B", VRAMMinRequiredGB: 4},
		"distill-llama-8b":  {ModelHFName: "deepseek-ai/DeepSeek-R1-Distill-Llama-8B", VRAMMinRequiredGB: 18},
		"distill-qwen-32b":  {ModelHFName: "deepseek-ai/DeepSeek-R1-Distill-Qwen-32B", VRAMMinRequiredGB: 80},
		"671b":              {ModelHFName: "deepseek-ai/DeepSeek-R1", VRAMMinRequiredGB: 1790},
	},
	"mistral": {
		"7b":  {ModelHFName: "mistralai/Mistral-7B-Instruct-v0.3", VRAMMinRequiredGB: 16},
		"24b": {ModelHFName: "mistralai/Mistral-Small-3.1-24B-Instruct-2503", VRAMMinRequiredGB: 55},
	},
}

// LookupBundle resolves a family and size.
func LookupBundle(family, size string) (BundleModel, error) {
	sizes, ok := LLMBundles[family]
	if !ok {
		return BundleModel{}, model.Invalid("model_family", "unknown model family %q", family)
	}
	m, ok := sizes[size]
	if !ok {
		return BundleModel{}, model.Invalid("size", "unknown size %q for model family %q", size, family)
	}
	return m, nil
}

// SelectPreset picks the accelerator preset with the smallest total VRAM that
// still holds requiredGB. Ties break by accelerator count, then by name.
func SelectPreset(presets []*model.Preset, requiredGB int64) (*model.Preset, error) {
	need := requiredGB * gigabyte
	var candidates []*model.Preset
	for _, p := range presets {
		if p.TotalGPUCount() > 0 && p.TotalVRAM() >= need {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no preset provides %d GB of accelerator memory", model.ErrNoPresetSatisfies, requiredGB)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.TotalVRAM() != b.TotalVRAM() {
			return a.TotalVRAM() < b.TotalVRAM()
		}
		if a.TotalGPUCount() != b.TotalGPUCount() {
			return a.TotalGPUCount() < b.TotalGPUCount()
		}
		return a.Name < b.Name
	})
	return candidates[0], nil
}

// LLMBundle picks a preset for a packaged model and compiles it as an LLM
// inference server.
type LLMBundle struct {
	baseProcessor
	llm *LLMInference
}

func (p *LLMBundle) ExtraHelmArgs(ctx context.Context, in schema.Input) ([]string, error) {
	return p.llm.ExtraHelmArgs(ctx, in)
}

// Resolve turns a bundle input into the LLM inference input it compiles to.
func (p *LLMBundle) Resolve(ctx context.Context, in *schema.LLMBundleInputs) (*schema.LLMInferenceInputs, error) {
	bundle, err := LookupBundle(in.ModelFamily, in.Size)
	if err != nil {
		return nil, err
	}
	if p.deps.Presets == nil {
		return nil, fmt.Errorf("no preset catalog configured")
	}
	presets, err := p.deps.Presets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	preset, err := SelectPreset(presets, bundle.VRAMMinRequiredGB)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", in.ModelFamily, in.Size, err)
	}
	return &schema.LLMInferenceInputs{
		Preset: preset.Name,
		HuggingFaceModel: schema.HuggingFaceModel{
			ModelHFName: bundle.ModelHFName,
			HFToken:     in.HFToken,
		},
		ServerExtraArgs: in.ServerExtraArgs,
		IngressHTTP:     in.IngressHTTP,
		CacheConfig:     in.CacheConfig,
	}, nil
}

func (p *LLMBundle) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	bundle, err := inputAs[*schema.LLMBundleInputs](in)
	if err != nil {
		return nil, err
	}
	llm, err := p.Resolve(ctx, bundle)
	if err != nil {
		return nil, err
	}
	return p.llm.compile(ctx, model.AppTypeLLMBundle, llm, req)
}
