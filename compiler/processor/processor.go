// Package processor holds one value processor per app type. Every processor
// starts from the shared skeleton (preset, ingress, storage mounts) and layers
// its chart-specific fragment on top with values.Merge.
package processor

import (
	"context"
	"fmt"
	"sort"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

// Request identifies the app instance being compiled.
type Request struct {
	AppName        string
	Namespace      string
	AppID          string
	AppSecretsName string
}

// Processor compiles one app type's input document into Helm values.
// Implementations keep no state between calls.
type Processor interface {
	ExtraHelmArgs(ctx context.Context, in schema.Input) ([]string, error)
	ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error)
}

// Deps are the collaborators processors read from. Platform may create
// platform-side objects only for registry pull credentials.
type Deps struct {
	Presets  model.PresetCatalog
	Platform model.Platform
}

var (
	defaultHelmArgs  = []string{"--timeout", "15m", "--dependency-update"}
	downloadHelmArgs = []string{"--timeout", "30m", "--dependency-update"}
)

// DefaultHelmArgs returns the Helm flags used by processors that do not override them.
func DefaultHelmArgs() []string { return append([]string(nil), defaultHelmArgs...) }

// baseProcessor supplies the default ExtraHelmArgs.
type baseProcessor struct {
	deps Deps
}

func (baseProcessor) ExtraHelmArgs(context.Context, schema.Input) ([]string, error) {
	return DefaultHelmArgs(), nil
}

// Registry maps app types to processors.
type Registry struct {
	procs map[model.AppType]Processor
}

// NewRegistry registers a processor for every known app type.
func NewRegistry(d Deps) *Registry {
	custom := &CustomDeployment{baseProcessor{d}}
	llm := &LLMInference{baseProcessor{d}}
	r := &Registry{procs: map[model.AppType]Processor{}}
	r.Register(model.AppTypeLLMInference, llm)
	r.Register(model.AppTypeLLMBundle, &LLMBundle{baseProcessor: baseProcessor{d}, llm: llm})
	r.Register(model.AppTypeCustomDeployment, custom)
	r.Register(model.AppTypeJupyter, &Jupyter{custom: custom})
	r.Register(model.AppTypeOpenWebUI, &OpenWebUI{custom: custom})
	r.Register(model.AppTypePostgres, &Postgres{baseProcessor{d}})
	r.Register(model.AppTypeWeaviate, &Weaviate{baseProcessor{d}})
	r.Register(model.AppTypeMLflow, &MLflow{baseProcessor{d}})
	r.Register(model.AppTypeSparkJob, &SparkJob{baseProcessor{d}})
	r.Register(model.AppTypeLightRAG, &LightRAG{baseProcessor{d}})
	return r
}

// Register adds or replaces the processor of t.
func (r *Registry) Register(t model.AppType, p Processor) {
	r.procs[t] = p
}

// Lookup returns the processor of t or an ErrUnsupportedAppType error.
func (r *Registry) Lookup(t model.AppType) (Processor, error) {
	p, ok := r.procs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedAppType, t)
	}
	return p, nil
}

// AppTypes lists registered app types sorted by name.
func (r *Registry) AppTypes() []model.AppType {
	out := make([]model.AppType, 0, len(r.procs))
	for t := range r.procs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func inputAs[T schema.Input](in schema.Input) (T, error) {
	v, ok := in.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: input %T is not %T", model.ErrValidation, in, zero)
	}
	return v, nil
}

func stringList(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}
