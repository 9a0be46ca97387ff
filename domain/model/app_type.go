package model

import (
	"fmt"
	"sort"
)

// AppType is the closed set of application kinds the compiler knows about.
type AppType string

const (
	AppTypeLLMInference     AppType = "llm-inference"
	AppTypeLLMBundle        AppType = "llm-bundle"
	AppTypeCustomDeployment AppType = "custom-deployment"
	AppTypeJupyter          AppType = "jupyter"
	AppTypeOpenWebUI        AppType = "openwebui"
	AppTypePostgres         AppType = "postgres"
	AppTypeWeaviate         AppType = "weaviate"
	AppTypeMLflow           AppType = "mlflow"
	AppTypeSparkJob         AppType = "spark-job"
	AppTypeLightRAG         AppType = "lightrag"
)

type appTypeInfo struct {
	slug string
	job  bool
}

var appTypes = map[AppType]appTypeInfo{
	AppTypeLLMInference:     {slug: "llm-inference"},
	AppTypeLLMBundle:        {slug: "llm-bundle"},
	AppTypeCustomDeployment: {slug: "custom-deployment"},
	AppTypeJupyter:          {slug: "jupyter"},
	AppTypeOpenWebUI:        {slug: "openwebui"},
	AppTypePostgres:         {slug: "postgres"},
	AppTypeWeaviate:         {slug: "weaviate"},
	AppTypeMLflow:           {slug: "mlflow"},
	AppTypeSparkJob:         {slug: "spark-job", job: true},
	AppTypeLightRAG:         {slug: "lightrag"},
}

// Valid reports whether t is a known app type.
func (t AppType) Valid() bool {
	_, ok := appTypes[t]
	return ok
}

// Slug is the display name used in ingress hosts, storage paths and selectors.
func (t AppType) Slug() string {
	if info, ok := appTypes[t]; ok {
		return info.slug
	}
	return string(t)
}

// IsJob reports whether the app runs as a job rather than a long-running Helm release.
func (t AppType) IsJob() bool { return appTypes[t].job }

func (t AppType) String() string { return string(t) }

// ParseAppType returns the AppType named s or an ErrUnsupportedAppType error.
func ParseAppType(s string) (AppType, error) {
	t := AppType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAppType, s)
	}
	return t, nil
}

// AppTypes returns every known app type sorted by name.
func AppTypes() []AppType {
	out := make([]AppType, 0, len(appTypes))
	for t := range appTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
