// Package appvaluescfg defines the configuration schema (structs) for appvalues.yml:
// the cluster the compiler targets, its preset catalog and its platform buckets.
package appvaluescfg

// DefaultPath is used when neither --config nor APPVALUES_CONFIG is set.
const DefaultPath = "appvalues.yml"

// Root is the root structure of appvalues.yml.
type Root struct {
	Version string   `yaml:"version"`
	Cluster Cluster  `yaml:"cluster"`
	Presets []Preset `yaml:"presets,omitempty"`
	Buckets []Bucket `yaml:"buckets,omitempty"`
}

// Cluster carries the per-cluster platform settings.
type Cluster struct {
	Name                  string `yaml:"name"`
	Org                   string `yaml:"org"`
	Project               string `yaml:"project,omitempty"`
	IngressHostTemplate   string `yaml:"ingressHostTemplate"`
	IngressClassName      string `yaml:"ingressClassName,omitempty"`
	AuthMiddlewareAddress string `yaml:"authMiddlewareAddress,omitempty"`
	RegistryHost          string `yaml:"registryHost,omitempty"`
	AppsSecretsName       string `yaml:"appsSecretsName,omitempty"`
	SecretsNamespace      string `yaml:"secretsNamespace,omitempty"`
	AppTypesImageTag      string `yaml:"appTypesImageTag,omitempty"`
}

// Preset is a compute profile. Memory values are Kubernetes quantities (e.g. 16Gi).
type Preset struct {
	Name           string   `yaml:"name"`
	CPU            float64  `yaml:"cpu"`
	Memory         string   `yaml:"memory"`
	Shm            bool     `yaml:"shm,omitempty"`
	NvidiaGPU      *GPU     `yaml:"nvidiaGPU,omitempty"`
	AmdGPU         *GPU     `yaml:"amdGPU,omitempty"`
	IntelGPU       *GPU     `yaml:"intelGPU,omitempty"`
	ResourcePools  []string `yaml:"resourcePools,omitempty"`
	CreditsPerHour string   `yaml:"creditsPerHour,omitempty"`
}

// GPU describes the accelerators of one vendor.
type GPU struct {
	Count  int    `yaml:"count"`
	Memory string `yaml:"memory,omitempty"` // per unit
	Model  string `yaml:"model,omitempty"`
}

// Bucket is an object storage bucket apps may back up into.
type Bucket struct {
	ID              string `yaml:"id"`
	Provider        string `yaml:"provider"` // aws | gcp | minio | azure
	Name            string `yaml:"name"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	Region          string `yaml:"region,omitempty"`
	AccessKeyID     string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
	KeyJSON         string `yaml:"keyJson,omitempty"`
}
