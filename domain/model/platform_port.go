package model

import "context"

// ClusterConfig is the per-cluster platform configuration consulted by processors.
type ClusterConfig struct {
	Name    string
	Org     string
	Project string
	// IngressHostTemplate is "<prefix>{placeholder}<suffix>" with a single placeholder.
	IngressHostTemplate   string
	IngressClassName      string
	AuthMiddlewareAddress string
	RegistryHost          string
	AppsSecretsName       string
	SecretsNamespace      string
	AppTypesImageTag      string
}

// ImagePullRequest asks for pull credentials to a platform registry scope.
type ImagePullRequest struct {
	AppID string
	// Permission URI, "image://<cluster>/<org>/<project>".
	Scope string
}

// RegistryCredentials authenticate against the platform registry.
type RegistryCredentials struct {
	Registry string
	Username string
	Token    string
}

// Platform is the platform API surface used by processors. Only ImagePullCredentials
// creates platform-side objects.
type Platform interface {
	Cluster(ctx context.Context) (*ClusterConfig, error)
	// Bucket resolves a bucket id or fails with ErrNotFound.
	Bucket(ctx context.Context, id string) (*Bucket, error)
	// ImagePullCredentials creates a service account with read access to req.Scope and mints a token for it.
	ImagePullCredentials(ctx context.Context, req ImagePullRequest) (*RegistryCredentials, error)
}
