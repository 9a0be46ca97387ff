// Package platform implements model.Platform from the configuration file and,
// for registry credentials, the Kubernetes API.
package platform

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/config/appvaluescfg"
	"github.com/apolo-us/appvalues/domain/model"
)

// PullMinter creates image pull service accounts and their tokens.
// *kube.Client implements it.
type PullMinter interface {
	ImagePullCredentials(ctx context.Context, namespace string, req model.ImagePullRequest) (*model.RegistryCredentials, error)
}

// Platform serves cluster settings and buckets from configuration.
type Platform struct {
	cluster *model.ClusterConfig
	buckets map[string]*model.Bucket
	minter  PullMinter
}

// New returns a Platform for cfg. minter may be nil when no cluster access is
// configured; platform images then fail to compile.
func New(cfg *appvaluescfg.Root, minter PullMinter) *Platform {
	p := &Platform{
		cluster: cfg.ToClusterConfig(),
		buckets: map[string]*model.Bucket{},
		minter:  minter,
	}
	for _, b := range cfg.ToBuckets() {
		p.buckets[b.ID] = b
	}
	return p
}

// Cluster returns a copy of the configured cluster.
func (p *Platform) Cluster(context.Context) (*model.ClusterConfig, error) {
	c := *p.cluster
	return &c, nil
}

func (p *Platform) Bucket(_ context.Context, id string) (*model.Bucket, error) {
	b, ok := p.buckets[id]
	if !ok {
		return nil, fmt.Errorf("bucket %q: %w", id, model.ErrNotFound)
	}
	c := *b
	return &c, nil
}

// ImagePullCredentials mints credentials in the cluster's secrets namespace.
func (p *Platform) ImagePullCredentials(ctx context.Context, req model.ImagePullRequest) (*model.RegistryCredentials, error) {
	if p.minter == nil {
		return nil, fmt.Errorf("image pull credentials for %s: no kubernetes access configured: %w", req.Scope, model.ErrExternalFatal)
	}
	creds, err := p.minter.ImagePullCredentials(ctx, p.cluster.SecretsNamespace, req)
	if err != nil {
		return nil, err
	}
	if creds.Registry == "" {
		creds.Registry = p.cluster.RegistryHost
	}
	return creds, nil
}

var _ model.Platform = (*Platform)(nil)
