package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apolo-us/appvalues/config/appvaluescfg"
	"github.com/apolo-us/appvalues/domain/model"
)

const testConfig = `
version: v1
cluster:
  name: default
  org: myorg
  project: myproject
  ingressHostTemplate: "{app_names}.apps.default.org.apolo.us"
  registryHost: registry.default.org.apolo.us
  secretsNamespace: platform-apps
buckets:
  - id: backups
    provider: aws
    name: my-bucket
    region: us-east-1
`

type fakeMinter struct {
	namespace string
}

func (f *fakeMinter) ImagePullCredentials(_ context.Context, namespace string, req model.ImagePullRequest) (*model.RegistryCredentials, error) {
	f.namespace = namespace
	return &model.RegistryCredentials{Username: "image-pull-x", Token: "t"}, nil
}

func newTestPlatform(t *testing.T, m PullMinter) *Platform {
	t.Helper()
	cfg, err := appvaluescfg.Parse([]byte(testConfig))
	require.NoError(t, err)
	return New(cfg, m)
}

func TestPlatform(t *testing.T) {
	ctx := context.Background()
	m := &fakeMinter{}
	p := newTestPlatform(t, m)

	c, err := p.Cluster(ctx)
	require.NoError(t, err)
	assert.Equal(t, "myorg", c.Org)
	c.Org = "mutated"
	c2, _ := p.Cluster(ctx)
	assert.Equal(t, "myorg", c2.Org)

	b, err := p.Bucket(ctx, "backups")
	require.NoError(t, err)
	assert.Equal(t, model.BucketProviderAWS, b.Provider)
	_, err = p.Bucket(ctx, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)

	creds, err := p.ImagePullCredentials(ctx, model.ImagePullRequest{AppID: "a", Scope: "image://default/myorg/myproject"})
	require.NoError(t, err)
	assert.Equal(t, "registry.default.org.apolo.us", creds.Registry)
	assert.Equal(t, "platform-apps", m.namespace)
}

func TestPlatformWithoutCluster(t *testing.T) {
	p := newTestPlatform(t, nil)
	_, err := p.ImagePullCredentials(context.Background(), model.ImagePullRequest{Scope: "image://x"})
	assert.ErrorIs(t, err, model.ErrExternalFatal)
}
