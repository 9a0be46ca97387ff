// Package helmrel reads the user-supplied values of deployed Helm releases.
package helmrel

import (
	"context"
	"errors"
	"fmt"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/storage/driver"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
)

// Reader reads release values through the Helm SDK.
type Reader struct {
	cfg *action.Configuration
}

// NewReader initializes a Helm action configuration for namespace. Release
// records are read from Secrets, Helm's default storage driver.
func NewReader(ctx context.Context, kubeconfigPath, namespace string) (*Reader, error) {
	settings := cli.New()
	if kubeconfigPath != "" {
		settings.KubeConfig = kubeconfigPath
	}
	logger := logging.FromContext(ctx)
	cfg := new(action.Configuration)
	if err := cfg.Init(settings.RESTClientGetter(), namespace, "secret", func(format string, v ...any) {
		logger.Debugf(ctx, format, v...)
	}); err != nil {
		return nil, fmt.Errorf("init helm configuration: %w", err)
	}
	return &Reader{cfg: cfg}, nil
}

// NewReaderFromConfiguration wraps an initialized configuration.
func NewReaderFromConfiguration(cfg *action.Configuration) *Reader {
	return &Reader{cfg: cfg}
}

// Values returns the values the latest revision of release was installed with.
func (r *Reader) Values(ctx context.Context, release string) (values.Values, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	get := action.NewGetValues(r.cfg)
	v, err := get.Run(release)
	if err != nil {
		if errors.Is(err, driver.ErrReleaseNotFound) {
			return nil, fmt.Errorf("helm release %q: %w", release, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get values of helm release %q: %w", release, err)
	}
	if v == nil {
		v = map[string]any{}
	}
	return values.Values(v), nil
}
