package processor

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

// skeleton lists what the shared part of the values depends on.
type skeleton struct {
	AppType model.AppType
	Preset  string
	HTTP    *model.IngressHTTP
	GRPC    *model.IngressGRPC
	Ports   []model.Port
	WebApp  bool
	Mounts  []model.FilesMount
}

// base is the shared value skeleton plus the objects it was computed from.
type base struct {
	Values  values.Values
	Preset  *model.Preset
	Cluster *model.ClusterConfig
}

func (d Deps) resolvePreset(ctx context.Context, name string) (*model.Preset, error) {
	if d.Presets == nil {
		return nil, fmt.Errorf("no preset catalog configured")
	}
	return d.Presets.Resolve(ctx, name)
}

func (d Deps) cluster(ctx context.Context) (*model.ClusterConfig, error) {
	if d.Platform == nil {
		return nil, fmt.Errorf("no platform configured")
	}
	return d.Platform.Cluster(ctx)
}

// secretsName returns the secrets object referenced by secretKeyRef values.
func secretsName(req Request, cluster *model.ClusterConfig) string {
	switch {
	case req.AppSecretsName != "":
		return req.AppSecretsName
	case cluster != nil && cluster.AppsSecretsName != "":
		return cluster.AppsSecretsName
	}
	return model.DefaultSecretsStore
}

// buildBase computes the shared skeleton in a fixed order: resources, ingress,
// storage mounts, then identifiers.
func (d Deps) buildBase(ctx context.Context, req Request, sk skeleton) (*base, error) {
	preset, err := d.resolvePreset(ctx, sk.Preset)
	if err != nil {
		return nil, err
	}
	cluster, err := d.cluster(ctx)
	if err != nil {
		return nil, err
	}
	block, err := shape.ShapePreset(preset)
	if err != nil {
		return nil, err
	}
	ingress, err := shape.Ingress(shape.IngressRequest{
		Cluster:   cluster,
		AppType:   sk.AppType,
		AppID:     req.AppID,
		Namespace: req.Namespace,
		HTTP:      sk.HTTP,
		GRPC:      sk.GRPC,
		Ports:     sk.Ports,
		WebApp:    sk.WebApp,
	})
	if err != nil {
		return nil, err
	}
	storage, err := shape.StorageMounts(cluster, sk.Mounts)
	if err != nil {
		return nil, err
	}
	v := values.Merge(
		values.Values{"preset_name": preset.Name},
		block.Values(),
		values.Values{"podAnnotations": map[string]any{}},
		ingress,
		storage,
		values.Values{
			"apolo_app_id":   req.AppID,
			"apolo_app_type": string(sk.AppType),
			"appTypesImage":  map[string]any{"tag": cluster.AppTypesImageTag},
		},
	)
	return &base{Values: v, Preset: preset, Cluster: cluster}, nil
}
