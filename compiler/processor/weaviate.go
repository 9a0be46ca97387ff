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
	weaviateHTTPPort = 8080
	weaviateGRPCPort = 50051
)

// Weaviate compiles Weaviate vector stores.
type Weaviate struct {
	baseProcessor
}

// s3Backup builds the backups.s3 block. Only AWS buckets are accepted.
func (p *Weaviate) s3Backup(ctx context.Context, bucketID string) (values.Values, error) {
	if p.deps.Platform == nil {
		return nil, fmt.Errorf("no platform configured")
	}
	bucket, err := p.deps.Platform.Bucket(ctx, bucketID)
	if err != nil {
		return nil, fmt.Errorf("backup bucket %q: %w", bucketID, err)
	}
	if bucket.Provider != model.BucketProviderAWS {
		return nil, fmt.Errorf("%w: weaviate backups require an aws bucket, %q is %s", model.ErrBucketUnsupported, bucketID, bucket.Provider)
	}
	endpoint := strings.TrimPrefix(bucket.Endpoint, "https://")
	return values.Values{"backups": map[string]any{"s3": map[string]any{
		"enabled": true,
		"envconfig": map[string]any{
			"BACKUP_S3_BUCKET":   bucket.Name,
			"BACKUP_S3_ENDPOINT": endpoint,
			"BACKUP_S3_REGION":   bucket.Region,
		},
		"secrets": map[string]any{
			"AWS_ACCESS_KEY_ID":     bucket.AccessKeyID,
			"AWS_SECRET_ACCESS_KEY": bucket.SecretAccessKey,
		},
	}}}, nil
}

func (p *Weaviate) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	w, err := inputAs[*schema.WeaviateInputs](in)
	if err != nil {
		return nil, err
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{
		AppType: model.AppTypeWeaviate,
		Preset:  w.Preset,
		HTTP:    w.IngressHTTP,
		GRPC:    w.IngressGRPC,
		Ports:   []model.Port{{Name: "http", Port: weaviateHTTPPort}},
	})
	if err != nil {
		return nil, err
	}
	secrets := secretsName(req, b.Cluster)

	app := values.Values{
		"storage": map[string]any{"size": fmt.Sprintf("%dGi", w.Persistence.Size)},
		"service": map[string]any{"ports": []any{map[string]any{"name": "http", "port": weaviateHTTPPort}}},
		"grpcService": map[string]any{
			"enabled": true,
			"ports":   []any{map[string]any{"name": "grpc", "port": weaviateGRPCPort}},
		},
	}
	if a := w.ClusterAPI; a != nil {
		app["clusterApi"] = map[string]any{
			"username": a.Username,
			"password": shape.SecretValue(a.Password, secrets),
		}
		app["authentication"] = map[string]any{
			"anonymous_access": map[string]any{"enabled": false},
			"apikey": map[string]any{
				"enabled":       true,
				"allowed_users": []any{a.Username},
			},
		}
		app["env"] = map[string]any{
			"AUTHENTICATION_APIKEY_ENABLED":      "true",
			"AUTHENTICATION_APIKEY_USERS":        a.Username,
			"AUTHENTICATION_APIKEY_ALLOWED_KEYS": shape.SecretValue(a.Password, secrets),
		}
	}
	fragments := []map[string]any{b.Values, app}
	if w.BackupBucketID != "" {
		backup, err := p.s3Backup(ctx, w.BackupBucketID)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, backup)
	}
	return values.Merge(fragments...), nil
}
