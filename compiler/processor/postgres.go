package processor

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	defaultPostgresVersion   = "16"
	postgresInstanceName     = "instance1"
	labelPGOCluster          = "postgres-operator.crunchydata.com/cluster"
	labelPGOInstanceSet      = "postgres-operator.crunchydata.com/instance-set"
	hostnameTopologyKey      = "kubernetes.io/hostname"
	podAntiAffinityWeight    = 100
	defaultPgBouncerReplicas = 1
)

// Postgres compiles managed Postgres clusters (Crunchy PGO).
type Postgres struct {
	baseProcessor
}

func podAntiAffinity(clusterName string) (map[string]any, error) {
	aff := &corev1.Affinity{
		PodAntiAffinity: &corev1.PodAntiAffinity{
			PreferredDuringSchedulingIgnoredDuringExecution: []corev1.WeightedPodAffinityTerm{{
				Weight: podAntiAffinityWeight,
				PodAffinityTerm: corev1.PodAffinityTerm{
					TopologyKey: hostnameTopologyKey,
					LabelSelector: &metav1.LabelSelector{MatchLabels: map[string]string{
						labelPGOCluster:     clusterName,
						labelPGOInstanceSet: postgresInstanceName,
					}},
				},
			}},
		},
	}
	return values.FromObject(aff)
}

// backupValues resolves a platform bucket into the pgBackRest repository block.
func (p *Postgres) backupValues(ctx context.Context, bucketID string) (values.Values, error) {
	if p.deps.Platform == nil {
		return nil, fmt.Errorf("no platform configured")
	}
	bucket, err := p.deps.Platform.Bucket(ctx, bucketID)
	if err != nil {
		return nil, fmt.Errorf("backup bucket %q: %w", bucketID, err)
	}
	var repo map[string]any
	switch {
	case bucket.IsS3Compatible():
		repo = map[string]any{"s3": map[string]any{
			"bucket":    bucket.Name,
			"endpoint":  bucket.Endpoint,
			"region":    bucket.Region,
			"key":       bucket.AccessKeyID,
			"keySecret": bucket.SecretAccessKey,
		}}
	case bucket.Provider == model.BucketProviderGCP:
		repo = map[string]any{"gcs": map[string]any{
			"bucket": bucket.Name,
			"key":    bucket.KeyJSON,
		}}
	default:
		return nil, fmt.Errorf("%w: postgres backups do not support %s bucket %q", model.ErrBucketUnsupported, bucket.Provider, bucketID)
	}
	return values.Values{"pgBackRestConfig": repo}, nil
}

func (p *Postgres) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	pg, err := inputAs[*schema.PostgresInputs](in)
	if err != nil {
		return nil, err
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{AppType: model.AppTypePostgres, Preset: pg.Preset})
	if err != nil {
		return nil, err
	}
	bouncerPreset, err := p.deps.resolvePreset(ctx, pg.PgBouncer.Preset)
	if err != nil {
		return nil, err
	}
	bouncer, err := shape.ShapePreset(bouncerPreset)
	if err != nil {
		return nil, err
	}

	anti, err := podAntiAffinity(req.AppName)
	if err != nil {
		return nil, err
	}
	nodeAff, _ := values.LookupMap(b.Values, "affinity")
	instanceAffinity := values.DeepMerge(nodeAff, anti)

	version := pg.PostgresConfig.PostgresVersion
	if version == "" {
		version = defaultPostgresVersion
	}
	replicas := pg.PostgresConfig.InstanceReplicas
	if replicas == 0 {
		replicas = 1
	}
	bouncerReplicas := pg.PgBouncer.Replicas
	if bouncerReplicas == 0 {
		bouncerReplicas = defaultPgBouncerReplicas
	}
	size := fmt.Sprintf("%dGi", pg.PostgresConfig.InstanceSize)

	users := make([]any, 0, len(pg.DBUsers))
	for _, u := range pg.DBUsers {
		users = append(users, map[string]any{
			"name":      u.Name,
			"databases": stringList(u.Databases()),
		})
	}

	instance := map[string]any{
		"name":     postgresInstanceName,
		"replicas": replicas,
		"dataVolumeClaimSpec": map[string]any{
			"accessModes": []any{"ReadWriteOnce"},
			"resources":   map[string]any{"requests": map[string]any{"storage": size}},
		},
		"resources":   b.Values["resources"],
		"tolerations": b.Values["tolerations"],
		"affinity":    map[string]any(instanceAffinity),
		"metadata":    map[string]any{"labels": b.Values["podLabels"]},
	}
	app := values.Values{
		"postgresVersion":  version,
		"instanceReplicas": replicas,
		"instanceSize":     size,
		"instances":        []any{instance},
		"pgBouncerConfig": map[string]any{
			"replicas":    bouncerReplicas,
			"resources":   bouncer.Resources,
			"tolerations": bouncer.Tolerations,
			"affinity":    bouncer.Affinity,
			"metadata":    map[string]any{"labels": bouncer.Labels},
		},
		"users": users,
	}
	fragments := []map[string]any{b.Values, app}
	if pg.Backup != nil {
		backup, err := p.backupValues(ctx, pg.Backup.BucketID)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, backup)
	}
	return values.Merge(fragments...), nil
}
