package appvaluescfg

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/apolo-us/appvalues/domain/model"
)

// ToClusterConfig converts the cluster section to the model consulted by processors.
func (r *Root) ToClusterConfig() *model.ClusterConfig {
	c := r.Cluster
	return &model.ClusterConfig{
		Name:                  c.Name,
		Org:                   c.Org,
		Project:               c.Project,
		IngressHostTemplate:   c.IngressHostTemplate,
		IngressClassName:      c.IngressClassName,
		AuthMiddlewareAddress: c.AuthMiddlewareAddress,
		RegistryHost:          c.RegistryHost,
		AppsSecretsName:       c.AppsSecretsName,
		SecretsNamespace:      c.SecretsNamespace,
		AppTypesImageTag:      c.AppTypesImageTag,
	}
}

func quantityBytes(field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid quantity %q: %w", field, s, err)
	}
	return q.Value(), nil
}

// ToPresets converts the preset section. Memory quantities become bytes.
func (r *Root) ToPresets() ([]*model.Preset, error) {
	out := make([]*model.Preset, 0, len(r.Presets))
	for i, p := range r.Presets {
		field := fmt.Sprintf("presets[%d]", i)
		mem, err := quantityBytes(field+".memory", p.Memory)
		if err != nil {
			return nil, err
		}
		preset := &model.Preset{
			Name:           p.Name,
			CPU:            p.CPU,
			Memory:         mem,
			Shm:            p.Shm,
			ResourcePools:  append([]string(nil), p.ResourcePools...),
			CreditsPerHour: p.CreditsPerHour,
		}
		gpus := []struct {
			vendor model.GPUVendor
			key    string
			gpu    *GPU
		}{
			{model.GPUVendorNvidia, "nvidiaGPU", p.NvidiaGPU},
			{model.GPUVendorAMD, "amdGPU", p.AmdGPU},
			{model.GPUVendorIntel, "intelGPU", p.IntelGPU},
		}
		for _, g := range gpus {
			if g.gpu == nil || g.gpu.Count == 0 {
				continue
			}
			vram, err := quantityBytes(field+"."+g.key+".memory", g.gpu.Memory)
			if err != nil {
				return nil, err
			}
			preset.Accelerators = append(preset.Accelerators, model.Accelerator{
				Vendor: g.vendor,
				Count:  g.gpu.Count,
				Memory: vram,
				Model:  g.gpu.Model,
			})
		}
		out = append(out, preset)
	}
	return out, nil
}

// ToBuckets converts the bucket section.
func (r *Root) ToBuckets() []*model.Bucket {
	out := make([]*model.Bucket, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		out = append(out, &model.Bucket{
			ID:              b.ID,
			Provider:        model.BucketProvider(b.Provider),
			Name:            b.Name,
			Endpoint:        b.Endpoint,
			Region:          b.Region,
			AccessKeyID:     b.AccessKeyID,
			SecretAccessKey: b.SecretAccessKey,
			KeyJSON:         b.KeyJSON,
		})
	}
	return out
}
