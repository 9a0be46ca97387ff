package appvaluescfg

import (
	"fmt"
	"strings"

	"github.com/apolo-us/appvalues/domain/model"
)

// Validate performs semantic validation on the configuration tree.
func (r *Root) Validate() error {
	if r.Version != "" && r.Version != "v1" {
		return fmt.Errorf("version: unsupported version %q", r.Version)
	}
	if err := r.Cluster.validate(); err != nil {
		return fmt.Errorf("cluster: %w", err)
	}
	seen := make(map[string]struct{}, len(r.Presets))
	for i, p := range r.Presets {
		if p.Name == "" {
			return fmt.Errorf("presets[%d].name: required", i)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("presets[%d].name: duplicate preset name %q", i, p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.CPU <= 0 {
			return fmt.Errorf("presets[%d].cpu: must be positive", i)
		}
		if p.Memory == "" {
			return fmt.Errorf("presets[%d].memory: required", i)
		}
	}
	seen = make(map[string]struct{}, len(r.Buckets))
	for i, b := range r.Buckets {
		if b.ID == "" {
			return fmt.Errorf("buckets[%d].id: required", i)
		}
		if _, ok := seen[b.ID]; ok {
			return fmt.Errorf("buckets[%d].id: duplicate bucket id %q", i, b.ID)
		}
		seen[b.ID] = struct{}{}
		switch model.BucketProvider(b.Provider) {
		case model.BucketProviderAWS, model.BucketProviderGCP, model.BucketProviderMinio, model.BucketProviderAzure:
		default:
			return fmt.Errorf("buckets[%d].provider: invalid provider %q", i, b.Provider)
		}
	}
	return nil
}

func (c *Cluster) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name: required")
	}
	if c.Org == "" {
		return fmt.Errorf("org: required")
	}
	if c.IngressHostTemplate != "" && strings.Count(c.IngressHostTemplate, "{") != 1 {
		return fmt.Errorf("ingressHostTemplate: must contain exactly one {placeholder}")
	}
	return nil
}
