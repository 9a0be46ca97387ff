package preset

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
)

// ImportInput replaces or extends the catalog with Presets.
type ImportInput struct {
	Presets []*model.Preset
	// Prune deletes catalog presets absent from Presets.
	Prune bool
}

// ImportOutput summarizes an import.
type ImportOutput struct {
	Upserted []string
	Pruned   []string
}

// Import upserts every preset of the input, then prunes stale ones when asked.
func (u *UseCase) Import(ctx context.Context, in *ImportInput) (out *ImportOutput, err error) {
	if in == nil {
		return nil, fmt.Errorf("ImportInput is required")
	}
	ctx, done := logging.Span(ctx, "Preset:Import", "count", len(in.Presets), "prune", in.Prune)
	defer func() { done(err) }()

	out = &ImportOutput{}
	keep := make(map[string]struct{}, len(in.Presets))
	for _, p := range in.Presets {
		if p == nil || p.Name == "" {
			return nil, fmt.Errorf("preset name is required")
		}
		if err := u.Repos.Preset.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to upsert preset %s: %w", p.Name, err)
		}
		keep[p.Name] = struct{}{}
		out.Upserted = append(out.Upserted, p.Name)
	}
	if !in.Prune {
		return out, nil
	}
	existing, err := u.Repos.Preset.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	for _, p := range existing {
		if _, ok := keep[p.Name]; ok {
			continue
		}
		if err := u.Repos.Preset.Delete(ctx, p.Name); err != nil {
			return nil, fmt.Errorf("failed to delete preset %s: %w", p.Name, err)
		}
		out.Pruned = append(out.Pruned, p.Name)
	}
	return out, nil
}
