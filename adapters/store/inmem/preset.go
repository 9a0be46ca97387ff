package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/apolo-us/appvalues/domain"
	"github.com/apolo-us/appvalues/domain/model"
)

// PresetRepository is a thread-safe in-memory implementation.
type PresetRepository struct {
	mu    sync.RWMutex
	items map[string]*model.Preset
}

func NewPresetRepository() *PresetRepository {
	return &PresetRepository{items: make(map[string]*model.Preset)}
}

func copyPreset(p *model.Preset) *model.Preset {
	cp := *p
	cp.Accelerators = append([]model.Accelerator(nil), p.Accelerators...)
	cp.ResourcePools = append([]string(nil), p.ResourcePools...)
	return &cp
}

func (r *PresetRepository) Get(_ context.Context, name string) (*model.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	if !ok {
		return nil, domain.ErrPresetNotFound
	}
	return copyPreset(v), nil
}

// List returns presets sorted by name.
func (r *PresetRepository) List(_ context.Context) ([]*model.Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Preset, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, copyPreset(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PresetRepository) Upsert(_ context.Context, p *model.Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.Name] = copyPreset(p)
	return nil
}

func (r *PresetRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return domain.ErrPresetNotFound
	}
	delete(r.items, name)
	return nil
}
