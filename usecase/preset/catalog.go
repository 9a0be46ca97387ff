package preset

import (
	"context"
	"errors"
	"sync"

	"github.com/apolo-us/appvalues/domain"
	"github.com/apolo-us/appvalues/domain/model"
)

// Catalog exposes the preset repository as a read-only model.PresetCatalog.
func (u *UseCase) Catalog() model.PresetCatalog {
	return &repoCatalog{repo: u.Repos.Preset, cluster: u.Cluster}
}

type repoCatalog struct {
	repo    domain.PresetRepository
	cluster string
}

func (c *repoCatalog) Resolve(ctx context.Context, name string) (*model.Preset, error) {
	p, err := c.repo.Get(ctx, name)
	if errors.Is(err, domain.ErrPresetNotFound) {
		return nil, &model.UnknownPresetError{Cluster: c.cluster, Name: name}
	}
	return p, err
}

func (c *repoCatalog) List(ctx context.Context) ([]*model.Preset, error) {
	return c.repo.List(ctx)
}

// CachedCatalog memoizes one catalog snapshot. A compile call wraps its catalog
// so that every preset lookup of that call sees the same data.
type CachedCatalog struct {
	inner model.PresetCatalog

	mu      sync.Mutex
	list    []*model.Preset
	listed  bool
	byName  map[string]*model.Preset
	missing map[string]error
}

// NewCachedCatalog wraps inner.
func NewCachedCatalog(inner model.PresetCatalog) *CachedCatalog {
	return &CachedCatalog{
		inner:   inner,
		byName:  map[string]*model.Preset{},
		missing: map[string]error{},
	}
}

func (c *CachedCatalog) Resolve(ctx context.Context, name string) (*model.Preset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.byName[name]; ok {
		return p, nil
	}
	if err, ok := c.missing[name]; ok {
		return nil, err
	}
	p, err := c.inner.Resolve(ctx, name)
	switch {
	case errors.Is(err, model.ErrUnknownPreset):
		c.missing[name] = err
		return nil, err
	case err != nil:
		return nil, err
	}
	c.byName[name] = p
	return p, nil
}

func (c *CachedCatalog) List(ctx context.Context) ([]*model.Preset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listed {
		return c.list, nil
	}
	list, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.list, c.listed = list, true
	for _, p := range list {
		c.byName[p.Name] = p
	}
	return list, nil
}
