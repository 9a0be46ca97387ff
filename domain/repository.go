package domain

import (
	"context"
	"errors"

	"github.com/apolo-us/appvalues/domain/model"
)

// ErrPresetNotFound is returned by PresetRepository.Get for unknown names.
var ErrPresetNotFound = errors.New("preset not found")

// PresetRepository stores and retrieves presets of one cluster.
type PresetRepository interface {
	Get(ctx context.Context, name string) (*model.Preset, error)
	List(ctx context.Context) ([]*model.Preset, error)
	// Upsert creates or replaces the preset with the same name.
	Upsert(ctx context.Context, p *model.Preset) error
	Delete(ctx context.Context, name string) error
}

// Repositories groups repository interfaces for use cases.
type Repositories struct {
	Preset PresetRepository
}
