package model

import "context"

// PresetCatalog resolves preset names for the current cluster. Implementations
// are read-only.
type PresetCatalog interface {
	// Resolve returns the preset or an *UnknownPresetError.
	Resolve(ctx context.Context, name string) (*Preset, error)
	List(ctx context.Context) ([]*Preset, error)
}
