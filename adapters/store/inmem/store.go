package inmem

import (
	"context"

	"github.com/apolo-us/appvalues/config/appvaluescfg"
	"github.com/apolo-us/appvalues/domain"
	"github.com/apolo-us/appvalues/domain/model"
)

// Store provides a unified interface for all in-memory repositories.
type Store struct {
	PresetRepo *PresetRepository
	Secrets    *SecretStore
}

// NewStore creates a new in-memory store with all repositories.
func NewStore() *Store {
	return &Store{
		PresetRepo: NewPresetRepository(),
		Secrets:    NewSecretStore(""),
	}
}

// LoadFromConfig loads the presets of an appvalues.yml configuration into the store.
func (s *Store) LoadFromConfig(ctx context.Context, cfg *appvaluescfg.Root) error {
	presets, err := cfg.ToPresets()
	if err != nil {
		return err
	}
	for _, p := range presets {
		if err := s.PresetRepo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	s.Secrets.store = cfg.Cluster.AppsSecretsName
	return nil
}

// LoadFromFile loads an appvalues.yml file into the memory store.
func (s *Store) LoadFromFile(ctx context.Context, path string) error {
	cfg, err := appvaluescfg.Load(path)
	if err != nil {
		return err
	}
	return s.LoadFromConfig(ctx, cfg)
}

// Compile-time assertions
var _ domain.PresetRepository = (*PresetRepository)(nil)
var _ model.SecretStore = (*SecretStore)(nil)
