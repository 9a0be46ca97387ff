package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apolo-us/appvalues/domain"
	"github.com/apolo-us/appvalues/domain/model"
)

// PresetRepository is a GORM-backed implementation of domain.PresetRepository.
type PresetRepository struct{ db *gorm.DB }

func NewPresetRepository(db *gorm.DB) *PresetRepository { return &PresetRepository{db: db} }

type acceleratorJSON struct {
	Vendor string `json:"vendor"`
	Count  int    `json:"count"`
	Memory int64  `json:"memory,omitempty"`
	Model  string `json:"model,omitempty"`
}

func presetToRecord(p *model.Preset) (*PresetRecord, error) {
	accs := make([]acceleratorJSON, 0, len(p.Accelerators))
	for _, a := range p.Accelerators {
		accs = append(accs, acceleratorJSON{Vendor: string(a.Vendor), Count: a.Count, Memory: a.Memory, Model: a.Model})
	}
	accData, err := json.Marshal(accs)
	if err != nil {
		return nil, fmt.Errorf("encode accelerators: %w", err)
	}
	pools := p.ResourcePools
	if pools == nil {
		pools = []string{}
	}
	poolData, err := json.Marshal(pools)
	if err != nil {
		return nil, fmt.Errorf("encode resource pools: %w", err)
	}
	return &PresetRecord{
		Name:           p.Name,
		CPU:            p.CPU,
		Memory:         p.Memory,
		Shm:            p.Shm,
		Accelerators:   string(accData),
		ResourcePools:  string(poolData),
		CreditsPerHour: p.CreditsPerHour,
	}, nil
}

func presetToModel(r *PresetRecord) (*model.Preset, error) {
	p := &model.Preset{
		Name:           r.Name,
		CPU:            r.CPU,
		Memory:         r.Memory,
		Shm:            r.Shm,
		CreditsPerHour: r.CreditsPerHour,
	}
	if r.Accelerators != "" {
		var accs []acceleratorJSON
		if err := json.Unmarshal([]byte(r.Accelerators), &accs); err != nil {
			return nil, fmt.Errorf("preset %q: decode accelerators: %w", r.Name, err)
		}
		for _, a := range accs {
			p.Accelerators = append(p.Accelerators, model.Accelerator{Vendor: model.GPUVendor(a.Vendor), Count: a.Count, Memory: a.Memory, Model: a.Model})
		}
	}
	if r.ResourcePools != "" {
		if err := json.Unmarshal([]byte(r.ResourcePools), &p.ResourcePools); err != nil {
			return nil, fmt.Errorf("preset %q: decode resource pools: %w", r.Name, err)
		}
	}
	return p, nil
}

func (r *PresetRepository) Get(ctx context.Context, name string) (*model.Preset, error) {
	var rec PresetRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPresetNotFound
		}
		return nil, err
	}
	return presetToModel(&rec)
}

func (r *PresetRepository) List(ctx context.Context) ([]*model.Preset, error) {
	var recs []PresetRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Preset, 0, len(recs))
	for i := range recs {
		p, err := presetToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PresetRepository) Upsert(ctx context.Context, p *model.Preset) error {
	rec, err := presetToRecord(p)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"cpu", "memory", "shm", "accelerators", "resource_pools", "credits_per_hour", "updated_at"}),
	}).Create(rec).Error
}

func (r *PresetRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Delete(&PresetRecord{}, "name = ?", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPresetNotFound
	}
	return nil
}

var _ domain.PresetRepository = (*PresetRepository)(nil)
