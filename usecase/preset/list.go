package preset

import (
	"context"

	"github.com/apolo-us/appvalues/domain/model"
)

// List returns the presets of the catalog sorted by name.
func (u *UseCase) List(ctx context.Context) ([]*model.Preset, error) {
	return u.Repos.Preset.List(ctx)
}
