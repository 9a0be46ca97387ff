package compile

import (
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

// UseCase drives value compilation for every registered app type.
type UseCase struct {
	Presets  model.PresetCatalog
	Platform model.Platform
}

// CompileOutput is the result of one compilation: extra Helm flags and the
// values document.
type CompileOutput struct {
	HelmArgs []string      `json:"helmArgs"`
	Values   values.Values `json:"values"`
}
