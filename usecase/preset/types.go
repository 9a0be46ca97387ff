package preset

import "github.com/apolo-us/appvalues/domain"

// Repos groups repositories required by preset use cases.
type Repos struct {
	Preset domain.PresetRepository
}

// UseCase provides preset catalog operations.
type UseCase struct {
	Repos   *Repos
	Cluster string
}
