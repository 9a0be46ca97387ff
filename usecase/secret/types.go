package secret

import (
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/apolo-us/appvalues/domain/model"
)

// DefaultBackoff retries a write up to five times, doubling a 2s initial delay.
var DefaultBackoff = wait.Backoff{Duration: 2 * time.Second, Factor: 2, Steps: 5}

// UseCase wraps the platform secret store with retrying writes.
type UseCase struct {
	Store   model.SecretStore
	Backoff wait.Backoff
}

// New returns a UseCase using DefaultBackoff.
func New(store model.SecretStore) *UseCase {
	return &UseCase{Store: store, Backoff: DefaultBackoff}
}

var _ model.SecretStore = (*UseCase)(nil)
