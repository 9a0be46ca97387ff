// Package outputs reads the runtime outputs of an installed app: endpoints
// discovered from its Services and Ingresses, and credentials minted into the
// platform secret store. It also removes those secrets again (Cleanup).
package outputs

import (
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

// UseCase reads and cleans app outputs. Secrets is typically the retrying
// secret store of usecase/secret.
type UseCase struct {
	Discovery model.Discovery
	Secrets   model.SecretStore
}

// ReadInput identifies the release whose outputs are read.
type ReadInput struct {
	// Values are the release values produced by the compiler.
	Values    values.Values
	Namespace string
	// AppID and AppType default to apolo_app_id and apolo_app_type of Values.
	AppID   string
	AppType model.AppType
}

// ReadOutput is the typed output document of an app.
type ReadOutput struct {
	AppType  model.AppType `json:"appType"`
	AppID    string        `json:"appId"`
	Document any           `json:"document"`
}

// CleanupInput names the output document whose secrets are removed.
type CleanupInput struct {
	AppID    string
	Document any
}

// CleanupOutput lists platform keys that were deleted, skipped or failed.
type CleanupOutput struct {
	Deleted []string `json:"deleted"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}
