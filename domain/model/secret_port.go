package model

import "context"

// SecretStore is the platform-scoped secret store. Keys are partitioned per app:
// a value put for (appID, logicalKey) lives under "<logicalKey>-<appID>".
type SecretStore interface {
	// Put creates the secret and returns a reference to it. It fails with
	// ErrAlreadyExists when the key is taken; overwriting callers Delete first.
	Put(ctx context.Context, appID, logicalKey, value string) (SecretRef, error)
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, appID, logicalKey string) (string, error)
	// Delete removes the secret. A missing key is an ErrNotFound error only when mustExist is set.
	Delete(ctx context.Context, appID, logicalKey string, mustExist bool) error
}
