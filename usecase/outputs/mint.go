package outputs

import (
	"context"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

// mint stores value under logicalKey, replacing a value left by an earlier read.
func (u *UseCase) mint(ctx context.Context, appID, logicalKey, value string) (model.SecretRef, error) {
	if err := u.Secrets.Delete(ctx, appID, logicalKey, false); err != nil {
		return model.SecretRef{}, fmt.Errorf("replace secret %s: %w", logicalKey, err)
	}
	ref, err := u.Secrets.Put(ctx, appID, logicalKey, value)
	if err != nil {
		return model.SecretRef{}, fmt.Errorf("mint secret %s: %w", logicalKey, err)
	}
	return ref, nil
}

// secretFromValue turns a value rendered by the compiler into a SecretRef.
// A secretKeyRef is referenced as is; a literal is minted under logicalKey.
// Nil and empty values yield nil.
func (u *UseCase) secretFromValue(ctx context.Context, appID, logicalKey string, v any) (*model.SecretRef, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if x == "" {
			return nil, nil
		}
		ref, err := u.mint(ctx, appID, logicalKey, x)
		if err != nil {
			return nil, err
		}
		return &ref, nil
	case map[string]any:
		key, _ := values.LookupString(x, "valueFrom", "secretKeyRef", "key")
		if key == "" {
			return nil, fmt.Errorf("%s: secret reference without key", logicalKey)
		}
		name, _ := values.LookupString(x, "valueFrom", "secretKeyRef", "name")
		return &model.SecretRef{Key: key, Store: name}, nil
	}
	return nil, fmt.Errorf("%s: unexpected value of type %T", logicalKey, v)
}
