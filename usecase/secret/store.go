package secret

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
	"github.com/apolo-us/appvalues/internal/metrics"
)

// retryable reports whether a failed Put may succeed when repeated.
func retryable(err error) bool {
	return !errors.Is(err, model.ErrAlreadyExists) &&
		!errors.Is(err, model.ErrValidation) &&
		!errors.Is(err, model.ErrExternalFatal)
}

// Put writes the secret, retrying transient failures with exponential backoff.
// The last store error is returned once retries are exhausted.
func (u *UseCase) Put(ctx context.Context, appID, logicalKey, value string) (model.SecretRef, error) {
	logger := logging.FromContext(ctx)
	var (
		ref     model.SecretRef
		lastErr error
		attempt int
	)
	err := wait.ExponentialBackoffWithContext(ctx, u.Backoff, func(ctx context.Context) (bool, error) {
		attempt++
		if attempt > 1 {
			metrics.SecretRetriesTotal.Inc()
		}
		r, err := u.Store.Put(ctx, appID, logicalKey, value)
		if err == nil {
			ref = r
			return true, nil
		}
		lastErr = err
		if !retryable(err) {
			return false, err
		}
		logger.Warn(ctx, "secret put failed, retrying", "appId", appID, "key", logicalKey, "attempt", attempt, "err", err)
		return false, nil
	})
	metrics.SecretOpsTotal.WithLabelValues("put", metrics.Result(err)).Inc()
	if err == nil {
		return ref, nil
	}
	if wait.Interrupted(err) && lastErr != nil {
		return model.SecretRef{}, fmt.Errorf("put secret %s after %d attempts: %w", logicalKey, attempt, lastErr)
	}
	return model.SecretRef{}, fmt.Errorf("put secret %s: %w", logicalKey, err)
}

func (u *UseCase) Get(ctx context.Context, appID, logicalKey string) (string, error) {
	v, err := u.Store.Get(ctx, appID, logicalKey)
	metrics.SecretOpsTotal.WithLabelValues("get", metrics.Result(err)).Inc()
	return v, err
}

func (u *UseCase) Delete(ctx context.Context, appID, logicalKey string, mustExist bool) error {
	err := u.Store.Delete(ctx, appID, logicalKey, mustExist)
	metrics.SecretOpsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	return err
}

// Replace deletes any previous value of the key, then puts value.
func (u *UseCase) Replace(ctx context.Context, appID, logicalKey, value string) (model.SecretRef, error) {
	if err := u.Delete(ctx, appID, logicalKey, false); err != nil {
		return model.SecretRef{}, fmt.Errorf("delete secret %s: %w", logicalKey, err)
	}
	return u.Put(ctx, appID, logicalKey, value)
}
