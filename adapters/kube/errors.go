package kube

import (
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/apolo-us/appvalues/domain/model"
)

// kind maps a Kubernetes API error to a domain error kind. Errors that are not
// API status errors (connection failures, timeouts) are transient.
func kind(err error) error {
	switch {
	case apierrors.IsNotFound(err):
		return model.ErrNotFound
	case apierrors.IsAlreadyExists(err):
		return model.ErrAlreadyExists
	case apierrors.IsConflict(err),
		apierrors.IsServerTimeout(err),
		apierrors.IsTimeout(err),
		apierrors.IsTooManyRequests(err),
		apierrors.IsServiceUnavailable(err),
		apierrors.IsInternalError(err),
		apierrors.IsUnexpectedServerError(err):
		return model.ErrExternalTransient
	case apierrors.IsForbidden(err),
		apierrors.IsUnauthorized(err),
		apierrors.IsInvalid(err),
		apierrors.IsBadRequest(err),
		apierrors.IsMethodNotSupported(err):
		return model.ErrExternalFatal
	}
	return model.ErrExternalTransient
}

// classify wraps err with its domain kind and a description of the call.
func classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), kind(err), err)
}
