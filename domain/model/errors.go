package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Callers match them with errors.Is; concrete errors wrap them with
// the field, selector or identifier involved. Secret values never appear in
// error text.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrUnsupportedAppType = errors.New("unsupported app type")
	ErrHostnameTooLong    = errors.New("hostname too long")
	ErrAmbiguousDiscovery = errors.New("ambiguous discovery")
	ErrNotFound           = errors.New("not found")
	ErrBucketUnsupported  = errors.New("bucket unsupported")
	ErrNoPresetSatisfies  = errors.New("no preset satisfies")
	ErrExternalTransient  = errors.New("external transient failure")
	ErrExternalFatal      = errors.New("external fatal failure")
	ErrAlreadyExists      = errors.New("already exists")
)

// ValidationError reports a malformed input document. Path points into the
// document using dotted field names and [i] list indexes, e.g. persistence.size.
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "validation: " + e.Msg
	}
	return fmt.Sprintf("validation: %s: %s", e.Path, e.Msg)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError for path.
func Invalid(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// Required reports a missing required field.
func Required(path string) *ValidationError {
	return &ValidationError{Path: path, Msg: "field required"}
}

// WithPathPrefix prepends prefix to the path of a ValidationError found in err.
// Other errors are returned unchanged. Used when validating nested records
// bottom-up.
func WithPathPrefix(prefix string, err error) error {
	if err == nil || prefix == "" {
		return err
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	path := prefix
	switch {
	case ve.Path == "":
	case strings.HasPrefix(ve.Path, "["):
		path = prefix + ve.Path
	default:
		path = prefix + "." + ve.Path
	}
	return &ValidationError{Path: path, Msg: ve.Msg}
}

// UnknownPresetError is returned when a preset name is absent from the catalog.
type UnknownPresetError struct {
	Cluster string
	Name    string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q in cluster %q", e.Name, e.Cluster)
}

func (e *UnknownPresetError) Is(target error) bool { return target == ErrUnknownPreset }
