package naming

import (
	"errors"
	"fmt"
	"strings"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

// MaxLabelLength is the DNS label limit applied to every dot-separated host segment.
const MaxLabelLength = utilvalidation.DNS1123LabelMaxLength

const dbUserNameMaxLength = 63

// ErrLabelTooLong marks a host name segment exceeding MaxLabelLength.
var ErrLabelTooLong = errors.New("dns label too long")

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s name exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s name: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateHostname strips a trailing dot and checks every label of host. Length
// violations wrap ErrLabelTooLong; other syntax problems are plain errors.
func ValidateHostname(host string) (string, error) {
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", fmt.Errorf("host name must not be empty")
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) > MaxLabelLength {
			return "", fmt.Errorf("%w: %q has %d characters (max %d)", ErrLabelTooLong, label, len(label), MaxLabelLength)
		}
		if errs := utilvalidation.IsDNS1123Label(label); len(errs) > 0 {
			return "", fmt.Errorf("invalid host label %q: %s", label, strings.Join(errs, ", "))
		}
	}
	return host, nil
}

// ValidateDBUserName checks a managed Postgres role name.
func ValidateDBUserName(name string) error {
	return validateDNS1123Label(name, dbUserNameMaxLength, "database user")
}

// ValidatePortName checks a container port name (IANA_SVC_NAME).
func ValidatePortName(name string) error {
	if errs := utilvalidation.IsValidPortName(name); len(errs) > 0 {
		return fmt.Errorf("invalid port name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateSecretDataKey checks that key is usable as a Kubernetes Secret data key.
func ValidateSecretDataKey(key string) error {
	if errs := utilvalidation.IsConfigMapKey(key); len(errs) > 0 {
		return fmt.Errorf("invalid secret key %q: %s", key, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateEnvName checks an environment variable name.
func ValidateEnvName(name string) error {
	if errs := utilvalidation.IsEnvVarName(name); len(errs) > 0 {
		return fmt.Errorf("invalid env name %q: %s", name, strings.Join(errs, ", "))
	}
	return nil
}
