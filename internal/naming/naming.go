// Package naming centralizes how generated names are derived and checked:
// ingress host names, platform secret keys, service account names and short
// deterministic hashes. Keeping it in one place lets call sites stay free of
// string formatting rules.
package naming

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// defaultLength defines the hex length of hashes (bits ~ length * 4).
const defaultLength = 6

// ShortHash returns the hex SHA1 prefix of length n (clamped to digest size).
func ShortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	h := fmt.Sprintf("%x", sum)
	if n > len(h) {
		n = len(h)
	}
	return h[:n]
}

// AppHash returns the default-length hash of an app id.
func AppHash(appID string) string {
	return ShortHash(appID, defaultLength)
}

// AppHostName returns the value that fills the ingress host template placeholder:
//
//	<slug>--<appID>        for HTTP
//	<slug>--<appID>-grpc   for gRPC
func AppHostName(slug, appID string, grpc bool) string {
	name := slug + "--" + appID
	if grpc {
		name += "-grpc"
	}
	return name
}

// PlatformSecretKey returns `<logicalKey>-<appID>`, the key under which a platform
// secret minted for an app is stored.
func PlatformSecretKey(appID, logicalKey string) string {
	return logicalKey + "-" + appID
}

// LogicalSecretKey is the inverse of PlatformSecretKey. ok is false when key was not
// minted for appID.
func LogicalSecretKey(appID, key string) (string, bool) {
	suffix := "-" + appID
	if appID == "" || !strings.HasSuffix(key, suffix) || len(key) == len(suffix) {
		return "", false
	}
	return strings.TrimSuffix(key, suffix), true
}

// ImagePullServiceAccountName returns `image-pull-<appHash>-<compactID>` which is a
// valid DNS-1123 label for any app id.
func ImagePullServiceAccountName(appID, compactID string) string {
	return "image-pull-" + AppHash(appID) + "-" + compactID
}
