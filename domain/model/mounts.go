package model

import (
	"path"
	"strings"
)

const (
	storageScheme    = "storage:"
	storageAbsPrefix = "storage://"
	// DefaultProject is used when an org-level path is resolved without a project.
	DefaultProject = "default"
)

// MountMode is the access mode of a platform files mount.
type MountMode string

const (
	MountModeRead      MountMode = "r"
	MountModeReadWrite MountMode = "rw"
)

func (m MountMode) Valid() bool { return m == MountModeRead || m == MountModeReadWrite }

// StoragePath is a platform files path: either absolute ("storage://cluster/org/project/...")
// or relative to the caller's project ("storage:dir/file").
type StoragePath string

func (p StoragePath) Validate() error {
	s := string(p)
	if !strings.HasPrefix(s, storageScheme) {
		return Invalid("", "storage path %q must start with %q", s, storageScheme)
	}
	if strings.HasPrefix(s, storageAbsPrefix) && len(s) == len(storageAbsPrefix) {
		return Invalid("", "storage path %q has no location", s)
	}
	return nil
}

// IsAbsolute reports whether p carries the full storage:// form.
func (p StoragePath) IsAbsolute() bool { return strings.HasPrefix(string(p), storageAbsPrefix) }

// Absolute resolves a relative path to storage://<cluster>/<org>/<project>/<rest>.
// An empty project falls back to DefaultProject. Absolute paths are returned unchanged.
func (p StoragePath) Absolute(org, cluster, project string) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	s := string(p)
	if p.IsAbsolute() {
		return s, nil
	}
	if project == "" {
		project = DefaultProject
	}
	rest := strings.TrimLeft(strings.TrimPrefix(s, storageScheme), "/")
	base := storageAbsPrefix + path.Join(cluster, org, project)
	if rest == "" {
		return base, nil
	}
	return base + "/" + rest, nil
}

// FilesMount makes a platform files path visible inside the pod.
type FilesMount struct {
	StoragePath StoragePath `json:"storage_uri"`
	MountPath   string      `json:"mount_path"`
	Mode        MountMode   `json:"mode"`
}

func (m *FilesMount) Validate() error {
	if m.StoragePath == "" {
		return Required("storage_uri")
	}
	if err := m.StoragePath.Validate(); err != nil {
		return WithPathPrefix("storage_uri", err)
	}
	if m.MountPath == "" {
		return Required("mount_path")
	}
	if !path.IsAbs(m.MountPath) {
		return Invalid("mount_path", "must be an absolute path, got %q", m.MountPath)
	}
	if m.Mode == "" {
		m.Mode = MountModeReadWrite
	}
	if !m.Mode.Valid() {
		return Invalid("mode", "must be %q or %q", MountModeRead, MountModeReadWrite)
	}
	return nil
}

// StorageMounts is a list of files mounts.
type StorageMounts struct {
	Mounts []FilesMount `json:"mounts"`
}

func (s *StorageMounts) Validate() error {
	seen := map[string]bool{}
	for i := range s.Mounts {
		p := "mounts[" + itoa(i) + "]"
		if err := s.Mounts[i].Validate(); err != nil {
			return WithPathPrefix(p, err)
		}
		if seen[s.Mounts[i].MountPath] {
			return Invalid(p+".mount_path", "duplicate mount path %q", s.Mounts[i].MountPath)
		}
		seen[s.Mounts[i].MountPath] = true
	}
	return nil
}
