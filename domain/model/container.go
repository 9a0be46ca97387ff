package model

import (
	"strconv"
	"strings"
)

func itoa(i int) string { return strconv.Itoa(i) }

// IndexPath formats "<field>[<i>]".
func IndexPath(field string, i int) string { return field + "[" + itoa(i) + "]" }

// Env is a container environment variable whose value may be a secret reference.
type Env struct {
	Name  string      `json:"name"`
	Value StrOrSecret `json:"value"`
}

func (e *Env) Validate() error {
	if e.Name == "" {
		return Required("name")
	}
	if strings.ContainsAny(e.Name, " =") {
		return Invalid("name", "invalid environment variable name %q", e.Name)
	}
	return nil
}

// Port is a named container port with an optional ingress path.
type Port struct {
	Name string `json:"name"`
	Port int    `json:"port"`
	Path string `json:"path,omitempty"`
}

func (p *Port) Validate() error {
	if p.Name == "" {
		return Required("name")
	}
	if p.Port < 1 || p.Port > 65535 {
		return Invalid("port", "must be between 1 and 65535, got %d", p.Port)
	}
	if p.Path != "" && !strings.HasPrefix(p.Path, "/") {
		return Invalid("path", "must start with '/', got %q", p.Path)
	}
	return nil
}

// Container is the subset of a Kubernetes container the compiler passes through.
type Container struct {
	Command []string `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Env     []Env    `json:"env,omitempty"`
}

func (c *Container) Validate() error {
	seen := map[string]bool{}
	for i := range c.Env {
		p := IndexPath("env", i)
		if err := c.Env[i].Validate(); err != nil {
			return WithPathPrefix(p, err)
		}
		if seen[c.Env[i].Name] {
			return Invalid(p+".name", "duplicate environment variable %q", c.Env[i].Name)
		}
		seen[c.Env[i].Name] = true
	}
	return nil
}

// PullPolicy mirrors the Kubernetes image pull policy.
type PullPolicy string

const (
	PullAlways       PullPolicy = "Always"
	PullIfNotPresent PullPolicy = "IfNotPresent"
	PullNever        PullPolicy = "Never"
)

// PlatformImagePrefix marks a reference into the platform registry.
const PlatformImagePrefix = "image:"

// Image is a container image reference.
type Image struct {
	Repository string     `json:"repository"`
	Tag        string     `json:"tag,omitempty"`
	PullPolicy PullPolicy `json:"pull_policy,omitempty"`
}

func (i *Image) Validate() error {
	if i.Repository == "" {
		return Required("repository")
	}
	switch i.PullPolicy {
	case "", PullAlways, PullIfNotPresent, PullNever:
	default:
		return Invalid("pull_policy", "unknown pull policy %q", i.PullPolicy)
	}
	return nil
}

// IsPlatformImage reports whether the repository refers to the platform registry.
func (i *Image) IsPlatformImage() bool { return strings.HasPrefix(i.Repository, PlatformImagePrefix) }

// EffectiveTag returns Tag or "latest".
func (i *Image) EffectiveTag() string {
	if i.Tag == "" {
		return "latest"
	}
	return i.Tag
}

// EffectivePullPolicy returns PullPolicy or IfNotPresent.
func (i *Image) EffectivePullPolicy() PullPolicy {
	if i.PullPolicy == "" {
		return PullIfNotPresent
	}
	return i.PullPolicy
}
