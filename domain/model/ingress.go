package model

import "fmt"

// AuthKind selects the authentication middleware placed in front of an HTTP ingress.
type AuthKind string

const (
	AuthApolo  AuthKind = "apolo"  // platform-managed OIDC forward auth
	AuthNone   AuthKind = "none"   // no middleware
	AuthCustom AuthKind = "custom" // caller-supplied middleware CRD
)

// IngressAuth is the authentication choice of an ingress. An empty Kind means AuthApolo.
type IngressAuth struct {
	Kind           AuthKind `json:"type,omitempty"`
	MiddlewareName string   `json:"middleware_name,omitempty"`
}

// ApoloAuth, NoAuth and CustomAuth are convenience constructors.
func ApoloAuth() IngressAuth { return IngressAuth{Kind: AuthApolo} }
func NoAuth() IngressAuth    { return IngressAuth{Kind: AuthNone} }
func CustomAuth(middleware string) IngressAuth {
	return IngressAuth{Kind: AuthCustom, MiddlewareName: middleware}
}

// Effective returns the kind with the default applied.
func (a IngressAuth) Effective() AuthKind {
	if a.Kind == "" {
		return AuthApolo
	}
	return a.Kind
}

func (a IngressAuth) Validate() error {
	switch a.Effective() {
	case AuthApolo, AuthNone:
		if a.MiddlewareName != "" {
			return Invalid("middleware_name", "only allowed with auth type %q", AuthCustom)
		}
	case AuthCustom:
		if a.MiddlewareName == "" {
			return Required("middleware_name")
		}
	default:
		return Invalid("type", "unknown auth type %q", a.Kind)
	}
	return nil
}

// IngressHTTP requests public HTTP exposure.
type IngressHTTP struct {
	Auth IngressAuth `json:"auth"`
}

func (i *IngressHTTP) Validate() error {
	return WithPathPrefix("auth", i.Auth.Validate())
}

// IngressGRPC requests public gRPC exposure.
type IngressGRPC struct {
	Auth IngressAuth `json:"auth"`
}

func (i *IngressGRPC) Validate() error {
	if err := i.Auth.Validate(); err != nil {
		return WithPathPrefix("auth", err)
	}
	return nil
}

func (a IngressAuth) String() string {
	if a.Effective() == AuthCustom {
		return fmt.Sprintf("custom(%s)", a.MiddlewareName)
	}
	return string(a.Effective())
}
