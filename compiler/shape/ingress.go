package shape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

const (
	defaultIngressClass = "traefik"
	defaultPortName     = "http"
	grpcPortName        = "grpc"
	middlewareProvider  = "@kubernetescrd"
	forwardAuthName     = "forwardauth"
	stripHeadersName    = "strip-headers"
)

// ExpandHostTemplate fills the single {placeholder} of template with name and
// validates the resulting host. A label over 63 characters fails with
// model.ErrHostnameTooLong.
func ExpandHostTemplate(template, name string) (string, error) {
	open := strings.Index(template, "{")
	end := strings.Index(template, "}")
	if open < 0 || end < open {
		return "", fmt.Errorf("ingress host template %q has no {placeholder}", template)
	}
	if strings.Contains(template[end+1:], "{") {
		return "", fmt.Errorf("ingress host template %q has more than one placeholder", template)
	}
	host, err := naming.ValidateHostname(template[:open] + name + template[end+1:])
	if errors.Is(err, naming.ErrLabelTooLong) {
		return "", fmt.Errorf("%w: %v; consider a shorter app name", model.ErrHostnameTooLong, err)
	}
	if err != nil {
		return "", fmt.Errorf("ingress host for %q: %w", name, err)
	}
	return host, nil
}

// IngressRequest collects what the ingress shaper needs.
type IngressRequest struct {
	Cluster   *model.ClusterConfig
	AppType   model.AppType
	AppID     string
	Namespace string
	HTTP      *model.IngressHTTP
	GRPC      *model.IngressGRPC
	Ports     []model.Port
	// WebApp selects whether forward-auth companion blocks are emitted.
	WebApp bool
}

func (r *IngressRequest) className() string {
	if r.Cluster != nil && r.Cluster.IngressClassName != "" {
		return r.Cluster.IngressClassName
	}
	return defaultIngressClass
}

func (r *IngressRequest) middlewareChain(auth model.IngressAuth) []string {
	switch auth.Effective() {
	case model.AuthApolo:
		return []string{
			r.Namespace + "-" + forwardAuthName + middlewareProvider,
			r.Namespace + "-" + stripHeadersName + middlewareProvider,
		}
	case model.AuthCustom:
		return []string{auth.MiddlewareName + middlewareProvider}
	}
	return nil
}

// fallbackPortName is the port served at "/" when no port carries a path:
// the port named http, else the first port.
func fallbackPortName(ports []model.Port) string {
	for _, p := range ports {
		if p.Name == defaultPortName {
			return p.Name
		}
	}
	if len(ports) > 0 && ports[0].Name != "" {
		return ports[0].Name
	}
	return defaultPortName
}

// ingressPaths returns one path per port carrying an explicit path, dropping
// ports whose path was already taken. Without explicit paths a single "/" is
// routed to fallbackPortName.
func ingressPaths(ports []model.Port) []any {
	var paths []any
	seen := map[string]bool{}
	for _, p := range ports {
		if p.Path == "" || seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		paths = append(paths, map[string]any{"path": p.Path, "portName": p.Name})
	}
	if len(paths) == 0 {
		paths = []any{map[string]any{"path": "/", "portName": fallbackPortName(ports)}}
	}
	return paths
}

// Ingress returns the {"ingress": ...} fragment. Without an HTTP or gRPC intent
// the ingress is disabled.
func Ingress(req IngressRequest) (values.Values, error) {
	ing := map[string]any{"enabled": false}
	if req.HTTP != nil {
		if req.Cluster == nil || req.Cluster.IngressHostTemplate == "" {
			return nil, fmt.Errorf("cluster has no ingress host template")
		}
		host, err := ExpandHostTemplate(req.Cluster.IngressHostTemplate, naming.AppHostName(req.AppType.Slug(), req.AppID, false))
		if err != nil {
			return nil, err
		}
		annotations := map[string]any{}
		if chain := req.middlewareChain(req.HTTP.Auth); len(chain) > 0 {
			annotations[AnnotationRouterMiddlewares] = strings.Join(chain, ",")
		}
		ing["enabled"] = true
		ing["className"] = req.className()
		ing["hosts"] = []any{map[string]any{"host": host, "paths": ingressPaths(req.Ports)}}
		ing["annotations"] = annotations
		if req.WebApp && req.HTTP.Auth.Effective() == model.AuthApolo {
			ing["forwardAuth"] = map[string]any{
				"enabled":             true,
				"name":                forwardAuthName,
				"address":             req.Cluster.AuthMiddlewareAddress,
				"trustForwardHeader":  true,
				"authResponseHeaders": []any{"X-Auth-Request-User", "X-Auth-Request-Email", "Authorization"},
			}
			ing["stripHeaders"] = map[string]any{
				"enabled": true,
				"name":    stripHeadersName,
				"headers": []any{"Authorization"},
			}
		}
	}
	if req.GRPC != nil {
		if req.Cluster == nil || req.Cluster.IngressHostTemplate == "" {
			return nil, fmt.Errorf("cluster has no ingress host template")
		}
		host, err := ExpandHostTemplate(req.Cluster.IngressHostTemplate, naming.AppHostName(req.AppType.Slug(), req.AppID, true))
		if err != nil {
			return nil, err
		}
		annotations := map[string]any{AnnotationServersScheme: "h2c"}
		if chain := req.middlewareChain(req.GRPC.Auth); len(chain) > 0 {
			annotations[AnnotationRouterMiddlewares] = strings.Join(chain, ",")
		}
		ing["grpc"] = map[string]any{
			"enabled":     true,
			"className":   req.className(),
			"hosts":       []any{map[string]any{"host": host, "paths": []any{map[string]any{"path": "/", "portName": grpcPortName}}}},
			"annotations": annotations,
		}
	}
	return values.Values{"ingress": ing}, nil
}
