package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

func requirePreset(path, preset string) error {
	if preset == "" {
		return model.Required(path)
	}
	return nil
}

func validateIngress(http *model.IngressHTTP, grpc *model.IngressGRPC) error {
	if http != nil {
		if err := http.Validate(); err != nil {
			return model.WithPathPrefix("ingress_http", err)
		}
	}
	if grpc != nil {
		if err := grpc.Validate(); err != nil {
			return model.WithPathPrefix("ingress_grpc", err)
		}
	}
	return nil
}

func validateEnvs(field string, envs []model.Env) error {
	seen := map[string]bool{}
	for i := range envs {
		p := model.IndexPath(field, i)
		if err := envs[i].Validate(); err != nil {
			return model.WithPathPrefix(p, err)
		}
		if err := naming.ValidateEnvName(envs[i].Name); err != nil {
			return model.Invalid(p+".name", "%v", err)
		}
		if seen[envs[i].Name] {
			return model.Invalid(p+".name", "duplicate environment variable %q", envs[i].Name)
		}
		seen[envs[i].Name] = true
	}
	return nil
}

func validatePorts(field string, ports []model.Port) error {
	seen := map[string]bool{}
	for i := range ports {
		p := model.IndexPath(field, i)
		if err := ports[i].Validate(); err != nil {
			return model.WithPathPrefix(p, err)
		}
		if err := naming.ValidatePortName(ports[i].Name); err != nil {
			return model.Invalid(p+".name", "%v", err)
		}
		if seen[ports[i].Name] {
			return model.Invalid(p+".name", "duplicate port name %q", ports[i].Name)
		}
		seen[ports[i].Name] = true
	}
	return nil
}

func minSize(path string, size, minimum int) error {
	if size < minimum {
		return model.Invalid(path, "must be at least %d GiB, got %d", minimum, size)
	}
	return nil
}
