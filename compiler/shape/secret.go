package shape

import (
	"github.com/apolo-us/appvalues/domain/model"
)

// SecretKeyRef renders ref as {"valueFrom": {"secretKeyRef": {"name", "key"}}}
// against the app's secrets object.
func SecretKeyRef(ref model.SecretRef, secretsName string) map[string]any {
	if secretsName == "" {
		secretsName = ref.StoreName()
	}
	return map[string]any{
		"valueFrom": map[string]any{
			"secretKeyRef": map[string]any{
				"name": secretsName,
				"key":  ref.Key,
			},
		},
	}
}

// SecretValue emits a literal verbatim and a reference as SecretKeyRef.
func SecretValue(v model.StrOrSecret, secretsName string) any {
	if ref := v.Ref(); ref != nil {
		return SecretKeyRef(*ref, secretsName)
	}
	s, _ := v.LiteralValue()
	return s
}

// EnvVar renders a Kubernetes env entry: {name, value} or {name, valueFrom}.
func EnvVar(name string, v model.StrOrSecret, secretsName string) map[string]any {
	if ref := v.Ref(); ref != nil {
		e := SecretKeyRef(*ref, secretsName)
		e["name"] = name
		return e
	}
	s, _ := v.LiteralValue()
	return map[string]any{"name": name, "value": s}
}

// EnvList renders envs in order.
func EnvList(envs []model.Env, secretsName string) []any {
	out := make([]any, 0, len(envs))
	for _, e := range envs {
		out = append(out, EnvVar(e.Name, e.Value, secretsName))
	}
	return out
}
