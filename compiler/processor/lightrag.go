package processor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	lightRAGPort    = 9621
	lightRAGBinding = "openai"
)

var lightRAGStorages = [][2]string{
	{"LIGHTRAG_KV_STORAGE", "PGKVStorage"},
	{"LIGHTRAG_VECTOR_STORAGE", "PGVectorStorage"},
	{"LIGHTRAG_DOC_STATUS_STORAGE", "PGDocStatusStorage"},
	{"LIGHTRAG_GRAPH_STORAGE", "PGGraphStorage"},
}

// LightRAG compiles LightRAG servers backed by pgvector.
type LightRAG struct {
	baseProcessor
}

func lightRAGModelEnv(prefix string, m schema.LightRAGModel, secrets string) []any {
	env := []any{
		shape.EnvVar(prefix+"_BINDING", model.Literal(lightRAGBinding), secrets),
		shape.EnvVar(prefix+"_BINDING_HOST", model.Literal(m.Endpoint.URL()), secrets),
		shape.EnvVar(prefix+"_MODEL", model.Literal(m.Model), secrets),
	}
	if !m.APIKey.IsZero() {
		env = append(env, shape.EnvVar(prefix+"_BINDING_API_KEY", m.APIKey, secrets))
	}
	return env
}

func (p *LightRAG) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	l, err := inputAs[*schema.LightRAGInputs](in)
	if err != nil {
		return nil, err
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{
		AppType: model.AppTypeLightRAG,
		Preset:  l.Preset,
		HTTP:    l.IngressHTTP,
		Ports:   []model.Port{{Name: "http", Port: lightRAGPort}},
		WebApp:  true,
	})
	if err != nil {
		return nil, err
	}
	secrets := secretsName(req, b.Cluster)

	env := lightRAGModelEnv("LLM", l.LLM, secrets)
	env = append(env, lightRAGModelEnv("EMBEDDING", l.Embedding, secrets)...)
	env = append(env, shape.EnvVar("EMBEDDING_DIM", model.Literal(strconv.Itoa(l.Embedding.Dimensions)), secrets))

	pg := &l.Postgres.Credentials
	host, port := pg.ConnectHost()
	db := pg.DBName
	if db == "" {
		db = pg.User
	}
	env = append(env,
		shape.EnvVar("POSTGRES_HOST", model.Literal(host), secrets),
		shape.EnvVar("POSTGRES_PORT", model.Literal(strconv.Itoa(port)), secrets),
		shape.EnvVar("POSTGRES_USER", model.Literal(pg.User), secrets),
		shape.EnvVar("POSTGRES_PASSWORD", model.FromRef(pg.Password), secrets),
		shape.EnvVar("POSTGRES_DATABASE", model.Literal(db), secrets),
	)
	for _, kv := range lightRAGStorages {
		env = append(env, shape.EnvVar(kv[0], model.Literal(kv[1]), secrets))
	}

	app := values.Values{
		"env": env,
		"persistence": map[string]any{
			"enabled":    true,
			"ragStorage": map[string]any{"size": fmt.Sprintf("%dGi", l.Persistence.Size)},
		},
		"service": map[string]any{"ports": []any{map[string]any{"name": "http", "port": lightRAGPort}}},
	}
	return values.Merge(b.Values, app), nil
}
