package outputs

import (
	"context"
	"strings"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const apiKeyArg = "--api-key="

// readRequest is a resolved ReadInput.
type readRequest struct {
	Values    values.Values
	Namespace string
	AppID     string
	AppType   model.AppType
}

func (r *readRequest) selector() map[string]string {
	return appSelector(r.AppType, r.AppID, nil)
}

type reader func(ctx context.Context, u *UseCase, r *readRequest) (any, error)

var readers = map[model.AppType]reader{
	model.AppTypeLLMInference:     readLLM,
	model.AppTypeLLMBundle:        readLLM,
	model.AppTypeCustomDeployment: readCustomDeployment,
	model.AppTypeJupyter:          readWebApp,
	model.AppTypeOpenWebUI:        readWebApp,
	model.AppTypePostgres:         readPostgres,
	model.AppTypeWeaviate:         readWeaviate,
	model.AppTypeMLflow:           readMLflow,
	model.AppTypeSparkJob:         readSparkJob,
	model.AppTypeLightRAG:         readLightRAG,
}

func readLLM(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	addrs, err := u.discover(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	out := &schema.LLMInferenceOutputs{ChatAPI: serviceAPI(*addrs, "/v1", model.NewRestAPI)}

	if name, _ := values.LookupString(r.Values, "model", "modelHFName"); name != "" {
		hf := &schema.HuggingFaceModel{ModelHFName: name}
		tok, _ := values.Lookup(r.Values, "env", "HUGGING_FACE_HUB_TOKEN")
		ref, err := u.secretFromValue(ctx, r.AppID, "hf-token", tok)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			s := model.FromRef(*ref)
			hf.HFToken = &s
		}
		out.HuggingFaceModel = hf
	}
	out.TokenizerHFName, _ = values.LookupString(r.Values, "model", "tokenizerHFName")

	args, _ := values.LookupList(r.Values, "serverExtraArgs")
	for _, a := range args {
		s, ok := a.(string)
		if !ok {
			continue
		}
		if key, found := strings.CutPrefix(s, apiKeyArg); found {
			ref, err := u.mint(ctx, r.AppID, "llm-api-key", key)
			if err != nil {
				return nil, err
			}
			out.LLMAPIKey = &ref
			continue
		}
		out.ServerExtraArgs = append(out.ServerExtraArgs, s)
	}
	return out, nil
}

func readCustomDeployment(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	addrs, err := u.discover(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	return &schema.CustomDeploymentOutputs{AppURL: serviceAPI(*addrs, "/", model.NewHTTPAPI)}, nil
}

func readWebApp(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	addrs, err := u.discover(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	return &schema.WebAppOutputs{AppURL: serviceAPI(*addrs, "/", model.NewHTTPAPI)}, nil
}

func readMLflow(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	addrs, err := u.discover(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	return &schema.MLflowOutputs{
		WebAppURL: serviceAPI(*addrs, "/", model.NewHTTPAPI),
		ServerURL: serviceAPI(*addrs, "/", model.NewRestAPI),
	}, nil
}

func readLightRAG(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	addrs, err := u.discover(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	return &schema.LightRAGOutputs{
		WebAppURL: serviceAPI(*addrs, "/", model.NewHTTPAPI),
		ServerURL: serviceAPI(*addrs, "/", model.NewRestAPI),
	}, nil
}

func readWeaviate(ctx context.Context, u *UseCase, r *readRequest) (any, error) {
	routed, err := u.discoverRouted(ctx, r.Namespace, r.selector())
	if err != nil {
		return nil, err
	}
	out := &schema.WeaviateOutputs{
		HTTPEndpoint:    serviceAPI(routed.HTTP, "/v1", model.NewRestAPI),
		GraphQLEndpoint: serviceAPI(routed.HTTP, "/v1/graphql", model.NewGraphQLAPI),
		GRPCEndpoint:    serviceAPI(routed.GRPC, "/", model.NewGrpcAPI),
	}
	user, _ := values.LookupString(r.Values, "clusterApi", "username")
	if user == "" {
		return out, nil
	}
	pw, _ := values.Lookup(r.Values, "clusterApi", "password")
	ref, err := u.secretFromValue(ctx, r.AppID, "weaviate-password", pw)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, model.Required("clusterApi.password")
	}
	out.Auth = &schema.WeaviateAuth{Username: user, Password: *ref}
	return out, nil
}

func readSparkJob(context.Context, *UseCase, *readRequest) (any, error) {
	return &schema.SparkJobOutputs{}, nil
}
