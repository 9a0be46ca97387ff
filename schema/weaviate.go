package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

const minWeaviatePersistenceSize = 32

// BasicAuth is a username/password pair.
type BasicAuth struct {
	Username string            `json:"username"`
	Password model.StrOrSecret `json:"password"`
}

func (a *BasicAuth) Validate() error {
	if a.Username == "" {
		return model.Required("username")
	}
	if a.Password.IsZero() {
		return model.Required("password")
	}
	return nil
}

// Persistence sizes a data volume in GiB.
type Persistence struct {
	Size int `json:"size"`
}

// WeaviateInputs deploys a Weaviate vector store.
type WeaviateInputs struct {
	Preset         string             `json:"preset"`
	Persistence    Persistence        `json:"persistence"`
	ClusterAPI     *BasicAuth         `json:"cluster_api,omitempty"`
	IngressHTTP    *model.IngressHTTP `json:"ingress_http,omitempty"`
	IngressGRPC    *model.IngressGRPC `json:"ingress_grpc,omitempty"`
	BackupBucketID string             `json:"backup_bucket_id,omitempty"`
}

func (*WeaviateInputs) AppType() model.AppType { return model.AppTypeWeaviate }

func (in *WeaviateInputs) Validate() error {
	if err := requirePreset("preset", in.Preset); err != nil {
		return err
	}
	if err := minSize("persistence.size", in.Persistence.Size, minWeaviatePersistenceSize); err != nil {
		return err
	}
	if in.ClusterAPI != nil {
		if err := in.ClusterAPI.Validate(); err != nil {
			return model.WithPathPrefix("cluster_api", err)
		}
	}
	return validateIngress(in.IngressHTTP, in.IngressGRPC)
}

// WeaviateAuth is the cluster API login of a running Weaviate.
type WeaviateAuth struct {
	Username string          `json:"username"`
	Password model.SecretRef `json:"password"`
}

// WeaviateOutputs describes a running Weaviate.
type WeaviateOutputs struct {
	HTTPEndpoint    model.ServiceAPI[model.RestAPI]    `json:"http_endpoint"`
	GraphQLEndpoint model.ServiceAPI[model.GraphQLAPI] `json:"graphql_endpoint"`
	GRPCEndpoint    model.ServiceAPI[model.GrpcAPI]    `json:"grpc_endpoint"`
	Auth            *WeaviateAuth                      `json:"auth,omitempty"`
}
