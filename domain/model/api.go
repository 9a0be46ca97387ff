package model

import (
	"fmt"
	"strings"
)

// API type discriminators carried in output endpoints.
const (
	APITypeHTTP    = "http"
	APITypeREST    = "rest"
	APITypeGraphQL = "graphql"
	APITypeGRPC    = "grpc"
)

// Endpoint is the common shape of every output-side API endpoint.
type Endpoint struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Protocol string   `json:"protocol"`
	BasePath string   `json:"base_path"`
	Timeout  *float64 `json:"timeout,omitempty"`
	APIType  string   `json:"api_type"`
}

// URL renders protocol://host:port/base_path.
func (e Endpoint) URL() string {
	base := e.BasePath
	if base == "" {
		base = "/"
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return fmt.Sprintf("%s://%s:%d%s", e.Protocol, e.Host, e.Port, base)
}

// Validate checks the endpoint when it is used as an input (for example an upstream LLM API).
func (e Endpoint) Validate() error {
	if e.Host == "" {
		return Required("host")
	}
	if e.Port < 1 || e.Port > 65535 {
		return Invalid("port", "must be between 1 and 65535, got %d", e.Port)
	}
	switch e.Protocol {
	case "http", "https":
	default:
		return Invalid("protocol", "must be http or https, got %q", e.Protocol)
	}
	return nil
}

// HTTPAPI is a plain web endpoint.
type HTTPAPI struct{ Endpoint }

// RestAPI is a REST endpoint.
type RestAPI struct{ Endpoint }

// GraphQLAPI is a GraphQL endpoint.
type GraphQLAPI struct{ Endpoint }

// GrpcAPI is a gRPC endpoint.
type GrpcAPI struct{ Endpoint }

func newEndpoint(protocol, host string, port int, basePath, apiType string) Endpoint {
	if basePath == "" {
		basePath = "/"
	}
	return Endpoint{Host: host, Port: port, Protocol: protocol, BasePath: basePath, APIType: apiType}
}

func NewHTTPAPI(protocol, host string, port int, basePath string) HTTPAPI {
	return HTTPAPI{newEndpoint(protocol, host, port, basePath, APITypeHTTP)}
}

func NewRestAPI(protocol, host string, port int, basePath string) RestAPI {
	return RestAPI{newEndpoint(protocol, host, port, basePath, APITypeREST)}
}

func NewGraphQLAPI(protocol, host string, port int, basePath string) GraphQLAPI {
	return GraphQLAPI{newEndpoint(protocol, host, port, basePath, APITypeGraphQL)}
}

func NewGrpcAPI(protocol, host string, port int, basePath string) GrpcAPI {
	return GrpcAPI{newEndpoint(protocol, host, port, basePath, APITypeGRPC)}
}

// ServiceAPI pairs the in-cluster and public addresses of one API.
type ServiceAPI[T any] struct {
	InternalURL *T `json:"internal_url"`
	ExternalURL *T `json:"external_url"`
}
