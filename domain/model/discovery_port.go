package model

import "context"

// DiscoveredServicePort is one port of a Kubernetes Service.
type DiscoveredServicePort struct {
	Name string
	Port int
}

// DiscoveredService is the part of a Kubernetes Service the output reader uses.
type DiscoveredService struct {
	Name      string
	Namespace string
	Ports     []DiscoveredServicePort
}

// DiscoveredIngress is the part of a Kubernetes Ingress the output reader uses.
type DiscoveredIngress struct {
	Name        string
	Namespace   string
	Annotations map[string]string
	Hosts       []string // one per rule, in rule order
}

// DiscoveredSecret holds decoded Secret data.
type DiscoveredSecret struct {
	Name   string
	Labels map[string]string
	Data   map[string][]byte
}

// ResourceKind names a custom resource collection.
type ResourceKind struct {
	Group    string
	Version  string
	Resource string
}

// Discovery lists objects in a namespace by label selector.
type Discovery interface {
	Services(ctx context.Context, namespace string, selector map[string]string) ([]DiscoveredService, error)
	Ingresses(ctx context.Context, namespace string, selector map[string]string) ([]DiscoveredIngress, error)
	Secrets(ctx context.Context, namespace string, selector map[string]string) ([]DiscoveredSecret, error)
	// CustomResources returns the unstructured content of each matching object.
	CustomResources(ctx context.Context, namespace string, kind ResourceKind, selector map[string]string) ([]map[string]any, error)
}
