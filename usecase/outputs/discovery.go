package outputs

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/domain/model"
)

const (
	labelApplication = "application"
	labelInstance    = "app.kubernetes.io/instance"

	// TLS is terminated upstream of the ingress controller.
	externalPort     = 80
	internalProtocol = "http"
	externalProtocol = "https"
)

// appSelector selects the objects of one app instance.
func appSelector(appType model.AppType, appID string, extra map[string]string) map[string]string {
	sel := map[string]string{
		labelApplication: appType.Slug(),
		labelInstance:    appID,
	}
	for k, v := range extra {
		sel[k] = v
	}
	return sel
}

// address is a discovered host and port.
type address struct {
	Host string
	Port int
}

// addresses is the internal and external address of one API. Either may be nil.
type addresses struct {
	Internal *address
	External *address
}

func serviceAddress(svc model.DiscoveredService, namespace string) (*address, error) {
	if len(svc.Ports) == 0 {
		return nil, fmt.Errorf("service %s/%s has no ports", namespace, svc.Name)
	}
	return &address{Host: svc.Name + "." + namespace, Port: svc.Ports[0].Port}, nil
}

func ingressAddress(ing model.DiscoveredIngress) (*address, error) {
	switch len(ing.Hosts) {
	case 0:
		return nil, fmt.Errorf("ingress %s/%s has no rules", ing.Namespace, ing.Name)
	case 1:
		return &address{Host: ing.Hosts[0], Port: externalPort}, nil
	}
	return nil, fmt.Errorf("%w: ingress %s/%s has %d rules", model.ErrAmbiguousDiscovery, ing.Namespace, ing.Name, len(ing.Hosts))
}

// discover looks up the single Service and the single Ingress matching sel.
// Lookups run concurrently; more than one match fails.
func (u *UseCase) discover(ctx context.Context, namespace string, sel map[string]string) (*addresses, error) {
	out := &addresses{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svcs, err := u.Discovery.Services(gctx, namespace, sel)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		switch len(svcs) {
		case 0:
			return nil
		case 1:
			out.Internal, err = serviceAddress(svcs[0], namespace)
			return err
		}
		return fmt.Errorf("%w: %d services match %v", model.ErrAmbiguousDiscovery, len(svcs), sel)
	})
	g.Go(func() error {
		ings, err := u.Discovery.Ingresses(gctx, namespace, sel)
		if err != nil {
			return fmt.Errorf("list ingresses: %w", err)
		}
		switch len(ings) {
		case 0:
			return nil
		case 1:
			out.External, err = ingressAddress(ings[0])
			return err
		}
		return fmt.Errorf("%w: %d ingresses match %v", model.ErrAmbiguousDiscovery, len(ings), sel)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// routedAddresses splits Services and Ingresses between an HTTP and a gRPC API.
// Services are routed by name, Ingresses by the h2c backend scheme annotation.
type routedAddresses struct {
	HTTP addresses
	GRPC addresses
}

func isGRPCService(svc model.DiscoveredService) bool {
	for _, p := range svc.Ports {
		if p.Name == "grpc" {
			return true
		}
	}
	return strings.Contains(svc.Name, "grpc")
}

func (u *UseCase) discoverRouted(ctx context.Context, namespace string, sel map[string]string) (*routedAddresses, error) {
	out := &routedAddresses{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svcs, err := u.Discovery.Services(gctx, namespace, sel)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		for _, svc := range svcs {
			slot := &out.HTTP.Internal
			if isGRPCService(svc) {
				slot = &out.GRPC.Internal
			}
			if *slot != nil {
				return fmt.Errorf("%w: service %s/%s duplicates an endpoint of %v", model.ErrAmbiguousDiscovery, namespace, svc.Name, sel)
			}
			if *slot, err = serviceAddress(svc, namespace); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		ings, err := u.Discovery.Ingresses(gctx, namespace, sel)
		if err != nil {
			return fmt.Errorf("list ingresses: %w", err)
		}
		for _, ing := range ings {
			slot := &out.HTTP.External
			if ing.Annotations[shape.AnnotationServersScheme] == "h2c" {
				slot = &out.GRPC.External
			}
			if *slot != nil {
				return fmt.Errorf("%w: ingress %s/%s duplicates an endpoint of %v", model.ErrAmbiguousDiscovery, namespace, ing.Name, sel)
			}
			if *slot, err = ingressAddress(ing); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// serviceAPI builds a ServiceAPI from a and the API constructor newAPI.
func serviceAPI[T any](a addresses, basePath string, newAPI func(protocol, host string, port int, basePath string) T) model.ServiceAPI[T] {
	var out model.ServiceAPI[T]
	if a.Internal != nil {
		v := newAPI(internalProtocol, a.Internal.Host, a.Internal.Port, basePath)
		out.InternalURL = &v
	}
	if a.External != nil {
		v := newAPI(externalProtocol, a.External.Host, a.External.Port, basePath)
		out.ExternalURL = &v
	}
	return out
}
