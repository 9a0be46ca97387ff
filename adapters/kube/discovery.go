package kube

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/apolo-us/appvalues/domain/model"
)

func listOptions(selector map[string]string) metav1.ListOptions {
	return metav1.ListOptions{LabelSelector: labels.SelectorFromSet(selector).String()}
}

func (c *Client) Services(ctx context.Context, namespace string, selector map[string]string) ([]model.DiscoveredService, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	list, err := c.Clientset.CoreV1().Services(namespace).List(ctx, listOptions(selector))
	if err != nil {
		return nil, classify(err, "list services in %s", namespace)
	}
	out := make([]model.DiscoveredService, 0, len(list.Items))
	for _, svc := range list.Items {
		ds := model.DiscoveredService{Name: svc.Name, Namespace: svc.Namespace}
		for _, p := range svc.Spec.Ports {
			ds.Ports = append(ds.Ports, model.DiscoveredServicePort{Name: p.Name, Port: int(p.Port)})
		}
		out = append(out, ds)
	}
	return out, nil
}

func (c *Client) Ingresses(ctx context.Context, namespace string, selector map[string]string) ([]model.DiscoveredIngress, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	list, err := c.Clientset.NetworkingV1().Ingresses(namespace).List(ctx, listOptions(selector))
	if err != nil {
		return nil, classify(err, "list ingresses in %s", namespace)
	}
	out := make([]model.DiscoveredIngress, 0, len(list.Items))
	for _, ing := range list.Items {
		di := model.DiscoveredIngress{Name: ing.Name, Namespace: ing.Namespace, Annotations: ing.Annotations}
		for _, rule := range ing.Spec.Rules {
			di.Hosts = append(di.Hosts, rule.Host)
		}
		out = append(out, di)
	}
	return out, nil
}

func (c *Client) Secrets(ctx context.Context, namespace string, selector map[string]string) ([]model.DiscoveredSecret, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	list, err := c.Clientset.CoreV1().Secrets(namespace).List(ctx, listOptions(selector))
	if err != nil {
		return nil, classify(err, "list secrets in %s", namespace)
	}
	out := make([]model.DiscoveredSecret, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, discoveredSecret(&list.Items[i]))
	}
	return out, nil
}

// discoveredSecret merges stringData over data; the API server does the same on write.
func discoveredSecret(s *corev1.Secret) model.DiscoveredSecret {
	data := make(map[string][]byte, len(s.Data)+len(s.StringData))
	for k, v := range s.Data {
		data[k] = v
	}
	for k, v := range s.StringData {
		data[k] = []byte(v)
	}
	return model.DiscoveredSecret{Name: s.Name, Labels: s.Labels, Data: data}
}

func (c *Client) CustomResources(ctx context.Context, namespace string, k model.ResourceKind, selector map[string]string) ([]map[string]any, error) {
	if c == nil || c.Dynamic == nil {
		return nil, errNotInitialized
	}
	gvr := schema.GroupVersionResource{Group: k.Group, Version: k.Version, Resource: k.Resource}
	list, err := c.Dynamic.Resource(gvr).Namespace(namespace).List(ctx, listOptions(selector))
	if err != nil {
		return nil, classify(err, "list %s in %s", gvr.GroupResource(), namespace)
	}
	out := make([]map[string]any, 0, len(list.Items))
	for _, it := range list.Items {
		out = append(out, it.Object)
	}
	return out, nil
}

var _ model.Discovery = (*Client)(nil)
