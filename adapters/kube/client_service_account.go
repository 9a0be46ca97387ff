package kube

import (
	"context"
	"fmt"
	"time"

	authenticationv1 "k8s.io/api/authentication/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

// DefaultTokenTTL is the lifetime requested for image pull tokens.
const DefaultTokenTTL = 365 * 24 * time.Hour

// CreateServiceAccount ensures a namespaced ServiceAccount exists (idempotent) and applies
// the provided labels and annotations. Existing accounts get missing or different entries
// merged. Token automounting is always disabled.
func (c *Client) CreateServiceAccount(ctx context.Context, namespace, name string, labels, annotations map[string]string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if namespace == "" {
		return fmt.Errorf("namespace is empty")
	}
	if name == "" {
		return fmt.Errorf("serviceaccount name is empty")
	}

	accounts := c.Clientset.CoreV1().ServiceAccounts(namespace)
	sa, err := accounts.Get(ctx, name, metav1.GetOptions{})
	if err == nil {
		changed := mergeStrings(&sa.Labels, labels)
		changed = mergeStrings(&sa.Annotations, annotations) || changed
		if sa.AutomountServiceAccountToken == nil || *sa.AutomountServiceAccountToken {
			sa.AutomountServiceAccountToken = ptr.To(false)
			changed = true
		}
		if !changed {
			return nil
		}
		if _, err := accounts.Update(ctx, sa, metav1.UpdateOptions{}); err != nil {
			return classify(err, "update serviceaccount %s/%s", namespace, name)
		}
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return classify(err, "get serviceaccount %s/%s", namespace, name)
	}

	sa = &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      labels,
			Annotations: annotations,
		},
		AutomountServiceAccountToken: ptr.To(false),
	}
	if _, err := accounts.Create(ctx, sa, metav1.CreateOptions{}); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return classify(err, "create serviceaccount %s/%s", namespace, name)
	}
	return nil
}

func mergeStrings(dst *map[string]string, src map[string]string) bool {
	if len(src) == 0 {
		return false
	}
	if *dst == nil {
		*dst = map[string]string{}
	}
	changed := false
	for k, v := range src {
		if ev, ok := (*dst)[k]; !ok || ev != v {
			(*dst)[k] = v
			changed = true
		}
	}
	return changed
}

// CreateToken mints a bound token for the ServiceAccount through the TokenRequest API.
func (c *Client) CreateToken(ctx context.Context, namespace, name string, ttl time.Duration, audiences ...string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	req := &authenticationv1.TokenRequest{
		Spec: authenticationv1.TokenRequestSpec{
			Audiences:         audiences,
			ExpirationSeconds: ptr.To(int64(ttl.Seconds())),
		},
	}
	res, err := c.Clientset.CoreV1().ServiceAccounts(namespace).CreateToken(ctx, name, req, metav1.CreateOptions{})
	if err != nil {
		return "", classify(err, "create token for serviceaccount %s/%s", namespace, name)
	}
	if res.Status.Token == "" {
		return "", fmt.Errorf("token request for serviceaccount %s/%s returned no token: %w", namespace, name, model.ErrExternalFatal)
	}
	return res.Status.Token, nil
}

// ImagePullCredentials creates a fresh ServiceAccount in namespace carrying the
// registry scope of req and mints a token for it. The account name is the
// registry user name.
func (c *Client) ImagePullCredentials(ctx context.Context, namespace string, req model.ImagePullRequest) (*model.RegistryCredentials, error) {
	id, err := naming.NewCompactID()
	if err != nil {
		return nil, err
	}
	name := naming.ImagePullServiceAccountName(req.AppID, id)
	labels := map[string]string{
		LabelAppK8sManagedBy: ManagedBy,
		LabelAppK8sComponent: ComponentImagePull,
		LabelAppK8sInstance:  req.AppID,
	}
	annotations := map[string]string{AnnotationImageScope: req.Scope}
	if err := c.CreateServiceAccount(ctx, namespace, name, labels, annotations); err != nil {
		return nil, err
	}
	token, err := c.CreateToken(ctx, namespace, name, DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	return &model.RegistryCredentials{Username: name, Token: token}, nil
}
