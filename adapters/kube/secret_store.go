package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

// SecretStore keeps platform secrets as data keys of one Kubernetes Secret,
// the secrets object that app values reference through secretKeyRef.
// Concurrent writers race on the Secret's resourceVersion; a lost race is a
// transient conflict.
type SecretStore struct {
	client    *Client
	namespace string
	name      string
}

// NewSecretStore returns a store backed by the Secret namespace/name.
func NewSecretStore(c *Client, namespace, name string) *SecretStore {
	if name == "" {
		name = model.DefaultSecretsStore
	}
	return &SecretStore{client: c, namespace: namespace, name: name}
}

func (s *SecretStore) get(ctx context.Context) (*corev1.Secret, error) {
	if err := s.client.ready(); err != nil {
		return nil, err
	}
	sec, err := s.client.Clientset.CoreV1().Secrets(s.namespace).Get(ctx, s.name, metav1.GetOptions{})
	if err != nil {
		return nil, classify(err, "get secret %s/%s", s.namespace, s.name)
	}
	return sec, nil
}

func (s *SecretStore) Put(ctx context.Context, appID, logicalKey, value string) (model.SecretRef, error) {
	key := naming.PlatformSecretKey(appID, logicalKey)
	if err := naming.ValidateSecretDataKey(key); err != nil {
		return model.SecretRef{}, model.Invalid("key", "%v", err)
	}
	ref := model.SecretRef{Key: key, Store: s.name}
	if err := s.client.ready(); err != nil {
		return model.SecretRef{}, err
	}
	secrets := s.client.Clientset.CoreV1().Secrets(s.namespace)
	sec, err := secrets.Get(ctx, s.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		_, err = secrets.Create(ctx, &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:   s.name,
				Labels: map[string]string{LabelAppK8sManagedBy: ManagedBy},
			},
			Type: corev1.SecretTypeOpaque,
			Data: map[string][]byte{key: []byte(value)},
		}, metav1.CreateOptions{})
		if err != nil {
			// A concurrent Put created the Secret first; retrying takes the update path.
			if apierrors.IsAlreadyExists(err) {
				return model.SecretRef{}, fmt.Errorf("create secret %s/%s: %w: %w", s.namespace, s.name, model.ErrExternalTransient, err)
			}
			return model.SecretRef{}, classify(err, "create secret %s/%s", s.namespace, s.name)
		}
		return ref, nil
	}
	if err != nil {
		return model.SecretRef{}, classify(err, "get secret %s/%s", s.namespace, s.name)
	}
	if _, ok := sec.Data[key]; ok {
		return model.SecretRef{}, fmt.Errorf("secret key %q in %s/%s: %w", key, s.namespace, s.name, model.ErrAlreadyExists)
	}
	if sec.Data == nil {
		sec.Data = map[string][]byte{}
	}
	sec.Data[key] = []byte(value)
	if _, err := secrets.Update(ctx, sec, metav1.UpdateOptions{}); err != nil {
		return model.SecretRef{}, classify(err, "update secret %s/%s", s.namespace, s.name)
	}
	return ref, nil
}

func (s *SecretStore) Get(ctx context.Context, appID, logicalKey string) (string, error) {
	key := naming.PlatformSecretKey(appID, logicalKey)
	sec, err := s.get(ctx)
	if err != nil {
		return "", err
	}
	v, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("secret key %q in %s/%s: %w", key, s.namespace, s.name, model.ErrNotFound)
	}
	return string(v), nil
}

func (s *SecretStore) Delete(ctx context.Context, appID, logicalKey string, mustExist bool) error {
	key := naming.PlatformSecretKey(appID, logicalKey)
	sec, err := s.get(ctx)
	if err != nil {
		if !mustExist && apierrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if _, ok := sec.Data[key]; !ok {
		if mustExist {
			return fmt.Errorf("secret key %q in %s/%s: %w", key, s.namespace, s.name, model.ErrNotFound)
		}
		return nil
	}
	delete(sec.Data, key)
	if _, err := s.client.Clientset.CoreV1().Secrets(s.namespace).Update(ctx, sec, metav1.UpdateOptions{}); err != nil {
		return classify(err, "update secret %s/%s", s.namespace, s.name)
	}
	return nil
}

var _ model.SecretStore = (*SecretStore)(nil)
