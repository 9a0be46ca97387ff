package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/naming"
)

// SecretStore is a thread-safe in-memory platform secret store, used by
// dry runs and tests.
type SecretStore struct {
	mu    sync.RWMutex
	store string
	items map[string]string
}

// NewSecretStore returns an empty store. References it hands out name store,
// or the default secrets store when empty.
func NewSecretStore(store string) *SecretStore {
	return &SecretStore{store: store, items: make(map[string]string)}
}

func (s *SecretStore) Put(_ context.Context, appID, logicalKey, value string) (model.SecretRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := naming.PlatformSecretKey(appID, logicalKey)
	if _, ok := s.items[key]; ok {
		return model.SecretRef{}, fmt.Errorf("secret %q: %w", key, model.ErrAlreadyExists)
	}
	s.items[key] = value
	return model.SecretRef{Key: key, Store: s.store}, nil
}

func (s *SecretStore) Get(_ context.Context, appID, logicalKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := naming.PlatformSecretKey(appID, logicalKey)
	v, ok := s.items[key]
	if !ok {
		return "", fmt.Errorf("secret %q: %w", key, model.ErrNotFound)
	}
	return v, nil
}

func (s *SecretStore) Delete(_ context.Context, appID, logicalKey string, mustExist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := naming.PlatformSecretKey(appID, logicalKey)
	if _, ok := s.items[key]; !ok {
		if mustExist {
			return fmt.Errorf("secret %q: %w", key, model.ErrNotFound)
		}
		return nil
	}
	delete(s.items, key)
	return nil
}

// Keys returns the stored platform keys, sorted.
func (s *SecretStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
