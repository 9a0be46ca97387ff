package outputs

import (
	"context"
	"fmt"
	"reflect"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/internal/logging"
	"github.com/apolo-us/appvalues/internal/metrics"
	"github.com/apolo-us/appvalues/internal/naming"
)

var (
	secretRefType   = reflect.TypeOf(model.SecretRef{})
	strOrSecretType = reflect.TypeOf(model.StrOrSecret{})
)

type visitKey struct {
	ptr uintptr
	typ reflect.Type
}

// refWalker collects SecretRefs depth first. Pointers, slices and maps are
// visited once each so that cyclic documents terminate.
type refWalker struct {
	visited map[visitKey]struct{}
	seen    map[model.SecretRef]struct{}
	refs    []model.SecretRef
}

func (w *refWalker) add(ref model.SecretRef) {
	if ref.Key == "" {
		return
	}
	if _, ok := w.seen[ref]; ok {
		return
	}
	w.seen[ref] = struct{}{}
	w.refs = append(w.refs, ref)
}

func (w *refWalker) once(v reflect.Value) bool {
	k := visitKey{ptr: v.Pointer(), typ: v.Type()}
	if _, ok := w.visited[k]; ok {
		return false
	}
	w.visited[k] = struct{}{}
	return true
}

func (w *refWalker) walk(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Type() {
	case secretRefType:
		if v.CanInterface() {
			w.add(v.Interface().(model.SecretRef))
		}
		return
	case strOrSecretType:
		if v.CanInterface() {
			if ref := v.Interface().(model.StrOrSecret).Ref(); ref != nil {
				w.add(*ref)
			}
		}
		return
	}
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || !w.once(v) {
			return
		}
		w.walk(v.Elem())
	case reflect.Interface:
		if !v.IsNil() {
			w.walk(v.Elem())
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).IsExported() {
				w.walk(v.Field(i))
			}
		}
	case reflect.Slice:
		if v.IsNil() || !w.once(v) {
			return
		}
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i))
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i))
		}
	case reflect.Map:
		if v.IsNil() || !w.once(v) {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			w.walk(iter.Key())
			w.walk(iter.Value())
		}
	}
}

// SecretRefs returns every distinct SecretRef reachable from doc, in
// traversal order. Map iteration order is not stable.
func SecretRefs(doc any) []model.SecretRef {
	w := &refWalker{visited: map[visitKey]struct{}{}, seen: map[model.SecretRef]struct{}{}}
	w.walk(reflect.ValueOf(doc))
	return w.refs
}

// Cleanup deletes every secret the output document references that was
// minted for the app. Failed deletions are logged and counted; they never
// stop the walk.
func (u *UseCase) Cleanup(ctx context.Context, in *CleanupInput) (out *CleanupOutput, err error) {
	if in == nil {
		return nil, fmt.Errorf("CleanupInput is required")
	}
	if in.AppID == "" {
		return nil, model.Required("app_id")
	}
	ctx, done := logging.Span(ctx, "Outputs:Cleanup", "appId", in.AppID)
	defer func() { done(err) }()
	logger := logging.FromContext(ctx)

	out = &CleanupOutput{}
	for _, ref := range SecretRefs(in.Document) {
		logical, ok := naming.LogicalSecretKey(in.AppID, ref.Key)
		if !ok {
			logger.Info(ctx, "skip foreign secret", "key", ref.Key)
			out.Skipped = append(out.Skipped, ref.Key)
			continue
		}
		if err := u.Secrets.Delete(ctx, in.AppID, logical, false); err != nil {
			logger.Warn(ctx, "delete secret failed", "key", ref.Key, "err", err)
			metrics.CleanupFailuresTotal.Inc()
			out.Failed = append(out.Failed, ref.Key)
			continue
		}
		out.Deleted = append(out.Deleted, ref.Key)
	}
	return out, nil
}
