// Package values holds the Helm values document type and the deep-merge used to
// layer value fragments.
package values

import (
	"fmt"
	"reflect"

	"helm.sh/helm/v3/pkg/chartutil"
	"k8s.io/apimachinery/pkg/runtime"
)

// Values is a Helm values document: nested map[string]any with []any lists and
// JSON-compatible leaves.
type Values map[string]any

// DeepMerge returns a new document holding the union of left and right. Nested
// mappings are merged recursively, lists are concatenated (left first) and for
// any other pair the right-hand value wins. Neither input is modified.
func DeepMerge(left, right map[string]any) Values {
	out := make(Values, len(left)+len(right))
	for k, v := range left {
		out[k] = clone(v)
	}
	for k, rv := range right {
		lv, ok := out[k]
		if !ok {
			out[k] = clone(rv)
			continue
		}
		out[k] = mergeValue(lv, rv)
	}
	return out
}

// Merge reduces fragments left to right with DeepMerge. Nil fragments are skipped.
func Merge(fragments ...map[string]any) Values {
	out := Values{}
	for _, f := range fragments {
		if f == nil {
			continue
		}
		out = DeepMerge(out, f)
	}
	return out
}

func mergeValue(left, right any) any {
	lm, lok := asMap(left)
	rm, rok := asMap(right)
	if lok && rok {
		return map[string]any(DeepMerge(lm, rm))
	}
	ll, lok := asList(left)
	rl, rok := asList(right)
	if lok && rok {
		merged := make([]any, 0, len(ll)+len(rl))
		for _, v := range ll {
			merged = append(merged, clone(v))
		}
		for _, v := range rl {
			merged = append(merged, clone(v))
		}
		return merged
	}
	return clone(right)
}

// asMap normalizes any string-keyed map to map[string]any.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Values:
		return m, true
	case chartutil.Values:
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList normalizes any slice or array (except []byte) to []any.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func clone(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, e := range m {
			out[k] = clone(e)
		}
		return out
	}
	if l, ok := asList(v); ok {
		out := make([]any, len(l))
		for i, e := range l {
			out[i] = clone(e)
		}
		return out
	}
	return v
}

// Lookup walks keys through nested mappings. Keys may contain dots.
func Lookup(doc map[string]any, keys ...string) (any, bool) {
	var cur any = doc
	for _, k := range keys {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// LookupString is Lookup for string leaves.
func LookupString(doc map[string]any, keys ...string) (string, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// LookupMap is Lookup for mapping nodes.
func LookupMap(doc map[string]any, keys ...string) (map[string]any, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return nil, false
	}
	return asMap(v)
}

// LookupList is Lookup for list nodes.
func LookupList(doc map[string]any, keys ...string) ([]any, bool) {
	v, ok := Lookup(doc, keys...)
	if !ok {
		return nil, false
	}
	return asList(v)
}

// Nest builds {k0: {k1: ... {kn: v}}}.
func Nest(v any, keys ...string) Values {
	if len(keys) == 0 {
		panic("values.Nest: no keys")
	}
	out := Values{keys[len(keys)-1]: v}
	for i := len(keys) - 2; i >= 0; i-- {
		out = Values{keys[i]: map[string]any(out)}
	}
	return out
}

// FromObject converts a typed object (for example a k8s.io/api struct) into a
// values mapping using the Kubernetes unstructured converter.
func FromObject(obj any) (map[string]any, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("convert %T to values: %w", obj, err)
	}
	return m, nil
}

// YAML renders the document the way Helm reads values files.
func (v Values) YAML() (string, error) {
	return chartutil.Values(v).YAML()
}

// Parse reads a JSON or YAML values document.
func Parse(data []byte) (Values, error) {
	cv, err := chartutil.ReadValues(data)
	if err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return Values(cv.AsMap()), nil
}
