package values

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name        string
		left, right map[string]any
		want        Values
	}{
		{
			name:  "disjoint keys",
			left:  map[string]any{"a": 1},
			right: map[string]any{"b": 2},
			want:  Values{"a": 1, "b": 2},
		},
		{
			name:  "right wins on leaves",
			left:  map[string]any{"a": 1, "s": "x"},
			right: map[string]any{"a": 2, "s": nil},
			want:  Values{"a": 2, "s": nil},
		},
		{
			name:  "nested maps merge",
			left:  map[string]any{"podLabels": map[string]any{"a": "1"}},
			right: map[string]any{"podLabels": map[string]string{"b": "2"}},
			want:  Values{"podLabels": map[string]any{"a": "1", "b": "2"}},
		},
		{
			name:  "lists concatenate",
			left:  map[string]any{"tolerations": []any{"t1"}},
			right: map[string]any{"tolerations": []string{"t2", "t3"}},
			want:  Values{"tolerations": []any{"t1", "t2", "t3"}},
		},
		{
			name:  "map replaced by leaf",
			left:  map[string]any{"x": map[string]any{"a": 1}},
			right: map[string]any{"x": "flat"},
			want:  Values{"x": "flat"},
		},
		{
			name:  "leaf replaced by list",
			left:  map[string]any{"x": "flat"},
			right: map[string]any{"x": []any{1}},
			want:  Values{"x": []any{1}},
		},
		{
			name:  "nil inputs",
			left:  nil,
			right: nil,
			want:  Values{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.left, tt.right)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DeepMerge mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeepMergeDoesNotAliasInputs(t *testing.T) {
	left := map[string]any{"m": map[string]any{"a": 1}, "l": []any{1}}
	right := map[string]any{"m": map[string]any{"b": 2}}
	out := DeepMerge(left, right)
	out["m"].(map[string]any)["c"] = 3
	out["l"] = append(out["l"].([]any), 2)

	assert.Equal(t, map[string]any{"a": 1}, left["m"])
	assert.Equal(t, []any{1}, left["l"])
	assert.Equal(t, map[string]any{"b": 2}, right["m"])
}

func TestMergeIsLeftToRight(t *testing.T) {
	got := Merge(
		map[string]any{"a": 1, "l": []any{"x"}},
		nil,
		map[string]any{"a": 2, "l": []any{"y"}},
		map[string]any{"a": 3},
	)
	assert.Equal(t, Values{"a": 3, "l": []any{"x", "y"}}, got)
}

func TestLookup(t *testing.T) {
	doc := Values{
		"podLabels": map[string]any{"platform.apolo.us/preset": "cpu-small"},
		"list":      []any{"a"},
	}
	s, ok := LookupString(doc, "podLabels", "platform.apolo.us/preset")
	require.True(t, ok)
	assert.Equal(t, "cpu-small", s)

	_, ok = Lookup(doc, "podLabels", "missing")
	assert.False(t, ok)
	_, ok = Lookup(doc, "list", "x")
	assert.False(t, ok)

	l, ok := LookupList(doc, "list")
	require.True(t, ok)
	assert.Len(t, l, 1)
}

func TestNest(t *testing.T) {
	assert.Equal(t, Values{"a": map[string]any{"b": map[string]any{"c": 1}}}, Nest(1, "a", "b", "c"))
	assert.Equal(t, Values{"a": 1}, Nest(1, "a"))
}

func TestFromObject(t *testing.T) {
	m, err := FromObject(&corev1.Toleration{Key: "k", Operator: corev1.TolerationOpExists, Effect: corev1.TaintEffectNoSchedule})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "k", "operator": "Exists", "effect": "NoSchedule"}, m)
}

func TestParseAndYAML(t *testing.T) {
	v, err := Parse([]byte(`{"apolo_app_id":"a1","ingress":{"enabled":true}}`))
	require.NoError(t, err)
	enabled, ok := Lookup(v, "ingress", "enabled")
	require.True(t, ok)
	assert.Equal(t, true, enabled)

	out, err := Values{"b": 1, "a": "x"}.YAML()
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1\n", out)
}
