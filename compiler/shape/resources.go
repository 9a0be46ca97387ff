package shape

import (
	"fmt"
	"math"
	"sort"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

const unreachableTolerationSeconds int64 = 300

// CPUString renders cores as whole millicores ("1500m").
func CPUString(cores float64) string {
	return fmt.Sprintf("%dm", int64(math.Round(cores*1000)))
}

// MemoryString renders bytes as decimal megabytes ("4295M").
func MemoryString(bytes int64) string {
	return fmt.Sprintf("%dM", bytes/1_000_000)
}

// Resources returns {requests, limits} for p. Requests always equal limits.
func Resources(p *model.Preset) map[string]any {
	block := func() map[string]any {
		m := map[string]any{
			"cpu":    CPUString(p.CPU),
			"memory": MemoryString(p.Memory),
		}
		for _, v := range model.GPUVendors {
			if n := p.GPUCount(v); n > 0 {
				m[v.ResourceName()] = n
			}
		}
		return m
	}
	return map[string]any{"requests": block(), "limits": block()}
}

func baseTolerations() []corev1.Toleration {
	return []corev1.Toleration{
		{Key: TaintJob, Operator: corev1.TolerationOpExists, Effect: corev1.TaintEffectNoSchedule},
		{Key: corev1.TaintNodeNotReady, Operator: corev1.TolerationOpExists, Effect: corev1.TaintEffectNoExecute, TolerationSeconds: ptr.To(unreachableTolerationSeconds)},
		{Key: corev1.TaintNodeUnreachable, Operator: corev1.TolerationOpExists, Effect: corev1.TaintEffectNoExecute, TolerationSeconds: ptr.To(unreachableTolerationSeconds)},
	}
}

// Tolerations returns the base tolerations plus one per accelerator vendor present in p.
func Tolerations(p *model.Preset) ([]any, error) {
	tols := baseTolerations()
	for _, v := range model.GPUVendors {
		if p.GPUCount(v) > 0 {
			tols = append(tols, corev1.Toleration{Key: v.ResourceName(), Operator: corev1.TolerationOpExists, Effect: corev1.TaintEffectNoSchedule})
		}
	}
	out := make([]any, 0, len(tols))
	for i := range tols {
		m, err := values.FromObject(&tols[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// NodeAffinity pins a workload to the sorted resource pools of p. A preset
// without pools yields an empty affinity.
func NodeAffinity(p *model.Preset) (map[string]any, error) {
	if len(p.ResourcePools) == 0 {
		return map[string]any{}, nil
	}
	pools := append([]string(nil), p.ResourcePools...)
	sort.Strings(pools)
	aff := &corev1.Affinity{
		NodeAffinity: &corev1.NodeAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: &corev1.NodeSelector{
				NodeSelectorTerms: []corev1.NodeSelectorTerm{{
					MatchExpressions: []corev1.NodeSelectorRequirement{{
						Key:      LabelNodePool,
						Operator: corev1.NodeSelectorOpIn,
						Values:   pools,
					}},
				}},
			},
		},
	}
	return values.FromObject(aff)
}

// PresetLabels returns the pod labels identifying the preset.
func PresetLabels(p *model.Preset) map[string]any {
	return map[string]any{
		LabelComponent: ComponentApp,
		LabelPreset:    p.Name,
	}
}

// PresetBlock is the preset-derived part of every workload.
type PresetBlock struct {
	Resources   map[string]any
	Tolerations []any
	Affinity    map[string]any
	Labels      map[string]any
}

// ShapePreset computes resources, tolerations, affinity and labels for p.
func ShapePreset(p *model.Preset) (*PresetBlock, error) {
	if p == nil {
		return nil, fmt.Errorf("nil preset")
	}
	tols, err := Tolerations(p)
	if err != nil {
		return nil, err
	}
	aff, err := NodeAffinity(p)
	if err != nil {
		return nil, err
	}
	return &PresetBlock{
		Resources:   Resources(p),
		Tolerations: tols,
		Affinity:    aff,
		Labels:      PresetLabels(p),
	}, nil
}

// Values returns the block under the top-level keys used by app charts.
func (b *PresetBlock) Values() values.Values {
	return values.Values{
		"resources":   b.Resources,
		"tolerations": b.Tolerations,
		"affinity":    b.Affinity,
		"podLabels":   b.Labels,
	}
}

// VisibleDevices returns the env fragment exposing the preset's GPUs to the
// container. NVIDIA wins when both NVIDIA and AMD units are present.
func VisibleDevices(p *model.Preset) values.Values {
	ids := func(n int) string {
		s := ""
		for i := 0; i < n; i++ {
			if i > 0 {
				s += ","
			}
			s += fmt.Sprint(i)
		}
		return s
	}
	if n := p.GPUCount(model.GPUVendorNvidia); n > 0 {
		return values.Values{"envNvidia": map[string]any{"CUDA_VISIBLE_DEVICES": ids(n)}}
	}
	if n := p.GPUCount(model.GPUVendorAMD); n > 0 {
		return values.Values{"envAmd": map[string]any{
			"HIP_VISIBLE_DEVICES":  ids(n),
			"ROCR_VISIBLE_DEVICES": ids(n),
		}}
	}
	return values.Values{}
}
