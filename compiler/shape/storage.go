package shape

import (
	"encoding/json"
	"fmt"

	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
)

// injectedMount is the element format read by the storage-injection admission controller.
type injectedMount struct {
	StorageURI string `json:"storage_uri"`
	MountPath  string `json:"mount_path"`
	MountMode  string `json:"mount_mode"`
}

// StorageMounts returns podAnnotations/podLabels that make the admission
// controller mount mounts into the pod. Relative storage paths are resolved
// against the cluster's org and project. No mounts yield an empty fragment.
func StorageMounts(cluster *model.ClusterConfig, mounts []model.FilesMount) (values.Values, error) {
	if len(mounts) == 0 {
		return values.Values{}, nil
	}
	items := make([]injectedMount, 0, len(mounts))
	for i := range mounts {
		m := mounts[i]
		if err := m.Validate(); err != nil {
			return nil, model.WithPathPrefix(model.IndexPath("mounts", i), err)
		}
		uri, err := m.StoragePath.Absolute(cluster.Org, cluster.Name, cluster.Project)
		if err != nil {
			return nil, err
		}
		items = append(items, injectedMount{StorageURI: uri, MountPath: m.MountPath, MountMode: string(m.Mode)})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal storage mounts: %w", err)
	}
	labels := map[string]any{
		LabelInjectStorage: "true",
		LabelOrg:           cluster.Org,
	}
	if cluster.Project != "" {
		labels[LabelProject] = cluster.Project
	}
	return values.Values{
		"podAnnotations": map[string]any{AnnotationInjectStorage: string(data)},
		"podLabels":      labels,
	}, nil
}
