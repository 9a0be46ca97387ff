package kube

// Label and annotation keys written by the kube adapter.
const (
	// PlatformDomain prefixes every platform label and annotation.
	PlatformDomain = "platform.apolo.us"

	LabelAppK8sInstance  = "app.kubernetes.io/instance"
	LabelAppK8sManagedBy = "app.kubernetes.io/managed-by"
	LabelAppK8sComponent = "app.kubernetes.io/component"

	// ManagedBy is the managed-by label value of objects this adapter creates.
	ManagedBy = "appvalues"

	ComponentImagePull = "image-pull"

	// AnnotationImageScope records the registry permission of an image pull service account.
	AnnotationImageScope = PlatformDomain + "/image-scope"
)
