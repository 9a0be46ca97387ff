// Package shape turns platform concepts (presets, ingress intents, files mounts,
// secret references) into Helm values fragments.
package shape

// Label, annotation and taint keys understood by the platform. Changing them is
// visible in clusters.
const (
	PlatformDomain = "platform.apolo.us"
	LegacyDomain   = "platform.neuromation.io"

	LabelComponent     = PlatformDomain + "/component"
	LabelPreset        = PlatformDomain + "/preset"
	LabelInjectStorage = PlatformDomain + "/inject-storage"
	LabelOrg           = PlatformDomain + "/org"
	LabelProject       = PlatformDomain + "/project"

	AnnotationInjectStorage = PlatformDomain + "/inject-storage"

	LabelNodePool = LegacyDomain + "/nodepool"
	TaintJob      = LegacyDomain + "/job"

	ComponentApp = "app"

	AnnotationRouterMiddlewares = "traefik.ingress.kubernetes.io/router.middlewares"
	AnnotationServersScheme     = "traefik.ingress.kubernetes.io/service.serversscheme"
)
