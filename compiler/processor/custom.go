package processor

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	defaultPortName = "http"
	defaultPort     = 80
	imageScheme     = "image://"
)

// CustomDeployment compiles arbitrary container deployments. Other processors
// delegate to it after building a CustomDeploymentInputs.
type CustomDeployment struct {
	baseProcessor
}

func (p *CustomDeployment) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	cd, err := inputAs[*schema.CustomDeploymentInputs](in)
	if err != nil {
		return nil, err
	}
	return p.compile(ctx, model.AppTypeCustomDeployment, cd, req)
}

// platformImage maps an "image:" reference to a registry repository and the
// permission scope needed to pull it.
func platformImage(repo string, cluster *model.ClusterConfig) (repository, scope string, err error) {
	rest := strings.TrimPrefix(repo, model.PlatformImagePrefix)
	clusterName, org, project := cluster.Name, cluster.Org, cluster.Project
	if strings.HasPrefix(repo, imageScheme) {
		parts := strings.SplitN(strings.TrimPrefix(repo, imageScheme), "/", 4)
		if len(parts) != 4 || parts[3] == "" {
			return "", "", model.Invalid("image.repository", "platform image %q must be image://<cluster>/<org>/<project>/<name>", repo)
		}
		clusterName, org, project, rest = parts[0], parts[1], parts[2], parts[3]
	}
	rest = strings.TrimLeft(rest, "/")
	if rest == "" {
		return "", "", model.Invalid("image.repository", "platform image %q has no name", repo)
	}
	if cluster.RegistryHost == "" {
		return "", "", fmt.Errorf("cluster %q has no registry host", cluster.Name)
	}
	if project == "" {
		project = model.DefaultProject
	}
	repository = path.Join(cluster.RegistryHost, org, project, rest)
	scope = imageScheme + path.Join(clusterName, org, project)
	return repository, scope, nil
}

// dockerConfigJSON renders a base64-encoded dockerconfigjson for creds.
func dockerConfigJSON(creds *model.RegistryCredentials) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Token))
	cfg := map[string]any{
		"auths": map[string]any{
			creds.Registry: map[string]any{"auth": auth},
		},
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal docker config: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (d Deps) imageValues(ctx context.Context, img model.Image, cluster *model.ClusterConfig, appID string) (values.Values, error) {
	repository := img.Repository
	out := values.Values{}
	if img.IsPlatformImage() {
		repo, scope, err := platformImage(img.Repository, cluster)
		if err != nil {
			return nil, err
		}
		creds, err := d.Platform.ImagePullCredentials(ctx, model.ImagePullRequest{AppID: appID, Scope: scope})
		if err != nil {
			return nil, fmt.Errorf("image pull credentials for %s: %w", scope, err)
		}
		if creds.Registry == "" {
			creds.Registry = cluster.RegistryHost
		}
		cfg, err := dockerConfigJSON(creds)
		if err != nil {
			return nil, err
		}
		out["dockerconfigjson"] = cfg
		repository = repo
	} else if _, err := name.ParseReference(repository + ":" + img.EffectiveTag()); err != nil {
		return nil, model.Invalid("image.repository", "invalid image reference %q: %v", repository, err)
	}
	out["image"] = map[string]any{
		"repository": repository,
		"tag":        img.EffectiveTag(),
		"pullPolicy": string(img.EffectivePullPolicy()),
	}
	return out, nil
}

func (p *CustomDeployment) compile(ctx context.Context, appType model.AppType, in *schema.CustomDeploymentInputs, req Request) (values.Values, error) {
	net := in.Networking
	if net == nil {
		net = &schema.Networking{}
	}
	ports := net.Ports
	if len(ports) == 0 {
		ports = []model.Port{{Name: defaultPortName, Port: defaultPort}}
	}
	var mounts []model.FilesMount
	if in.StorageMounts != nil {
		mounts = in.StorageMounts.Mounts
	}
	b, err := p.deps.buildBase(ctx, req, skeleton{
		AppType: appType,
		Preset:  in.Preset,
		HTTP:    net.IngressHTTP,
		GRPC:    net.IngressGRPC,
		Ports:   ports,
		WebApp:  true,
		Mounts:  mounts,
	})
	if err != nil {
		return nil, err
	}
	secrets := secretsName(req, b.Cluster)

	img, err := p.deps.imageValues(ctx, in.Image, b.Cluster, req.AppID)
	if err != nil {
		return nil, err
	}

	container := map[string]any{}
	if c := in.Container; c != nil {
		if len(c.Command) > 0 {
			container["command"] = stringList(c.Command)
		}
		if len(c.Args) > 0 {
			container["args"] = stringList(c.Args)
		}
		container["env"] = shape.EnvList(c.Env, secrets)
	}

	svcPorts := make([]any, 0, len(ports))
	for _, port := range ports {
		svcPorts = append(svcPorts, map[string]any{"name": port.Name, "containerPort": port.Port})
	}

	autoscaling := map[string]any{"enabled": false}
	if a := in.Autoscaling; a != nil {
		autoscaling = map[string]any{
			"enabled":     true,
			"minReplicas": a.MinReplicas,
			"maxReplicas": a.MaxReplicas,
		}
		if a.TargetCPUUtilizationPercentage > 0 {
			autoscaling["targetCPUUtilizationPercentage"] = a.TargetCPUUtilizationPercentage
		}
	}

	app := values.Values{
		"container":   container,
		"service":     map[string]any{"enabled": true, "ports": svcPorts},
		"autoscaling": autoscaling,
	}
	if dc := in.DockerConfig; dc != nil {
		app["dockerConfig"] = map[string]any{"enabled": true, "file": shape.SecretValue(dc.File, secrets)}
	}
	return values.Merge(b.Values, img, app), nil
}
