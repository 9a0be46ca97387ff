package processor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/apolo-us/appvalues/compiler/shape"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
)

const (
	sparkAppDir          = "/opt/spark/app"
	defaultSparkExecutor = 1
)

var sparkTypes = map[string]string{
	schema.SparkPython: "Python",
	schema.SparkJava:   "Java",
	schema.SparkScala:  "Scala",
}

// SparkJob compiles SparkApplication runs for the Spark operator.
type SparkJob struct {
	baseProcessor
}

// splitMainFile splits the main application file into its directory, mounted
// read-only at sparkAppDir, and the file name.
func splitMainFile(p model.StoragePath) (dir model.StoragePath, file string, err error) {
	s := string(p)
	i := strings.LastIndex(s, "/")
	if i < 0 {
		// storage:<file> lives at the project root.
		c := strings.Index(s, ":")
		return model.StoragePath(s[:c+1]), s[c+1:], nil
	}
	if i == len(s)-1 {
		return "", "", model.Invalid("spark_application_config.main_application_file", "%q does not name a file", s)
	}
	dir, file = model.StoragePath(s[:i]), s[i+1:]
	if strings.HasSuffix(string(dir), "/") {
		return "", "", model.Invalid("spark_application_config.main_application_file", "%q has no directory", s)
	}
	return dir, file, nil
}

// sparkPod renders the driver or executor pod block for preset.
func sparkPod(preset *model.Preset, storage values.Values) (map[string]any, error) {
	block, err := shape.ShapePreset(preset)
	if err != nil {
		return nil, err
	}
	cores := int(math.Ceil(preset.CPU))
	if cores < 1 {
		cores = 1
	}
	storageLabels, _ := values.LookupMap(storage, "podLabels")
	labels := values.Merge(block.Labels, storageLabels)
	pod := map[string]any{
		"cores":       cores,
		"coreLimit":   shape.CPUString(preset.CPU),
		"memory":      fmt.Sprintf("%dm", preset.Memory/(1<<20)),
		"labels":      map[string]any(labels),
		"annotations": storage["podAnnotations"],
		"tolerations": block.Tolerations,
		"affinity":    block.Affinity,
	}
	for _, v := range model.GPUVendors {
		if n := preset.GPUCount(v); n > 0 {
			pod["gpu"] = map[string]any{"name": v.ResourceName(), "quantity": n}
			break
		}
	}
	return pod, nil
}

func (p *SparkJob) ExtraValues(ctx context.Context, in schema.Input, req Request) (values.Values, error) {
	s, err := inputAs[*schema.SparkJobInputs](in)
	if err != nil {
		return nil, err
	}
	cfg := s.SparkApplicationConfig
	dir, file, err := splitMainFile(cfg.MainApplicationFile)
	if err != nil {
		return nil, err
	}
	mounts := []model.FilesMount{{StoragePath: dir, MountPath: sparkAppDir, Mode: model.MountModeRead}}
	for i, v := range cfg.Volumes {
		if v.MountPath == sparkAppDir || strings.HasPrefix(v.MountPath, sparkAppDir+"/") {
			return nil, model.Invalid(model.IndexPath("spark_application_config.volumes", i)+".mount_path", "%s is reserved for the application file", sparkAppDir)
		}
		mounts = append(mounts, v)
	}

	b, err := p.deps.buildBase(ctx, req, skeleton{AppType: model.AppTypeSparkJob, Preset: s.DriverConfig.Preset})
	if err != nil {
		return nil, err
	}
	storage, err := shape.StorageMounts(b.Cluster, mounts)
	if err != nil {
		return nil, model.WithPathPrefix("spark_application_config", err)
	}
	executorPreset, err := p.deps.resolvePreset(ctx, s.ExecutorConfig.Preset)
	if err != nil {
		return nil, err
	}
	driver, err := sparkPod(b.Preset, storage)
	if err != nil {
		return nil, err
	}
	executor, err := sparkPod(executorPreset, storage)
	if err != nil {
		return nil, err
	}
	instances := s.ExecutorConfig.Instances
	if instances == 0 {
		instances = defaultSparkExecutor
	}
	executor["instances"] = instances

	img, err := p.deps.imageValues(ctx, s.Image, b.Cluster, req.AppID)
	if err != nil {
		return nil, err
	}
	repo, _ := values.LookupString(img, "image", "repository")
	tag, _ := values.LookupString(img, "image", "tag")

	spark := map[string]any{
		"type":                sparkTypes[cfg.Type],
		"image":               repo + ":" + tag,
		"imagePullPolicy":     string(s.Image.EffectivePullPolicy()),
		"mainApplicationFile": "local://" + sparkAppDir + "/" + file,
		"arguments":           stringList(cfg.Arguments),
	}
	if cfg.MainClass != "" {
		spark["mainClass"] = cfg.MainClass
	}
	app := values.Values{
		"spark":    spark,
		"driver":   driver,
		"executor": executor,
	}
	if dc, ok := img["dockerconfigjson"]; ok {
		app["dockerconfigjson"] = dc
	}
	if a := s.SparkAutoScalingConfig; a != nil {
		dyn := map[string]any{
			"enabled":                true,
			"minExecutors":           a.MinExecutors,
			"maxExecutors":           a.MaxExecutors,
			"shuffleTrackingTimeout": a.ShuffleTrackingTimeout,
		}
		if a.InitialExecutors != nil {
			dyn["initialExecutors"] = *a.InitialExecutors
		}
		app["dynamicAllocation"] = dyn
	}
	return values.Merge(b.Values, app), nil
}
