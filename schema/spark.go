package schema

import (
	"github.com/apolo-us/appvalues/domain/model"
)

// Spark application languages.
const (
	SparkPython = "python"
	SparkJava   = "java"
	SparkScala  = "scala"
)

// SparkApplicationConfig describes what the job runs.
type SparkApplicationConfig struct {
	Type                string             `json:"type"`
	MainApplicationFile model.StoragePath  `json:"main_application_file"`
	MainClass           string             `json:"main_class,omitempty"`
	Arguments           []string           `json:"arguments,omitempty"`
	Volumes             []model.FilesMount `json:"volumes,omitempty"`
}

func (c *SparkApplicationConfig) Validate() error {
	switch c.Type {
	case SparkPython:
	case SparkJava, SparkScala:
		if c.MainClass == "" {
			return model.Required("main_class")
		}
	default:
		return model.Invalid("type", "must be one of python, java, scala; got %q", c.Type)
	}
	if c.MainApplicationFile == "" {
		return model.Required("main_application_file")
	}
	if err := c.MainApplicationFile.Validate(); err != nil {
		return model.WithPathPrefix("main_application_file", err)
	}
	for i := range c.Volumes {
		if err := c.Volumes[i].Validate(); err != nil {
			return model.WithPathPrefix(model.IndexPath("volumes", i), err)
		}
	}
	return nil
}

// SparkDriverConfig sizes the driver pod.
type SparkDriverConfig struct {
	Preset string `json:"preset"`
}

// SparkExecutorConfig sizes the executor pods.
type SparkExecutorConfig struct {
	Preset    string `json:"preset"`
	Instances int    `json:"instances,omitempty"`
}

// SparkAutoScalingConfig enables dynamic allocation. It is passed through as is.
type SparkAutoScalingConfig struct {
	InitialExecutors       *int `json:"initial_executors,omitempty"`
	MinExecutors           int  `json:"min_executors"`
	MaxExecutors           int  `json:"max_executors"`
	ShuffleTrackingTimeout int  `json:"shuffle_tracking_timeout,omitempty"`
}

// SparkJobInputs runs a Spark application.
type SparkJobInputs struct {
	Image                  model.Image             `json:"image"`
	SparkApplicationConfig SparkApplicationConfig  `json:"spark_application_config"`
	DriverConfig           SparkDriverConfig       `json:"driver_config"`
	ExecutorConfig         SparkExecutorConfig     `json:"executor_config"`
	SparkAutoScalingConfig *SparkAutoScalingConfig `json:"spark_auto_scaling_config,omitempty"`
}

func (*SparkJobInputs) AppType() model.AppType { return model.AppTypeSparkJob }

func (in *SparkJobInputs) Validate() error {
	if err := in.Image.Validate(); err != nil {
		return model.WithPathPrefix("image", err)
	}
	if err := in.SparkApplicationConfig.Validate(); err != nil {
		return model.WithPathPrefix("spark_application_config", err)
	}
	if err := requirePreset("driver_config.preset", in.DriverConfig.Preset); err != nil {
		return err
	}
	if err := requirePreset("executor_config.preset", in.ExecutorConfig.Preset); err != nil {
		return err
	}
	if in.ExecutorConfig.Instances < 0 {
		return model.Invalid("executor_config.instances", "must not be negative")
	}
	if a := in.SparkAutoScalingConfig; a != nil && a.MaxExecutors < a.MinExecutors {
		return model.Invalid("spark_auto_scaling_config.max_executors", "must not be below min_executors")
	}
	return nil
}

// SparkJobOutputs is empty: jobs publish no endpoints.
type SparkJobOutputs struct{}
