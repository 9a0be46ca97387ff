package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apolo-us/appvalues/adapters/kube"
	"github.com/apolo-us/appvalues/adapters/platform"
	"github.com/apolo-us/appvalues/adapters/store/inmem"
	"github.com/apolo-us/appvalues/adapters/store/rdb"
	"github.com/apolo-us/appvalues/config/appvaluescfg"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/usecase/compile"
	"github.com/apolo-us/appvalues/usecase/outputs"
	"github.com/apolo-us/appvalues/usecase/preset"
	"github.com/apolo-us/appvalues/usecase/secret"
)

func loadConfig(cmd *cobra.Command) (*appvaluescfg.Root, error) {
	path := flagString(cmd, "config")
	cfg, err := appvaluescfg.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// buildPresetUseCase serves presets from --preset-db when set, otherwise from
// the presets section of the configuration file.
func buildPresetUseCase(cmd *cobra.Command, cfg *appvaluescfg.Root) (*preset.UseCase, error) {
	u := &preset.UseCase{Cluster: cfg.Cluster.Name}
	if dbURL := flagString(cmd, "preset-db"); dbURL != "" {
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate preset db: %w", err)
		}
		u.Repos = &preset.Repos{Preset: rdb.NewPresetRepository(db)}
		return u, nil
	}
	store := inmem.NewStore()
	if err := store.LoadFromConfig(cmd.Context(), cfg); err != nil {
		return nil, err
	}
	u.Repos = &preset.Repos{Preset: store.PresetRepo}
	return u, nil
}

// buildKubeClient returns nil when cluster access is optional and nothing
// points at a cluster: no --kubeconfig, no KUBECONFIG and not running in a pod.
func buildKubeClient(cmd *cobra.Command, required bool) (*kube.Client, error) {
	path := flagString(cmd, "kubeconfig")
	if path == "" && !required && os.Getenv("KUBERNETES_SERVICE_HOST") == "" {
		return nil, nil
	}
	c, err := kube.NewClientFromKubeconfigPath(cmd.Context(), path, &kube.Options{UserAgent: "appvalues/" + version})
	if err != nil {
		return nil, fmt.Errorf("kubernetes client: %w", err)
	}
	return c, nil
}

func buildPlatform(cfg *appvaluescfg.Root, kc *kube.Client) *platform.Platform {
	if kc == nil {
		return platform.New(cfg, nil)
	}
	return platform.New(cfg, kc)
}

func buildCompileUseCase(cmd *cobra.Command) (*compile.UseCase, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	presets, err := buildPresetUseCase(cmd, cfg)
	if err != nil {
		return nil, err
	}
	kc, err := buildKubeClient(cmd, false)
	if err != nil {
		return nil, err
	}
	return &compile.UseCase{Presets: presets.Catalog(), Platform: buildPlatform(cfg, kc)}, nil
}

// buildSecretStore returns the retrying Secret-backed store of the cluster, or
// an in-memory store when dryRun is set.
func buildSecretStore(cfg *appvaluescfg.Root, kc *kube.Client, dryRun bool) model.SecretStore {
	if dryRun {
		return inmem.NewSecretStore(cfg.Cluster.AppsSecretsName)
	}
	c := cfg.ToClusterConfig()
	return secret.New(kube.NewSecretStore(kc, c.SecretsNamespace, c.AppsSecretsName))
}

func buildOutputsUseCase(cmd *cobra.Command, dryRun bool) (*outputs.UseCase, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	kc, err := buildKubeClient(cmd, true)
	if err != nil {
		return nil, err
	}
	return &outputs.UseCase{Discovery: kc, Secrets: buildSecretStore(cfg, kc, dryRun)}, nil
}
