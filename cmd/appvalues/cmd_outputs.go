package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apolo-us/appvalues/adapters/helmrel"
	"github.com/apolo-us/appvalues/compiler/values"
	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/schema"
	"github.com/apolo-us/appvalues/usecase/outputs"
)

const outputsTimeout = 5 * time.Minute

func parseOptionalAppType(s string) (model.AppType, error) {
	if s == "" {
		return "", nil
	}
	return model.ParseAppType(s)
}

func newCmdUpdateOutputs() *cobra.Command {
	var (
		appType, appID, namespace, release string
		dryRun                             bool
	)
	cmd := &cobra.Command{
		Use:   "update-outputs [values-json]",
		Short: "Read the outputs of an installed app and mint its credentials",
		Long: `Reads the outputs of an installed app from its Services, Ingresses and
Secrets, mints credentials into the platform secret store and prints the
output document as JSON. The release values come from the argument (JSON or
YAML) or, with --release, from the deployed Helm release.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if (len(args) == 1) == (release != "") {
				return fmt.Errorf("give either the values document or --release")
			}
			t, err := parseOptionalAppType(appType)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), outputsTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "outputs.update", appID)
			defer func() { cleanup(err) }()

			var vals values.Values
			if release != "" {
				r, err := helmrel.NewReader(ctx, flagString(cmd, "kubeconfig"), namespace)
				if err != nil {
					return err
				}
				if vals, err = r.Values(ctx, release); err != nil {
					return err
				}
			} else if vals, err = values.Parse([]byte(args[0])); err != nil {
				return err
			}

			u, err := buildOutputsUseCase(cmd, dryRun)
			if err != nil {
				return err
			}
			out, err := u.Read(ctx, &outputs.ReadInput{Values: vals, Namespace: namespace, AppID: appID, AppType: t})
			if err != nil {
				return err
			}
			data, err := schema.Encode(out.Document)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&appType, "app-type", "", "App type (defaults to apolo_app_type of the values)")
	cmd.Flags().StringVar(&appID, "app-id", "", "App ID (defaults to apolo_app_id of the values)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Namespace of the app (required)")
	cmd.Flags().StringVar(&release, "release", "", "Read values from this deployed Helm release")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Mint secrets into memory instead of the cluster")
	_ = cmd.MarkFlagRequired("namespace")
	return cmd
}

func newCmdCleanupOutputs() *cobra.Command {
	var appType, appID string
	cmd := &cobra.Command{
		Use:   "cleanup-outputs <outputs-json>",
		Short: "Delete the platform secrets minted for an app's output document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t, err := model.ParseAppType(appType)
			if err != nil {
				return err
			}
			doc, err := schema.DecodeOutput(t, []byte(args[0]))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), outputsTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "outputs.cleanup", appID)
			defer func() { cleanup(err) }()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			kc, err := buildKubeClient(cmd, true)
			if err != nil {
				return err
			}
			u := &outputs.UseCase{Discovery: kc, Secrets: buildSecretStore(cfg, kc, false)}
			out, err := u.Cleanup(ctx, &outputs.CleanupInput{AppID: appID, Document: doc})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if len(out.Failed) > 0 {
				return fmt.Errorf("%d of %d secrets could not be deleted", len(out.Failed), len(out.Failed)+len(out.Deleted))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&appType, "app-type", "", "App type of the output document (required)")
	cmd.Flags().StringVar(&appID, "app-id", "", "App ID the secrets were minted for (required)")
	_ = cmd.MarkFlagRequired("app-type")
	_ = cmd.MarkFlagRequired("app-id")
	return cmd
}
