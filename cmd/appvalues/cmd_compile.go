package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/usecase/compile"
)

const compileTimeout = 2 * time.Minute

func readInputFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func newCmdCompile() *cobra.Command {
	var (
		appType, appName, namespace, appID, appSecretsName string
		file, output                                       string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile an app input document into Helm flags and values",
		Example: `  appvalues compile --app-type llm-inference --app-name my-llm --namespace ns --app-id abc123 -f input.yaml
  appvalues compile --app-type postgres --app-id abc123 --namespace ns -o values < input.json > values.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			t, err := model.ParseAppType(appType)
			if err != nil {
				return err
			}
			switch output {
			case "json", "values":
			default:
				return fmt.Errorf("unsupported output format %q (json|values)", output)
			}
			data, err := readInputFile(cmd, file)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), compileTimeout)
			defer cancel()
			ctx, cleanup := withCmdRunLogger(ctx, "compile", appID)
			defer func() { cleanup(err) }()

			u, err := buildCompileUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := u.CompileRaw(ctx, &compile.CompileRawInput{
				CompileInput: compile.CompileInput{
					AppType:        t,
					AppName:        appName,
					Namespace:      namespace,
					AppID:          appID,
					AppSecretsName: appSecretsName,
				},
				Data: data,
			})
			if err != nil {
				return err
			}

			if output == "values" {
				y, err := out.Values.YAML()
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), y)
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&appType, "app-type", "", "App type, e.g. llm-inference, postgres (required)")
	cmd.Flags().StringVar(&appName, "app-name", "", "App (release) name")
	cmd.Flags().StringVar(&namespace, "namespace", "", "Namespace the app is installed into")
	cmd.Flags().StringVar(&appID, "app-id", "", "App ID (required)")
	cmd.Flags().StringVar(&appSecretsName, "app-secrets-name", "", "Name of the Secret holding platform secrets (defaults to the cluster setting)")
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Input document (JSON or YAML); - reads stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json (helm args and values) or values (values YAML only)")
	_ = cmd.MarkFlagRequired("app-type")
	_ = cmd.MarkFlagRequired("app-id")
	return cmd
}
