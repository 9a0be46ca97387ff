package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/apolo-us/appvalues/config/appvaluescfg"
	"github.com/apolo-us/appvalues/internal/logging"
	"github.com/apolo-us/appvalues/internal/metrics"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appvalues",
		Short:   "Compile Helm values and read outputs of Apolo apps",
		Long:    "appvalues turns app input documents into Helm flags and values, and reads the outputs of installed apps back into typed documents.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", envOr("APPVALUES_CONFIG", appvaluescfg.DefaultPath), "Configuration file (env APPVALUES_CONFIG)")
	pf.String("preset-db", os.Getenv("APPVALUES_PRESET_DB"), "Preset database URL, e.g. sqlite:./presets.db (env APPVALUES_PRESET_DB); presets come from the config file when empty")
	pf.String("kubeconfig", os.Getenv("KUBECONFIG"), "Kubeconfig file (env KUBECONFIG)")
	pf.String("log-format", "human", "Log format (human|text|json) (env APPVALUES_LOG_FORMAT)")
	pf.String("log-level", "info", "Log level (debug|info|warn|error)")
	pf.String("log-output", "-", "Log destination (- for stderr, none, auto for a new file in --log-dir, or a file path)")
	pf.String("log-dir", envOr("APPVALUES_LOG_DIR", "logs"), "Directory of auto run log files (env APPVALUES_LOG_DIR)")
	pf.Int("log-retention-days", 7, "Days to keep auto run log files")
	pf.String("metrics-file", "", "Write Prometheus metrics in text format to this file on exit")

	var logOut *logging.Output
	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("APPVALUES_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		levelStr, _ := c.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		outSpec, _ := c.Flags().GetString("log-output")
		logDir, _ := c.Flags().GetString("log-dir")
		logOut, err = logging.OpenOutput(outSpec, logDir)
		if err != nil {
			return err
		}
		if outSpec == "auto" {
			days, _ := c.Flags().GetInt("log-retention-days")
			if err := logging.PruneRunLogs(logDir, days); err != nil {
				return err
			}
		}
		l, err := logging.NewWithWriter(format, level, logOut.Writer())
		if err != nil {
			return err
		}
		l = l.With("runId", uuid.NewString())
		c.SetContext(logging.WithLogger(c.Context(), l))
		return nil
	}
	cmd.PersistentPostRunE = func(c *cobra.Command, _ []string) error {
		path, _ := c.Flags().GetString("metrics-file")
		err := metrics.WriteTextfile(path)
		if logOut != nil {
			if cerr := logOut.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close log output: %w", cerr)
			}
		}
		return err
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdCompile())
	cmd.AddCommand(newCmdUpdateOutputs())
	cmd.AddCommand(newCmdCleanupOutputs())
	cmd.AddCommand(newCmdPresets())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
