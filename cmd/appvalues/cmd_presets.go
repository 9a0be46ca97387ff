package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/apolo-us/appvalues/domain/model"
	"github.com/apolo-us/appvalues/usecase/preset"
)

func newCmdPresets() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		Aliases: []string{"preset"},
		Short:   "Inspect and import the preset catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCmdPresetsList())
	cmd.AddCommand(newCmdPresetsImport())
	return cmd
}

func accelerators(p *model.Preset) string {
	s := ""
	for _, a := range p.Accelerators {
		if s != "" {
			s += ","
		}
		s += fmt.Sprintf("%s:%d", a.Vendor, a.Count)
		if a.Memory > 0 {
			s += "x" + resource.NewQuantity(a.Memory, resource.BinarySI).String()
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

func newCmdPresetsList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			u, err := buildPresetUseCase(cmd, cfg)
			if err != nil {
				return err
			}
			list, err := u.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCPU\tMEMORY\tACCELERATORS\tPOOLS")
			for _, p := range list {
				fmt.Fprintf(w, "%s\t%g\t%s\t%s\t%v\n", p.Name, p.CPU, resource.NewQuantity(p.Memory, resource.BinarySI), accelerators(p), p.ResourcePools)
			}
			return w.Flush()
		},
	}
}

func newCmdPresetsImport() *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the presets of the configuration file into --preset-db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if flagString(cmd, "preset-db") == "" {
				return fmt.Errorf("--preset-db is required")
			}
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "presets.import", flagString(cmd, "preset-db"))
			defer func() { cleanup(err) }()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			presets, err := cfg.ToPresets()
			if err != nil {
				return err
			}
			u, err := buildPresetUseCase(cmd, cfg)
			if err != nil {
				return err
			}
			out, err := u.Import(ctx, &preset.ImportInput{Presets: presets, Prune: prune})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d presets, pruned %d\n", len(out.Upserted), len(out.Pruned))
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete presets that are not in the configuration file")
	return cmd
}
