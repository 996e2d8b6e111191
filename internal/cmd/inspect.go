package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mlrunner/internal/cli"
	"mlrunner/internal/runtime"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <model>",
	Short: "Load a model and print its metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := newRuntimeClient()

		model, err := client.Load(ctx, args[0], cfg.Runtime.Units)
		if err != nil {
			return err
		}
		defer func() {
			if err := model.Close(ctx); err != nil {
				cli.Warnf("Failed to unload model: %v", err)
			}
		}()

		meta := model.Metadata()

		cli.ModelHeader(meta.Name)
		cli.KeyValue("Format", orDash(meta.Format))
		cli.KeyValue("Version", orDash(meta.Version))
		cli.KeyValue("Author", orDash(meta.Author))
		cli.KeyValue("Compute units", string(meta.ComputeUnits))

		printFeatures("Inputs", meta.Inputs)
		printFeatures("Outputs", meta.Outputs)
		return nil
	},
}

func printFeatures(title string, features []runtime.FeatureDesc) {
	cli.Blank()
	cli.Linef("%s", title)
	if len(features) == 0 {
		cli.Linef("  (none)")
		return
	}
	for _, f := range features {
		fmt.Printf("%s  %-20s  %-10s  %s\n", cli.Indent, f.Name, f.Type, cli.FormatShape(f.Shape))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
