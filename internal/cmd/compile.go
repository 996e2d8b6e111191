package cmd

import (
	"github.com/spf13/cobra"

	"mlrunner/internal/cli"
)

var compileCmd = &cobra.Command{
	Use:   "compile <model>",
	Short: "Compile a model for on-device execution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newRuntimeClient()

		cli.Infof("Compiling %s...", cli.TruncatePath(args[0], 60))
		result, err := client.Compile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		cli.Successf("Compiled in %s", cli.FormatMillis(result.CompileMs))
		cli.KeyValue("Output", result.CompiledPath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(compileCmd)
}
