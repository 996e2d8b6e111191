package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mlrunner/internal/cli"
	"mlrunner/internal/runtime"
)

var (
	predictInputsFile string
	predictJSON       bool
)

var predictCmd = &cobra.Command{
	Use:   "predict <model> [input-file]",
	Short: "Run a single prediction and print the outputs",
	Args:  cobra.RangeArgs(1, 2),
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

		var pred *runtime.Prediction
		switch {
		case len(args) == 2:
			pred, err = model.PredictFile(ctx, args[1])
		default:
			var inputs map[string]runtime.Value
			inputs, err = readInputs(predictInputsFile)
			if err != nil {
				return err
			}
			pred, err = model.Predict(ctx, inputs)
		}
		if err != nil {
			return err
		}

		if predictJSON {
			data, err := json.MarshalIndent(pred, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to marshal prediction")
			}
			fmt.Println(string(data))
			return nil
		}

		cli.Successf("Predicted in %s", cli.FormatMillis(pred.PredictMs))
		for _, name := range slices.Sorted(maps.Keys(pred.Outputs)) {
			cli.KeyValue(name, cli.Truncate(pred.Outputs[name].String(), 70))
		}
		return nil
	},
}

// readInputs parses a JSON object of named feature values. An empty
// path yields an empty input map; the engine then synthesizes inputs
// matching the model's input descriptions.
func readInputs(path string) (map[string]runtime.Value, error) {
	if path == "" {
		return map[string]runtime.Value{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inputs file")
	}

	var inputs map[string]runtime.Value
	if err = json.Unmarshal(data, &inputs); err != nil {
		return nil, errors.Wrapf(err, "failed to parse inputs file %s", path)
	}
	return inputs, nil
}

func init() {
	RootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&predictInputsFile, "inputs", "", "JSON file with named input values")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the raw prediction as JSON")
}
