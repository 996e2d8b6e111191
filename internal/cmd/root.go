// Package cmd wires the mlrunner subcommands.
package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mlrunner/internal/config"
	"mlrunner/internal/runtime"
)

var (
	cfgFile string
	cfg     *config.Config
)

// RootCmd represents the base command when called without subcommands.
var RootCmd = &cobra.Command{
	Use:   "mlrunner",
	Short: "Compile, inspect and benchmark models on the local inference engine",
	Long: `mlrunner talks to the local inference engine daemon to compile
models, inspect their metadata, run single predictions and measure
inference latency for single models and batches of input files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// help and completion work without a valid config
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return loadConfig()
	},
}

// Execute runs the root command under a signal-aware context.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initEnv)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default mlrunner.yaml)")
	RootCmd.PersistentFlags().String("runtime-url", "", "engine daemon base URL")
	RootCmd.PersistentFlags().String("timeout", "", "engine request timeout (e.g. 30s)")
	RootCmd.PersistentFlags().String("compute-units", "", "compute units: all, cpu or cpu_gpu")

	_ = viper.BindPFlags(RootCmd.PersistentFlags())
}

func initEnv() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("MLRUNNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func loadConfig() error {
	file := cfgFile
	if file == "" {
		file = config.DefaultConfigFile
	}

	loaded, err := config.Load(file)
	if err != nil {
		return err
	}

	if url := viper.GetString("runtime-url"); url != "" {
		loaded.Runtime.URL = url
	}
	if timeout := viper.GetString("timeout"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return err
		}
		loaded.Runtime.Timeout = timeout
		loaded.Runtime.TimeoutDuration = d
	}
	if units := viper.GetString("compute-units"); units != "" {
		cu, err := runtime.ParseComputeUnits(units)
		if err != nil {
			return err
		}
		loaded.Runtime.ComputeUnits = units
		loaded.Runtime.Units = cu
	}

	cfg = loaded
	return nil
}

func newRuntimeClient() *runtime.Client {
	return runtime.NewClient(cfg.Runtime.URL, cfg.Runtime.TimeoutDuration)
}
