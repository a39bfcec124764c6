package main

import (
	"os"

	"github.com/spf13/cobra"

	"mprviewer/pkg/config"
	"mprviewer/pkg/logging"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mprviewer",
	Short: "Multi-planar viewer for DICOM slice series",
	Long: `mprviewer stacks a directory of DICOM slices into a calibrated volume and
renders the axial, coronal and sagittal planes through any voxel with an
adjustable intensity window.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Output.Verbose = true
		}
		logging.Setup(cfg)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mprviewer.yaml", "Configuration file (YAML or TOML)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%v", err)
		logging.Shutdown()
		os.Exit(1)
	}
}
