package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mprviewer/pkg/logging"
	"mprviewer/pkg/reconstruction"
	"mprviewer/pkg/viewer"
)

var infoCmd = &cobra.Command{
	Use:   "info [dir]",
	Short: "Display information about a DICOM series",
	Long:  "Load a directory of DICOM slices and show the volume shape, spacing and estimated display window.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	state, err := loadState(cmd, args[0])
	if err != nil {
		return err
	}
	if !state.Loaded() {
		return nil
	}

	vol := state.Volume()
	spacing := state.Spacing()
	auto := state.AutoWindow()
	w := state.Window()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "DICOM Series Information")
	fmt.Fprintln(out, "========================")
	fmt.Fprintf(out, "Directory: %s\n", args[0])
	fmt.Fprintf(out, "%s\n\n", state.Info())

	fmt.Fprintln(out, "Volume:")
	fmt.Fprintf(out, "  Depth x Height x Width: %d x %d x %d\n", vol.Depth, vol.Height, vol.Width)
	fmt.Fprintf(out, "  Voxel size: %g x %g x %g mm\n", vol.VoxelSize.Z, vol.VoxelSize.Y, vol.VoxelSize.X)
	fmt.Fprintf(out, "  Voxels: %s\n\n", humanize.Comma(int64(len(vol.Data))))

	fmt.Fprintln(out, "Aspect ratios:")
	fmt.Fprintf(out, "  Axial: %g\n", spacing.Axial)
	fmt.Fprintf(out, "  Coronal: %g\n", spacing.Coronal)
	fmt.Fprintf(out, "  Sagittal: %g\n\n", spacing.Sagittal)

	fmt.Fprintln(out, "Window:")
	fmt.Fprintf(out, "  Estimated: level %.1f width %.1f\n", auto.Level, auto.Width)
	fmt.Fprintf(out, "  Initial: level %g width %g\n", w.Level, w.Width)
	return nil
}

// loadState loads dir into a new viewer. A directory without recognized files
// is reported and leaves the viewer empty.
func loadState(cmd *cobra.Command, dir string) (*viewer.State, error) {
	state := viewer.NewState(cfg, nil)
	if err := state.Load(dir); err != nil {
		if reconstruction.IsEmptyInput(err) {
			logging.Warningf("%v", err)
			fmt.Fprintf(cmd.OutOrStdout(), "No slices found in %s\n", dir)
			return state, nil
		}
		return nil, err
	}
	return state, nil
}
