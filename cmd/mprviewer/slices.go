package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mprviewer/pkg/visualization"
)

var (
	slicesAxis   string
	slicesLevel  int
	slicesWidth  int
	slicesOutDir string
)

var slicesCmd = &cobra.Command{
	Use:   "slices [dir]",
	Short: "Export every slice along one axis",
	Long:  "Load a directory of DICOM slices and save each windowed plane along the chosen axis as a PNG image.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSlices,
}

func init() {
	rootCmd.AddCommand(slicesCmd)

	slicesCmd.Flags().StringVarP(&slicesAxis, "axis", "a", "z", "Axis to slice along (z/axial, y/coronal, x/sagittal)")
	slicesCmd.Flags().IntVarP(&slicesLevel, "level", "l", 0, "Window level (default: estimated)")
	slicesCmd.Flags().IntVarP(&slicesWidth, "width", "w", 0, "Window width (default: estimated)")
	slicesCmd.Flags().StringVarP(&slicesOutDir, "out", "o", "slices", "Output directory")
}

func runSlices(cmd *cobra.Command, args []string) error {
	axis, err := visualization.ParseAxis(slicesAxis)
	if err != nil {
		return err
	}

	state, err := loadState(cmd, args[0])
	if err != nil {
		return err
	}
	if !state.Loaded() {
		return nil
	}

	w := state.Window()
	if cmd.Flags().Changed("level") {
		w.Level = float64(slicesLevel)
	}
	if cmd.Flags().Changed("width") {
		w.Width = float64(slicesWidth)
	}
	w = w.Normalize()

	vol := state.Volume()
	if err := visualization.SaveSliceSequence(vol, axis, w, slicesOutDir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d %s slices to %s (level %g width %g)\n",
		vol.Extent(axis), axis, slicesOutDir, w.Level, w.Width)
	return nil
}
