package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mprviewer/pkg/render"
	"mprviewer/pkg/viewer"
)

var (
	renderAxial    int
	renderCoronal  int
	renderSagittal int
	renderLevel    int
	renderWidth    int
	renderOut      string
)

var renderCmd = &cobra.Command{
	Use:   "render [dir]",
	Short: "Render the three orthogonal planes of a DICOM series",
	Long: `Load a directory of DICOM slices, apply the given slice indices and window,
and write the axial, coronal and sagittal panels with their crosshairs.
Unset values keep the viewer defaults: centre slices and the estimated window.
Out-of-range values are clamped.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&renderAxial, "axial", 0, "Axial slice index")
	renderCmd.Flags().IntVar(&renderCoronal, "coronal", 0, "Coronal slice index")
	renderCmd.Flags().IntVar(&renderSagittal, "sagittal", 0, "Sagittal slice index")
	renderCmd.Flags().IntVarP(&renderLevel, "level", "l", 0, "Window level")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "Window width")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "mpr", "Output directory")
}

func runRender(cmd *cobra.Command, args []string) error {
	renderer, err := render.NewPlotRenderer(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	state, err := loadState(cmd, args[0])
	if err != nil {
		return err
	}
	if !state.Loaded() {
		return nil
	}

	if err := applyControls(cmd, state); err != nil {
		return err
	}

	frame, err := state.Render()
	if err != nil {
		return err
	}
	paths, err := renderer.SaveFrame(frame, renderOut)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, frame.Info)
	fmt.Fprintf(out, "Slices: axial %d, coronal %d, sagittal %d\n", frame.Indices.Z, frame.Indices.Y, frame.Indices.X)
	fmt.Fprintf(out, "Window: level %g width %g\n", frame.Window.Level, frame.Window.Width)
	for _, path := range paths {
		fmt.Fprintf(out, "Saved %s\n", path)
	}
	fmt.Fprintf(out, "Completed in %.2f seconds\n", time.Since(start).Seconds())
	return nil
}

// applyControls forwards the flags the user set to the viewer controls
func applyControls(cmd *cobra.Command, state *viewer.State) error {
	controls := []struct {
		flag, control string
		value         int
	}{
		{"axial", viewer.ControlAxial, renderAxial},
		{"coronal", viewer.ControlCoronal, renderCoronal},
		{"sagittal", viewer.ControlSagittal, renderSagittal},
		{"level", viewer.ControlWindowLevel, renderLevel},
		{"width", viewer.ControlWindowWidth, renderWidth},
	}
	for _, c := range controls {
		if !cmd.Flags().Changed(c.flag) {
			continue
		}
		if err := state.SetControl(c.control, c.value); err != nil {
			return err
		}
	}
	return nil
}
