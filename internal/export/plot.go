// Package export renders saved trajectories to image files.
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/moldyn/internal/experiment"
)

// EnergyPlot writes a PNG of kinetic, potential, and total energy over time.
func EnergyPlot(frames []experiment.Frame, title, path string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (ps)"
	p.Y.Label.Text = "energy (kJ/mol)"

	kinetic := make(plotter.XYs, len(frames))
	potential := make(plotter.XYs, len(frames))
	total := make(plotter.XYs, len(frames))
	for i, f := range frames {
		kinetic[i] = plotter.XY{X: f.Time, Y: f.Kinetic}
		potential[i] = plotter.XY{X: f.Time, Y: f.Potential}
		total[i] = plotter.XY{X: f.Time, Y: f.Kinetic + f.Potential}
	}

	if err := plotutil.AddLines(p,
		"kinetic", kinetic,
		"potential", potential,
		"total", total,
	); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// TemperaturePlot writes a PNG of the instantaneous temperature over time.
func TemperaturePlot(frames []experiment.Frame, title, path string) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (ps)"
	p.Y.Label.Text = "temperature (K)"

	temps := make(plotter.XYs, len(frames))
	for i, f := range frames {
		temps[i] = plotter.XY{X: f.Time, Y: f.Temperature}
	}
	if err := plotutil.AddLines(p, "temperature", temps); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
