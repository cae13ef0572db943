package report

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WritePredictionPlot saves a predicted-vs-actual scatter with the
// identity line. The image format follows the file extension.
func WritePredictionPlot(path string, predictions, actuals []float64) error {
	if len(predictions) != len(actuals) {
		return errors.Errorf("plot: %d predictions, %d actuals", len(predictions), len(actuals))
	}
	if len(predictions) == 0 {
		return errors.New("plot: no points")
	}

	p := plot.New()
	p.Title.Text = "Decision tree: predicted vs actual unit sales"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(predictions))
	for i := range predictions {
		pts[i].X = actuals[i]
		pts[i].Y = predictions[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "plot scatter")
	}
	s.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(1.5)
	p.Add(s)

	// identity line over the shared range
	hi := floats.Max(predictions)
	if m := floats.Max(actuals); m > hi {
		hi = m
	}
	lo := floats.Min(predictions)
	if m := floats.Min(actuals); m < lo {
		lo = m
	}
	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.Wrap(err, "plot identity line")
	}
	l.Color = color.RGBA{R: 255, A: 255}
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
