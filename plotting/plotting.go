// Package plotting renders the two standard views of an evaluation run:
// an observed-vs-predicted scatter per cover class, and a ternary
// diagram of three-class compositions.
package plotting

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/fieldvision/groundcover/eval"
	"github.com/fieldvision/groundcover/pkg/errors"
)

// ObservedPredicted writes a scatter of observed vs predicted fraction,
// one series per class, with the identity line as reference. Points on
// the line are perfect predictions.
func ObservedPredicted(records []eval.ErrorRecord, path string) error {
	if len(records) == 0 {
		return errors.NewEmptyInputError("plotting.ObservedPredicted")
	}

	p := plot.New()
	p.Title.Text = "Observed vs predicted cover fraction"
	p.X.Label.Text = "observed"
	p.Y.Label.Text = "predicted"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	identity := plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}
	line, err := plotter.NewLine(identity)
	if err != nil {
		return errors.Wrap(err, "failed to build identity line")
	}
	line.LineStyle.Color = plotutil.Color(7)
	p.Add(line)

	byClass := make(map[string]plotter.XYs)
	var classOrder []string
	for _, r := range records {
		if _, seen := byClass[r.Class]; !seen {
			classOrder = append(classOrder, r.Class)
		}
		byClass[r.Class] = append(byClass[r.Class], plotter.XY{X: r.Observed, Y: r.Predicted})
	}

	for i, class := range classOrder {
		scatter, err := plotter.NewScatter(byClass[class])
		if err != nil {
			return errors.Wrapf(err, "failed to build scatter for class %s", class)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add(class, scatter)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}

// Ternary renders a three-class composition diagram. Each sample's
// observed and predicted compositions become points placed by
// barycentric position inside the triangle; when connect is true,
// consecutive samples are joined, which reads as a path when samples
// form a transect.
func Ternary(long []eval.LongRecord, classes [3]string, connect bool, path string) error {
	if len(long) == 0 {
		return errors.NewEmptyInputError("plotting.Ternary")
	}

	observed, err := ternaryPoints(long, classes, eval.Observed)
	if err != nil {
		return err
	}
	predicted, err := ternaryPoints(long, classes, eval.Predicted)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Cover composition"
	p.HideAxes()

	frame, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0.5, Y: math.Sqrt(3) / 2},
		{X: 0, Y: 0},
	})
	if err != nil {
		return errors.Wrap(err, "failed to build triangle frame")
	}
	p.Add(frame)

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: 0, Y: -0.05},
			{X: 1, Y: -0.05},
			{X: 0.5, Y: math.Sqrt(3)/2 + 0.02},
		},
		Labels: classes[:],
	})
	if err != nil {
		return errors.Wrap(err, "failed to build vertex labels")
	}
	p.Add(labels)

	for i, series := range []struct {
		name string
		pts  plotter.XYs
	}{
		{name: string(eval.Observed), pts: observed},
		{name: string(eval.Predicted), pts: predicted},
	} {
		scatter, err := plotter.NewScatter(series.pts)
		if err != nil {
			return errors.Wrapf(err, "failed to build %s scatter", series.name)
		}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add(series.name, scatter)

		if connect {
			line, err := plotter.NewLine(series.pts)
			if err != nil {
				return errors.Wrapf(err, "failed to build %s path", series.name)
			}
			line.LineStyle.Color = plotutil.Color(i)
			line.LineStyle.Width = vg.Points(0.5)
			p.Add(line)
		}
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 5.5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}

// ternaryPoints projects each sample's three fractions of the given
// type to a point in the unit triangle: with vertices A=(0,0), B=(1,0)
// and C=(0.5, sqrt(3)/2), a composition (a, b, c) maps to
// (b + c/2, c*sqrt(3)/2).
func ternaryPoints(long []eval.LongRecord, classes [3]string, typ eval.RecordType) (plotter.XYs, error) {
	type frac struct {
		values map[string]float64
	}
	perSample := make(map[int]*frac)
	var order []int
	for _, r := range long {
		if r.Type != typ {
			continue
		}
		f, ok := perSample[r.SampleID]
		if !ok {
			f = &frac{values: make(map[string]float64, 3)}
			perSample[r.SampleID] = f
			order = append(order, r.SampleID)
		}
		f.values[r.Class] = r.Fraction
	}

	pts := make(plotter.XYs, 0, len(order))
	for _, id := range order {
		f := perSample[id]
		for _, class := range classes {
			if _, ok := f.values[class]; !ok {
				return nil, errors.NewValidationError("plotting.Ternary",
					"sample is missing class "+class, id)
			}
		}
		b := f.values[classes[1]]
		c := f.values[classes[2]]
		pts = append(pts, plotter.XY{X: b + c/2, Y: c * math.Sqrt(3) / 2})
	}
	return pts, nil
}
