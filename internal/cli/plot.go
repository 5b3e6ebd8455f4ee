package cli

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	apperrors "github.com/agbru/eigencalc/internal/errors"
)

// HistorySeries names one estimate history for plotting.
type HistorySeries struct {
	// Name is the legend label, normally the algorithm name.
	Name string
	// History is the sequence of eigenvalue estimates, one per iteration.
	History []float64
}

// SaveConvergencePlot renders the estimate histories as a line plot of β_k
// against the iteration index k and saves it as a PNG file.
//
// Parameters:
//   - series: The histories to plot, in display order.
//   - path: The destination PNG path.
//
// Returns:
//   - error: An error if the plot could not be assembled or saved.
func SaveConvergencePlot(series []HistorySeries, path string) error {
	p := plot.New()
	p.Title.Text = "Eigenvalue estimate convergence"
	p.X.Label.Text = "iteration k"
	p.Y.Label.Text = "estimate β_k"
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		pts := make(plotter.XYs, len(s.History))
		for k, estimate := range s.History {
			pts[k].X = float64(k + 1)
			pts[k].Y = estimate
		}
		args = append(args, s.Name, pts)
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return apperrors.WrapError(err, "assembling convergence plot")
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return apperrors.WrapError(err, "saving convergence plot to %s", path)
	}
	return nil
}
