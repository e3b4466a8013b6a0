package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Davydov/heredity/infer"
)

const (
	barWidth   = 8 * vg.Millimeter
	plotHeight = 4 * vg.Inch
	minWidth   = 4 * vg.Inch
)

// Plot saves a bar chart of copy number posteriors. The format is
// determined by the file extension (png, svg, pdf, ...).
func Plot(res *infer.Result, fn string) error {
	p := plot.New()
	p.Title.Text = "Gene copy number posterior"
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0
	p.Y.Max = 1
	p.Legend.Top = true

	n := len(res.Names)
	for c := 0; c < 3; c++ {
		values := make(plotter.Values, n)
		for id := range res.Names {
			values[id] = res.Marginals[id].Gene[c]
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(c)
		bars.Offset = vg.Length(c-1) * barWidth
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("%d copies", c), bars)
	}
	p.NominalX(res.Names...)

	width := vg.Length(n) * 4 * barWidth
	if width < minWidth {
		width = minWidth
	}
	return p.Save(width, plotHeight, fn)
}
