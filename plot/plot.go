// Package plot renders round diagnostics as self-contained HTML charts.
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/thalesfsp/mobo"
)

// RoundCandidates creates a scatter plot of a round's restart candidates and
// the selected next point. For a one-dimensional domain the candidate
// coordinate is plotted against its combined negative acquisition; for higher
// dimensions the first two coordinates are plotted.
func RoundCandidates(report *mobo.RoundReport, nextPoint []float64, title, outputPath string) error {
	if report == nil || len(report.NextPoints) == 0 {
		return fmt.Errorf("report has no candidates to plot")
	}

	dim := len(report.NextPoints[0])

	xName, yName := "x[0]", "x[1]"
	if dim == 1 {
		yName = "combined negative acquisition"
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	coords := func(p []float64, acq float64) []float64 {
		if dim == 1 {
			return []float64{p[0], acq}
		}

		return []float64{p[0], p[1]}
	}

	candidates := make([]opts.ScatterData, len(report.NextPoints))
	for i, p := range report.NextPoints {
		candidates[i] = opts.ScatterData{
			Value:      coords(p, report.Acquisitions[i]),
			Symbol:     "circle",
			SymbolSize: 6,
		}
	}

	var selected []opts.ScatterData
	if len(nextPoint) == dim {
		// The selected point's acquisition equals the best candidate's.
		bestAcq := report.Acquisitions[0]
		for _, a := range report.Acquisitions[1:] {
			if a < bestAcq {
				bestAcq = a
			}
		}

		selected = []opts.ScatterData{{
			Value:      coords(nextPoint, bestAcq),
			Symbol:     "triangle",
			SymbolSize: 12,
		}}
	}

	scatter.AddSeries("Restart candidates", candidates).
		AddSeries("Selected point", selected).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
