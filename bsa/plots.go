package bsa

import (
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

type plotScenario struct {
	title  string
	ylabel string
	value  func(Variant) float64
	cutoff float64
	hasCut bool
	smooth bool
}

func createFeatureChart(x []int, y []float64, cutoff float64, hasCutoff bool, title, ylabel string, smooth bool) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: ylabel}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Position (bp)"}),
	)

	var yData []opts.LineData
	for _, v := range y {
		yData = append(yData, opts.LineData{Value: v})
	}
	line.SetXAxis(x).AddSeries(title, yData)

	if hasCutoff {
		var cutData []opts.LineData
		for range y {
			cutData = append(cutData, opts.LineData{Value: cutoff})
		}
		line.AddSeries("cutoff", cutData)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: &smooth}))
	return line
}

// PlotCharts renders one HTML page with per-chromosome charts of each
// raw and fitted statistic, with its cutoff overlaid where one exists.
func PlotCharts(variants []Variant, cutoffs CutoffSet, outputHTML string) error {
	facets := ChromFacets(variants)

	scenarios := []plotScenario{
		{"G-statistic", "G-statistic", func(v Variant) float64 { return v.GS }, cutoffs.GS, true, false},
		{"Fitted G-statistic", "Fitted G-statistic", func(v Variant) float64 { return v.GSYhat }, 0, false, true},
		{"Ratio-scaled G-statistic", "Ratio-scaled G-statistic", func(v Variant) float64 { return v.RSG }, cutoffs.RSG, true, false},
		{"Delta SNP ratio", "Ratio", func(v Variant) float64 { return v.Ratio }, 0, false, false},
		{"Fitted delta SNP ratio", "Fitted delta SNP ratio", func(v Variant) float64 { return v.RatioYhat }, 0, false, true},
		{"Fitted ratio-scaled G-statistic", "Fitted ratio-scaled G-statistic", func(v Variant) float64 { return v.RSGYhat }, cutoffs.RSGYhat, true, true},
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)

	for _, chrom := range SortedChroms(facets) {
		facet := facets[chrom]
		x := make([]int, len(facet))
		for i, v := range facet {
			x[i] = v.Pos
		}
		for _, sc := range scenarios {
			y := make([]float64, len(facet))
			for i, v := range facet {
				y[i] = sc.value(v)
			}
			page.AddCharts(createFeatureChart(x, y, sc.cutoff, sc.hasCut, chrom+" "+sc.title, sc.ylabel, sc.smooth))
		}
	}

	f, err := os.Create(outputHTML)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
