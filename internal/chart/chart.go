// Package chart renders bar and line series as inline SVG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNoData is returned when a series has no points to draw.
var ErrNoData = errors.New("no data points")

// Kind is the chart type for a series.
type Kind int

const (
	// Bar draws one bar per labelled point.
	Bar Kind = iota
	// Line connects points ordered by X.
	Line
)

// Point is one chart value. Bars use Label, lines use X.
type Point struct {
	Label string  `json:"label" yaml:"label"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

// Series is a chart-ready sequence of points.
type Series struct {
	Kind   Kind    `json:"-" yaml:"-"`
	Title  string  `json:"title" yaml:"title"`
	XName  string  `json:"xName" yaml:"x_name"`
	YName  string  `json:"yName" yaml:"y_name"`
	Points []Point `json:"points" yaml:"points"`
}

// Empty reports whether there is nothing to draw.
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

const (
	defaultWidth  = 720
	defaultHeight = 320
	barWidth      = 48
	barSpacing    = 24
)

// SVG renders the series and returns the SVG document.
func SVG(s Series) ([]byte, error) {
	if s.Empty() {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	var err error
	switch s.Kind {
	case Line:
		err = lineChart(s).Render(gochart.SVG, &buf)
	default:
		err = barChart(s).Render(gochart.SVG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", s.Title, err)
	}
	return buf.Bytes(), nil
}

func barChart(s Series) gochart.BarChart {
	bars := make([]gochart.Value, len(s.Points))
	for i, p := range s.Points {
		bars[i] = gochart.Value{Label: p.Label, Value: p.Y}
	}

	width := max(defaultWidth, len(bars)*(barWidth+barSpacing)+120)

	return gochart.BarChart{
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		YAxis: gochart.YAxis{
			Name:           s.YName,
			Range:          &gochart.ContinuousRange{Min: 0, Max: headroom(maxY(s.Points))},
			ValueFormatter: wholeNumber,
		},
		Bars: bars,
	}
}

func lineChart(s Series) gochart.Chart {
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	ticks := make([]gochart.Tick, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p.X, p.Y
		ticks[i] = gochart.Tick{Value: p.X, Label: strconv.FormatFloat(p.X, 'f', -1, 64)}
	}

	xMin, xMax := xs[0], xs[len(xs)-1]
	if len(xs) == 1 {
		// Ticks set the x-range, so a lone point needs unlabeled bound ticks
		// on either side as well as a segment of nonzero width.
		x, y := xs[0], ys[0]
		xs = []float64{x - 0.5, x + 0.5}
		ys = []float64{y, y}
		ticks = []gochart.Tick{{Value: x - 0.5}, ticks[0], {Value: x + 0.5}}
		xMin, xMax = x-0.5, x+0.5
	}

	series := gochart.ContinuousSeries{
		Name:    s.YName,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeWidth: 2,
			DotWidth:    3,
		},
	}

	return gochart.Chart{
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  s.XName,
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:           s.YName,
			Range:          &gochart.ContinuousRange{Min: 0, Max: headroom(maxY(s.Points))},
			ValueFormatter: wholeNumber,
		},
		Series: []gochart.Series{series},
	}
}

func maxY(points []Point) float64 {
	m := 0.0
	for _, p := range points {
		m = math.Max(m, p.Y)
	}
	return m
}

// headroom leaves a tenth of the range above the tallest value.
func headroom(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v * 1.1)
}

func wholeNumber(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return fmt.Sprintf("%v", v)
}
