package chart

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const dataURIPrefix = "data:image/png;base64,"

var ErrLengthMismatch = errors.New("labels and values differ in length")

var (
	colorCorrect   = drawing.ColorFromHex("4caf50")
	colorIncorrect = drawing.ColorFromHex("f44336")
	colorAccuracy  = drawing.ColorFromHex("2196f3")
)

// Renderer draws PNG charts and returns them as data URIs.
// Methods return an empty string when there is nothing to draw.
type Renderer struct {
	Width  int
	Height int
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 640, Height: 400}
}

// AnswersPie shows correct against incorrect answers.
func (r *Renderer) AnswersPie(correct, incorrect int) (string, error) {
	if correct < 0 || incorrect < 0 || correct+incorrect == 0 {
		return "", nil
	}

	var values []gochart.Value
	if correct > 0 {
		values = append(values, gochart.Value{
			Value: float64(correct),
			Label: fmt.Sprintf("Correct (%d)", correct),
			Style: gochart.Style{FillColor: colorCorrect},
		})
	}
	if incorrect > 0 {
		values = append(values, gochart.Value{
			Value: float64(incorrect),
			Label: fmt.Sprintf("Incorrect (%d)", incorrect),
			Style: gochart.Style{FillColor: colorIncorrect},
		})
	}

	pie := gochart.PieChart{
		Width:  r.Height,
		Height: r.Height,
		Values: values,
	}

	return render(pie.Render)
}

// AccuracyBars draws one bar per label with accuracy on a 0-100 axis.
func (r *Renderer) AccuracyBars(labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", ErrLengthMismatch
	}
	if len(values) == 0 {
		return "", nil
	}

	bars := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		bars = append(bars, gochart.Value{
			Value: clampPercent(v),
			Label: labels[i],
			Style: gochart.Style{FillColor: colorAccuracy, StrokeColor: colorAccuracy},
		})
	}

	bar := gochart.BarChart{
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth(r.Width, len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Bottom: 20}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	return render(bar.Render)
}

// AccuracyTrend draws accuracy over consecutive attempts, in the given order.
func (r *Renderer) AccuracyTrend(labels []string, values []float64) (string, error) {
	if len(labels) != len(values) {
		return "", ErrLengthMismatch
	}
	if len(values) == 0 {
		return "", nil
	}

	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	ticks := make([]gochart.Tick, len(values))
	for i, v := range values {
		xs[i] = float64(i + 1)
		ys[i] = clampPercent(v)
		ticks[i] = gochart.Tick{Value: xs[i], Label: labels[i]}
	}

	graph := gochart.Chart{
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(len(values) + 1)},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Accuracy",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: colorAccuracy,
					StrokeWidth: 2,
					DotColor:    colorAccuracy,
					DotWidth:    4,
				},
			},
		},
	}

	return render(graph.Render)
}

func render(draw func(rp gochart.RendererProvider, w io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := draw(gochart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}

func barWidth(width, bars int) int {
	w := width / (bars*2 + 1)
	return max(8, min(60, w))
}
