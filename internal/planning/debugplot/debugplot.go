// Package debugplot renders one decider cycle in the SL plane: the path, the
// ignore and stop corridors around it, each obstacle footprint coloured by
// its outcome, and the stop points that were issued.
package debugplot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
)

const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// outcomeOrder fixes legend order and palette slots.
var outcomeOrder = []pathdecider.Outcome{
	pathdecider.OutcomeIgnore,
	pathdecider.OutcomeStop,
	pathdecider.OutcomeNudgeLeft,
	pathdecider.OutcomeNudgeRight,
	pathdecider.OutcomeUndecided,
	pathdecider.OutcomeOutOfRange,
	pathdecider.OutcomeSkippedDynamic,
	pathdecider.OutcomeSkippedIgnored,
	pathdecider.OutcomeSkippedStopped,
	pathdecider.OutcomeSkippedKeepClear,
}

// Cycle is everything needed to draw one pass.
type Cycle struct {
	Path     *frenet.FrenetFramePath
	Decision *pathdecision.PathDecision
	Report   pathdecider.Report
}

// Render builds the plot for c.
func Render(c Cycle) (*plot.Plot, error) {
	if c.Path.Empty() {
		return nil, fmt.Errorf("cannot plot an empty path")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Path decisions: %d obstacles", len(c.Report.Obstacles))
	p.X.Label.Text = "s (m)"
	p.Y.Label.Text = "l (m)"

	pts := c.Path.Points()
	center := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		center[i] = plotter.XY{X: pt.S, Y: pt.L}
	}
	pathLine, err := plotter.NewLine(center)
	if err != nil {
		return nil, err
	}
	pathLine.Width = vg.Points(2)
	p.Add(pathLine)
	p.Legend.Add("path", pathLine)

	if err := addCorridor(p, pts, c.Report.Zones.Radius, "ignore radius", color.Gray{Y: 160}); err != nil {
		return nil, err
	}
	if err := addCorridor(p, pts, c.Report.Zones.StopRadius, "stop radius", color.RGBA{R: 200, A: 255}); err != nil {
		return nil, err
	}

	colors := generateColors(len(outcomeOrder))
	outcomeColor := make(map[pathdecider.Outcome]color.Color, len(outcomeOrder))
	for i, o := range outcomeOrder {
		outcomeColor[o] = colors[i]
	}

	var stops plotter.XYs
	seen := make(map[pathdecider.Outcome]bool)
	for _, or := range c.Report.Obstacles {
		if c.Decision == nil {
			break
		}
		po, ok := c.Decision.Find(or.ID)
		if !ok {
			continue
		}
		sl := po.PerceptionSLBoundary()
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: sl.StartS, Y: sl.StartL},
			{X: sl.EndS, Y: sl.StartL},
			{X: sl.EndS, Y: sl.EndL},
			{X: sl.StartS, Y: sl.EndL},
		})
		if err != nil {
			return nil, fmt.Errorf("obstacle %s: %w", or.ID, err)
		}
		poly.Color = outcomeColor[or.Outcome]
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
		if !seen[or.Outcome] {
			seen[or.Outcome] = true
			p.Legend.Add(or.Outcome.String(), poly)
		}

		if stop, ok := po.LongitudinalDecision().(decision.Stop); ok {
			at := c.Path.EvaluateByS(sl.StartS)
			stops = append(stops, plotter.XY{X: sl.StartS + stop.DistanceS, Y: at.L})
		}
	}

	if len(stops) > 0 {
		sc, err := plotter.NewScatter(stops)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Color = color.Black
		p.Add(sc)
		p.Legend.Add("stop point", sc)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// addCorridor draws the path offset by ±r as two dashed lines.
func addCorridor(p *plot.Plot, pts []frenet.FrenetFramePoint, r float64, label string, c color.Color) error {
	upper := make(plotter.XYs, len(pts))
	lower := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		upper[i] = plotter.XY{X: pt.S, Y: pt.L + r}
		lower[i] = plotter.XY{X: pt.S, Y: pt.L - r}
	}
	for i, xys := range []plotter.XYs{upper, lower} {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		line.Color = c
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(line)
		if i == 0 {
			p.Legend.Add(label, line)
		}
	}
	return nil
}

// WritePNG renders c as a PNG image to w.
func WritePNG(w io.Writer, c Cycle) error {
	p, err := Render(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders c to path, creating parent directories as needed.
func SavePNG(path string, c Cycle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	p, err := Render(c)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save cycle plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of n distinct colours.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
