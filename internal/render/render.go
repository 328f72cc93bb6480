// Package render draws chart configurations as SVG using go-chart.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"
	"sync"

	"github.com/KaramelBytes/mused/internal/chart"
	"github.com/sourcegraph/conc/pool"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 800
	defaultHeight = 500
	barSlot       = 14
	barSpacing    = 2
)

// SVG renders one chart. Charts with nothing to draw render a titled placeholder.
func SVG(cfg chart.Config) ([]byte, error) {
	if cfg.Empty() || (cfg.Kind == chart.KindPie && total(cfg) <= 0) {
		return placeholder(cfg), nil
	}
	var buf bytes.Buffer
	var err error
	switch cfg.Kind {
	case chart.KindBar:
		bc := barChart(cfg)
		err = bc.Render(gochart.SVG, &buf)
	case chart.KindPie:
		pc := pieChart(cfg)
		err = pc.Render(gochart.SVG, &buf)
	case chart.KindScatter:
		sc := scatterChart(cfg)
		err = sc.Render(gochart.SVG, &buf)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", cfg.Name, err)
	}
	return buf.Bytes(), nil
}

// All renders every chart in parallel, keyed by chart name.
func All(cfgs []chart.Config) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(cfgs))
	p := pool.New().WithErrors()
	for _, cfg := range cfgs {
		cfg := cfg
		p.Go(func() error {
			b, err := SVG(cfg)
			if err != nil {
				return err
			}
			mu.Lock()
			out[cfg.Name] = b
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func color(hex string) drawing.Color {
	if hex == "" {
		return drawing.Color{}
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func size(l chart.Layout, w, h int) (int, int) {
	if l.Width > 0 {
		w = l.Width
	}
	if l.Height > 0 {
		h = l.Height
	}
	return w, h
}

func points(cfg chart.Config) []chart.Point {
	var pts []chart.Point
	for _, s := range cfg.Series {
		pts = append(pts, s.Points...)
	}
	return pts
}

func total(cfg chart.Config) float64 {
	var sum float64
	for _, p := range points(cfg) {
		sum += p.Y
	}
	return sum
}

func barChart(cfg chart.Config) gochart.BarChart {
	l := cfg.Layout
	font := color(l.FontColor)
	pts := points(cfg)
	bars := make([]gochart.Value, 0, len(pts))
	maxY := 0.0
	for _, p := range pts {
		c := color(p.Color)
		bars = append(bars, gochart.Value{
			Label: p.Label,
			Value: p.Y,
			Style: gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
		maxY = math.Max(maxY, p.Y)
	}
	// Bars run left to right; a reversed category axis keeps first-seen order first.
	if !l.ReverseCategoryAxis {
		for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
			bars[i], bars[j] = bars[j], bars[i]
		}
	}
	if maxY <= 0 {
		maxY = 1
	}
	w, h := size(l, defaultWidth, defaultHeight)
	if need := len(bars)*barSlot + 120; l.Width == 0 && need > w {
		w = need
	}
	return gochart.BarChart{
		Title:      cfg.Title,
		TitleStyle: gochart.Style{FontColor: font},
		Width:      w,
		Height:     h,
		BarWidth:   barSlot - barSpacing,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			FillColor: color(l.PaperBG),
			Padding:   gochart.Box{Top: 40, Left: 20, Right: 40, Bottom: 40},
		},
		Canvas: gochart.Style{FillColor: color(l.PlotBG)},
		XAxis:  gochart.Style{Hidden: !l.ShowTickLabels, FontColor: font},
		YAxis: gochart.YAxis{
			Name:  l.YTitle,
			Style: gochart.Style{FontColor: font},
			Range: &gochart.ContinuousRange{Min: 0, Max: maxY},
		},
		Bars: bars,
	}
}

func pieChart(cfg chart.Config) gochart.PieChart {
	l := cfg.Layout
	pts := points(cfg)
	values := make([]gochart.Value, 0, len(pts))
	for _, p := range pts {
		st := gochart.Style{FillColor: color(p.Color), FontColor: color(l.FontColor)}
		if l.BorderWidth > 0 {
			st.StrokeColor = color(l.PaperBG)
			st.StrokeWidth = float64(l.BorderWidth)
		} else {
			st.StrokeColor = drawing.ColorTransparent
			st.StrokeWidth = gochart.Disabled
		}
		values = append(values, gochart.Value{Label: p.Label, Value: p.Y, Style: st})
	}
	w, h := size(l, 600, defaultHeight)
	pad := gochart.Box{Top: 40, Left: 40, Right: 20, Bottom: 20}
	if l.ShowLegend && l.Width == 0 {
		w += legendWidth
	}
	if l.ShowLegend {
		pad.Right += legendWidth
	}
	pc := gochart.PieChart{
		Title:      cfg.Title,
		TitleStyle: gochart.Style{FontColor: color(l.FontColor)},
		Width:      w,
		Height:     h,
		Background: gochart.Style{
			FillColor: color(l.PaperBG),
			Padding:   pad,
		},
		Canvas: gochart.Style{FillColor: color(l.PaperBG)},
		Values: values,
	}
	if l.ShowLegend {
		pc.Elements = []gochart.Renderable{pieLegend(l.LegendTitle, values, color(l.FontColor))}
	}
	return pc
}

const (
	legendWidth  = 180
	legendGap    = 16
	legendSwatch = 10
	legendLine   = 16
)

// pieLegend draws a titled column of swatches to the right of the pie.
// gochart.Legend only knows about line series on a *Chart.
func pieLegend(title string, values []gochart.Value, font drawing.Color) gochart.Renderable {
	return func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
		text := gochart.Style{FontColor: font, FontSize: 10}.InheritFrom(defaults)
		x := cb.Right + legendGap
		y := cb.Top + legendLine
		if title != "" {
			gochart.Draw.Text(r, title, x, y, gochart.Style{FontSize: 11}.InheritFrom(text))
			y += legendLine + 4
		}
		for _, v := range values {
			swatch := gochart.Box{Top: y - legendSwatch, Left: x, Right: x + legendSwatch, Bottom: y}
			gochart.Draw.Box(r, swatch, gochart.Style{FillColor: v.Style.FillColor, StrokeColor: v.Style.FillColor, StrokeWidth: 1})
			gochart.Draw.Text(r, v.Label, x+legendSwatch+6, y, text)
			y += legendLine
		}
	}
}

func scatterChart(cfg chart.Config) gochart.Chart {
	l := cfg.Layout
	font := color(l.FontColor)
	dot := float64(l.MarkerSize) / 2
	if dot <= 0 {
		dot = 3
	}
	xr, yr := bounds(points(cfg))
	series := make([]gochart.Series, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				StrokeColor: drawing.ColorTransparent,
				DotWidth:    dot,
				DotColor:    color(s.Color),
			},
		})
	}
	grid := gochart.Style{Hidden: true}
	if l.ShowGrid {
		grid = gochart.Style{StrokeColor: drawing.ColorWhite, StrokeWidth: 1}
	}
	w, h := size(l, defaultWidth, defaultHeight)
	c := gochart.Chart{
		Title:      cfg.Title,
		TitleStyle: gochart.Style{FontColor: font},
		Width:      w,
		Height:     h,
		Background: gochart.Style{
			FillColor: color(l.PaperBG),
			Padding:   gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 30},
		},
		Canvas: gochart.Style{FillColor: color(l.PlotBG)},
		XAxis: gochart.XAxis{
			Name:           l.XTitle,
			Style:          gochart.Style{Hidden: !l.ShowTickLabels, FontColor: font},
			Range:          xr,
			GridMajorStyle: grid,
		},
		YAxis: gochart.YAxis{
			Name:           l.YTitle,
			Style:          gochart.Style{Hidden: !l.ShowTickLabels, FontColor: font},
			Range:          yr,
			GridMajorStyle: grid,
		},
		Series: series,
	}
	if l.ShowLegend {
		c.Elements = []gochart.Renderable{gochart.Legend(&c)}
	}
	return c
}

// bounds returns padded axis ranges; a zero-width range is widened so the
// renderer always has a non-zero domain.
func bounds(pts []chart.Point) (*gochart.ContinuousRange, *gochart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return padded(minX, maxX), padded(minY, maxY)
}

func padded(lo, hi float64) *gochart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func placeholder(cfg chart.Config) []byte {
	w, h := size(cfg.Layout, defaultWidth, 300)
	bg := cfg.Layout.PaperBG
	if bg == "" {
		bg = "#ffffff"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, html.EscapeString(bg))
	fmt.Fprintf(&b, `<text x="20" y="30" font-family="sans-serif" font-size="14">%s</text>`, html.EscapeString(cfg.Title))
	b.WriteString(`<text x="50%" y="50%" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#64748b">No data</text>`)
	b.WriteString(`</svg>`)
	return []byte(b.String())
}
