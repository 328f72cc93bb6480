// Package chart builds renderer-independent chart configurations from the
// track table. Builders are pure: the same table always yields the same Config.
package chart

import "fmt"

// Kind selects how a Config is drawn.
type Kind string

const (
	KindBar     Kind = "bar"
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
)

// Chart names used by the page and the JSON API.
const (
	NameHistogram = "histogram"
	NamePie       = "pie"
	NameScatter   = "scatter"
)

// Point is one mark. Bars and slices use Label and Y; scatter uses X and Y.
type Point struct {
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color,omitempty"`
}

// Series groups points drawn with one color.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Layout carries presentation options.
type Layout struct {
	Width               int    `json:"width,omitempty"`
	Height              int    `json:"height,omitempty"`
	PaperBG             string `json:"paper_bg"`
	PlotBG              string `json:"plot_bg"`
	FontColor           string `json:"font_color"`
	ShowLegend          bool   `json:"show_legend"`
	LegendTitle         string `json:"legend_title,omitempty"`
	ShowGrid            bool   `json:"show_grid"`
	ShowTickLabels      bool   `json:"show_tick_labels"`
	ReverseCategoryAxis bool   `json:"reverse_category_axis"`
	BorderWidth         int    `json:"border_width"`
	MarkerSize          int    `json:"marker_size,omitempty"`
	XTitle              string `json:"x_title,omitempty"`
	YTitle              string `json:"y_title,omitempty"`
}

// Config fully describes one chart.
type Config struct {
	Name   string   `json:"name"`
	Kind   Kind     `json:"kind"`
	Title  string   `json:"title"`
	Series []Series `json:"series"`
	Layout Layout   `json:"layout"`
}

// Empty reports whether the chart has nothing to draw.
func (c Config) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// Set holds the three dashboard charts.
type Set struct {
	Histogram Config
	Pie       Config
	Scatter   Config
}

// All returns the charts in page order.
func (s Set) All() []Config {
	return []Config{s.Pie, s.Scatter, s.Histogram}
}

// Get looks a chart up by name.
func (s Set) Get(name string) (Config, error) {
	switch name {
	case NameHistogram:
		return s.Histogram, nil
	case NamePie:
		return s.Pie, nil
	case NameScatter:
		return s.Scatter, nil
	}
	return Config{}, fmt.Errorf("unknown chart %q", name)
}
