// Package web serves the dashboard page, the reactive callback endpoint and a
// small JSON API over a loaded dataset.
package web

import (
	"fmt"
	"html/template"

	"github.com/KaramelBytes/mused/internal/analysis"
	"github.com/KaramelBytes/mused/internal/chart"
	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/KaramelBytes/mused/internal/reactive"
	"github.com/KaramelBytes/mused/internal/render"
)

// State is everything derived from the table at startup. It is never mutated
// after NewState returns.
type State struct {
	Table   *dataset.Table
	Stats   analysis.Stats
	Charts  chart.Set
	SVG     map[string]template.HTML
	Genres  []string
	Artists []string
	Graph   *reactive.Graph
}

// NewState aggregates t, builds and renders the charts.
func NewState(t *dataset.Table) (*State, error) {
	charts := chart.BuildAll(t)
	raw, err := render.All(charts.All())
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	svg := make(map[string]template.HTML, len(raw))
	for name, b := range raw {
		// Output of our own renderer, not user input.
		svg[name] = template.HTML(b)
	}
	return &State{
		Table:   t,
		Stats:   analysis.Summarize(t),
		Charts:  charts,
		SVG:     svg,
		Genres:  t.Genres(),
		Artists: t.Artists(),
		Graph:   reactive.NewGraph(t),
	}, nil
}
