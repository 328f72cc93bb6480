// Package reactive wires dashboard controls to the outputs that depend on them
// and keeps per-session control state.
package reactive

import (
	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/KaramelBytes/mused/internal/selection"
)

// Input names.
const (
	InputGenre   = "genre"
	InputRuntime = "runtime"
	InputArtist  = "artist"
)

// Output names.
const (
	OutputText = "output"
	OutputLink = "site"
)

// Placeholders shown before any control changes.
const (
	PlaceholderText = "Select your favorite song from the dropdown menus"
	PlaceholderLink = "Press Me to learn more about the artist! (;>)"
	PlaceholderHref = "www.google.com"
)

// Runtime slider bounds.
const (
	RuntimeMin  = 0.0
	RuntimeMax  = 9.0
	RuntimeStep = 1.5
)

// Controls are the current values of the three inputs.
type Controls struct {
	Genre   string     `json:"genre"`
	Artist  string     `json:"artist"`
	Runtime [2]float64 `json:"runtime"`
}

// DefaultControls returns the values the page starts with. The genre and
// artist defaults never match a row.
func DefaultControls() Controls {
	return Controls{Genre: "Genre", Artist: "Artist", Runtime: [2]float64{3, 7.5}}
}

// Query converts controls into a filter query.
func (c Controls) Query() selection.Query {
	return selection.Query{
		Genre:      c.Genre,
		Artist:     c.Artist,
		MinRuntime: c.Runtime[0],
		MaxRuntime: c.Runtime[1],
	}
}

// Update is a recomputed output. Text is the display value; Href is set for links.
type Update struct {
	Output string `json:"output"`
	Text   string `json:"text"`
	Href   string `json:"href,omitempty"`
}

// Edge binds one output to the inputs it reads.
type Edge struct {
	Output  string
	Inputs  []string
	Compute func(Controls) Update
}

func (e Edge) dependsOn(changed []string) bool {
	if len(changed) == 0 {
		return true
	}
	for _, c := range changed {
		for _, in := range e.Inputs {
			if c == in {
				return true
			}
		}
	}
	return false
}

// Graph holds the dashboard's edges. It is immutable and safe for concurrent use.
type Graph struct {
	edges []Edge
}

// NewGraph builds the output text and artist link edges over t.
func NewGraph(t *dataset.Table) *Graph {
	return &Graph{edges: []Edge{
		{
			Output: OutputText,
			Inputs: []string{InputGenre, InputRuntime, InputArtist},
			Compute: func(c Controls) Update {
				q := c.Query()
				return Update{Output: OutputText, Text: selection.Summary(q, selection.Songs(t, q))}
			},
		},
		{
			Output: OutputLink,
			Inputs: []string{InputArtist},
			Compute: func(c Controls) Update {
				return Update{Output: OutputLink, Text: PlaceholderLink, Href: selection.SearchLink(c.Artist)}
			},
		},
	}}
}

// Edges returns a copy of the graph's edges.
func (g *Graph) Edges() []Edge { return append([]Edge(nil), g.edges...) }

// Recompute evaluates every edge whose inputs intersect changed, or every edge
// when changed is empty, in edge order.
func (g *Graph) Recompute(c Controls, changed ...string) []Update {
	var out []Update
	for _, e := range g.edges {
		if e.dependsOn(changed) {
			out = append(out, e.Compute(c))
		}
	}
	return out
}

// Initial returns the placeholder outputs shown before the first change.
func Initial() []Update {
	return []Update{
		{Output: OutputText, Text: PlaceholderText},
		{Output: OutputLink, Text: PlaceholderLink, Href: PlaceholderHref},
	}
}
