package chart

import (
	"github.com/KaramelBytes/mused/internal/analysis"
	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/sourcegraph/conc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Background is the paper and plot color of every chart.
	Background = "#e2e8f0"
	fontColor  = "#000000"
)

// Bold and Prism are qualitative (CARTO) palettes.
var (
	Bold = []string{
		"#7F3C8D", "#11A579", "#3969AC", "#F2B701", "#E73F74", "#80BA5A",
		"#E68310", "#008695", "#CF1C90", "#F97B72", "#A5AA99",
	}
	Prism = []string{
		"#5F4690", "#1D6996", "#38A6A5", "#0F8554", "#73AF48", "#EDAD08",
		"#E17C05", "#CC503E", "#94346E", "#6F4070", "#666666",
	}
)

func pick(palette []string, i int) string { return palette[i%len(palette)] }

// title upper-cases a chart title. Casers are stateful, so each call gets its own.
func title(s string) string { return cases.Upper(language.Und).String(s) }

func baseLayout() Layout {
	return Layout{
		PaperBG:        Background,
		PlotBG:         Background,
		FontColor:      fontColor,
		ShowGrid:       true,
		ShowTickLabels: true,
	}
}

// ArtistHistogram counts songs per artist, one colored bar per artist.
func ArtistHistogram(t *dataset.Table) Config {
	groups := analysis.ArtistCounts(t)
	s := Series{Name: "Artist", Points: make([]Point, 0, len(groups))}
	for i, g := range groups {
		s.Points = append(s.Points, Point{Label: g.Key, Y: g.Value, Color: pick(Bold, i)})
	}
	l := baseLayout()
	l.Height = 1000
	l.ShowGrid = false
	l.ShowTickLabels = false
	l.ReverseCategoryAxis = true
	l.XTitle = "Artist"
	l.YTitle = "count"
	return Config{
		Name:   NameHistogram,
		Kind:   KindBar,
		Title:  title("Number of songs artists have in this database"),
		Series: []Series{s},
		Layout: l,
	}
}

// GenreSizePie shows the total song size per genre.
func GenreSizePie(t *dataset.Table) Config {
	groups := analysis.GenreSizes(t)
	s := Series{Name: "Genre", Points: make([]Point, 0, len(groups))}
	for i, g := range groups {
		s.Points = append(s.Points, Point{Label: g.Key, Y: g.Value, Color: pick(Bold, i)})
	}
	l := baseLayout()
	l.ShowLegend = true
	l.LegendTitle = "Genre"
	l.BorderWidth = 0
	return Config{
		Name:   NamePie,
		Kind:   KindPie,
		Title:  title("Pie chart of genres present"),
		Series: []Series{s},
		Layout: l,
	}
}

// RuntimeScatter plots runtime against size, one series per song title.
// Equal titles from different artists share a series.
func RuntimeScatter(t *dataset.Table) Config {
	var series []Series
	pos := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		tr := t.At(i)
		j, ok := pos[tr.SongTrack]
		if !ok {
			j = len(series)
			pos[tr.SongTrack] = j
			series = append(series, Series{Name: tr.SongTrack, Color: pick(Prism, j)})
		}
		series[j].Points = append(series[j].Points, Point{
			Label: tr.SongTrack,
			X:     tr.SongSizeMB,
			Y:     tr.TotalRuntimeMin,
			Color: series[j].Color,
		})
	}
	if series == nil {
		series = []Series{}
	}
	l := baseLayout()
	l.ShowLegend = false
	l.MarkerSize = 20
	l.XTitle = "song_size_Mb"
	l.YTitle = "Total_runtime_min"
	return Config{
		Name:   NameScatter,
		Kind:   KindScatter,
		Title:  title("Total runtime of each song"),
		Series: series,
		Layout: l,
	}
}

// BuildAll builds the three charts concurrently.
func BuildAll(t *dataset.Table) Set {
	var s Set
	var wg conc.WaitGroup
	wg.Go(func() { s.Histogram = ArtistHistogram(t) })
	wg.Go(func() { s.Pie = GenreSizePie(t) })
	wg.Go(func() { s.Scatter = RuntimeScatter(t) })
	wg.Wait()
	return s
}
