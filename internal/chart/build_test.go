package chart

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/KaramelBytes/mused/internal/dataset"
)

func fixture() *dataset.Table {
	return dataset.NewTable("", []dataset.Track{
		{SongTrack: "Hello", Artist: "Adele", Genre: "Pop", UnitPriceDollars: 0.99, TotalRuntimeMin: 4.9, SongSizeMB: 9.5},
		{SongTrack: "One", Artist: "U2", Genre: "Rock", UnitPriceDollars: 0.99, TotalRuntimeMin: 4.6, SongSizeMB: 8.8},
		{SongTrack: "Skyfall", Artist: "Adele", Genre: "Pop", UnitPriceDollars: 1.29, TotalRuntimeMin: 4.8, SongSizeMB: 9.1},
		{SongTrack: "Hello", Artist: "Lionel Richie", Genre: "Soul", UnitPriceDollars: 1.99, TotalRuntimeMin: 4.1, SongSizeMB: 7.9},
	})
}

func TestArtistHistogram(t *testing.T) {
	c := ArtistHistogram(fixture())
	if c.Kind != KindBar || c.Title != "NUMBER OF SONGS ARTISTS HAVE IN THIS DATABASE" {
		t.Fatalf("unexpected header: %s %q", c.Kind, c.Title)
	}
	pts := c.Series[0].Points
	if len(pts) != 3 {
		t.Fatalf("bars = %d, want 3", len(pts))
	}
	if pts[0].Label != "Adele" || pts[0].Y != 2 || pts[0].Color != Bold[0] {
		t.Fatalf("first bar = %+v", pts[0])
	}
	if pts[2].Label != "Lionel Richie" || pts[2].Color != Bold[2] {
		t.Fatalf("third bar = %+v", pts[2])
	}
	l := c.Layout
	if !l.ReverseCategoryAxis || l.ShowTickLabels || l.ShowGrid || l.Height != 1000 || l.PaperBG != Background || l.PlotBG != Background {
		t.Fatalf("layout = %+v", l)
	}
}

func TestGenreSizePie(t *testing.T) {
	c := GenreSizePie(fixture())
	if c.Title != "PIE CHART OF GENRES PRESENT" || !c.Layout.ShowLegend || c.Layout.LegendTitle != "Genre" {
		t.Fatalf("unexpected config: %+v", c)
	}
	pts := c.Series[0].Points
	want := []struct {
		label string
		v     float64
	}{{"Pop", 18.6}, {"Rock", 8.8}, {"Soul", 7.9}}
	if len(pts) != len(want) {
		t.Fatalf("slices = %d", len(pts))
	}
	for i, w := range want {
		if pts[i].Label != w.label || pts[i].Y-w.v > 1e-9 || w.v-pts[i].Y > 1e-9 {
			t.Fatalf("slice %d = %+v, want %s=%v", i, pts[i], w.label, w.v)
		}
	}
}

func TestRuntimeScatterGroupsByTitle(t *testing.T) {
	c := RuntimeScatter(fixture())
	if c.Title != "TOTAL RUNTIME OF EACH SONG" || c.Layout.ShowLegend || c.Layout.MarkerSize != 20 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if len(c.Series) != 3 {
		t.Fatalf("series = %d, want 3 (Hello merges)", len(c.Series))
	}
	hello := c.Series[0]
	if hello.Name != "Hello" || len(hello.Points) != 2 || hello.Color != Prism[0] {
		t.Fatalf("Hello series = %+v", hello)
	}
	if p := hello.Points[1]; p.X != 7.9 || p.Y != 4.1 {
		t.Fatalf("point = %+v, want x=size y=runtime", p)
	}
}

func TestBuildAllMatchesBuilders(t *testing.T) {
	tbl := fixture()
	s := BuildAll(tbl)
	if !reflect.DeepEqual(s.Histogram, ArtistHistogram(tbl)) ||
		!reflect.DeepEqual(s.Pie, GenreSizePie(tbl)) ||
		!reflect.DeepEqual(s.Scatter, RuntimeScatter(tbl)) {
		t.Fatalf("BuildAll differs from sequential builders")
	}
	for _, name := range []string{NameHistogram, NamePie, NameScatter} {
		c, err := s.Get(name)
		if err != nil || c.Name != name {
			t.Fatalf("Get(%s) = %v, %v", name, c.Name, err)
		}
	}
	if _, err := s.Get("bogus"); err == nil {
		t.Fatalf("expected error for unknown chart")
	}
}

func TestBuildersAreDeterministic(t *testing.T) {
	tbl := fixture()
	a, _ := json.Marshal(BuildAll(tbl).All())
	b, _ := json.Marshal(BuildAll(tbl).All())
	if string(a) != string(b) {
		t.Fatalf("chart output is not stable")
	}
}

func TestEmptyTable(t *testing.T) {
	s := BuildAll(dataset.NewTable("", nil))
	for _, c := range s.All() {
		if !c.Empty() {
			t.Fatalf("%s should be empty", c.Name)
		}
	}
}
