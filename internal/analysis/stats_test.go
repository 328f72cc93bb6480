package analysis

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/mused/internal/dataset"
)

func track(title, artist, genre string, price, runtime, size float64) dataset.Track {
	return dataset.Track{SongTrack: title, Artist: artist, Genre: genre, UnitPriceDollars: price, TotalRuntimeMin: runtime, SongSizeMB: size}
}

func TestSummarizeMeans(t *testing.T) {
	tbl := dataset.NewTable("", []dataset.Track{
		track("A", "X", "Pop", 0.99, 3, 7.25),
		track("B", "Y", "Rock", 1.99, 4, 7.5),
	})
	s := Summarize(tbl)
	if s.MeanPrice != 1.49 {
		t.Fatalf("mean price = %v, want 1.49", s.MeanPrice)
	}
	if s.MeanRuntime != 3.5 {
		t.Fatalf("mean runtime = %v, want 3.5", s.MeanRuntime)
	}
	if s.MeanSize != 7.38 {
		t.Fatalf("mean size = %v, want 7.38", s.MeanSize)
	}
	if s.SongCount != 2 || s.Rows != 2 {
		t.Fatalf("counts = %d/%d", s.SongCount, s.Rows)
	}
}

func TestSongCountIsDistinctTitles(t *testing.T) {
	rows := []dataset.Track{
		track("Hello", "Adele", "Pop", 1, 4, 8),
		track("Hello", "Lionel Richie", "Soul", 1, 4, 8),
		track("Skyfall", "Adele", "Pop", 1, 4, 8),
	}
	s := Summarize(dataset.NewTable("", rows))
	if s.SongCount != 2 || s.Rows != 3 {
		t.Fatalf("SongCount=%d Rows=%d, want 2/3", s.SongCount, s.Rows)
	}
	dup := append(rows, rows[2])
	if got := Summarize(dataset.NewTable("", dup)).SongCount; got != 2 {
		t.Fatalf("duplicating a title changed SongCount to %d", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(dataset.NewTable("", nil))
	if s.Rows != 0 || s.SongCount != 0 {
		t.Fatalf("counts = %+v", s)
	}
	if !math.IsNaN(s.MeanPrice) || !math.IsNaN(s.MeanRuntime) || !math.IsNaN(s.MeanSize) {
		t.Fatalf("empty means should be NaN: %+v", s)
	}
	if FormatValue(s.MeanPrice) != "n/a" {
		t.Fatalf("FormatValue(NaN) = %q", FormatValue(s.MeanPrice))
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"mean_price":null`) {
		t.Fatalf("NaN not encoded as null: %s", b)
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.005:  1.0,  // binary representation sits just below the half
		2.675:  2.68, // 2.675*100 is exactly 267.5 in float64
		0.125:  0.13, // exact tie rounds away from zero, not to even
		-0.125: -0.13,
		1.49:   1.49,
		-3.125: -3.13,
		3.125:  3.13,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestStatsRendering(t *testing.T) {
	s := Stats{Rows: 3, SongCount: 2, MeanPrice: 1.29, MeanRuntime: 4.1, MeanSize: 8}
	md := s.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "- Songs: 2", "- Mean price ($): 1.29", "- Mean size (MB): 8"} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	var buf bytes.Buffer
	if err := s.Table(&buf); err != nil {
		t.Fatalf("Table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Mean runtime (min)", "4.1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestGroups(t *testing.T) {
	tbl := dataset.NewTable("", []dataset.Track{
		track("A", "U2", "Rock", 1, 4, 8),
		track("B", "Adele", "Pop", 1, 4, 5.5),
		track("C", "U2", "Rock", 1, 4, 2),
	})
	counts := ArtistCounts(tbl)
	if len(counts) != 2 || counts[0] != (Group{"U2", 2}) || counts[1] != (Group{"Adele", 1}) {
		t.Fatalf("ArtistCounts = %+v", counts)
	}
	sizes := GenreSizes(tbl)
	if len(sizes) != 2 || sizes[0] != (Group{"Rock", 10}) || sizes[1] != (Group{"Pop", 5.5}) {
		t.Fatalf("GenreSizes = %+v", sizes)
	}
	if got := ArtistCounts(dataset.NewTable("", nil)); got == nil || len(got) != 0 {
		t.Fatalf("empty table groups = %#v", got)
	}
}
