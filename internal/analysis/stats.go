// Package analysis computes the headline statistics and per-key groupings
// shown on the dashboard.
package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/olekukonko/tablewriter"
)

// Stats are the aggregate values shown in the stat cards. Means are NaN for an
// empty table.
type Stats struct {
	Rows        int
	SongCount   int
	MeanPrice   float64
	MeanRuntime float64
	MeanSize    float64
}

// Summarize computes Stats over every row of t.
func Summarize(t *dataset.Table) Stats {
	var price, runtime, size meanAcc
	titles := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		tr := t.At(i)
		price.add(tr.UnitPriceDollars)
		runtime.add(tr.TotalRuntimeMin)
		size.add(tr.SongSizeMB)
		titles[tr.SongTrack] = struct{}{}
	}
	return Stats{
		Rows:        t.Len(),
		SongCount:   len(titles),
		MeanPrice:   Round2(price.value()),
		MeanRuntime: Round2(runtime.value()),
		MeanSize:    Round2(size.value()),
	}
}

// Round2 rounds half away from zero to two decimals. NaN passes through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// FormatValue renders a rounded statistic, or "n/a" when undefined.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// meanAcc is a running (Welford) mean.
type meanAcc struct {
	n    int
	mean float64
}

func (a *meanAcc) add(x float64) {
	a.n++
	a.mean += (x - a.mean) / float64(a.n)
}

func (a *meanAcc) value() float64 {
	if a.n == 0 {
		return math.NaN()
	}
	return a.mean
}

type statsJSON struct {
	Rows        int      `json:"rows"`
	SongCount   int      `json:"song_count"`
	MeanPrice   *float64 `json:"mean_price"`
	MeanRuntime *float64 `json:"mean_runtime"`
	MeanSize    *float64 `json:"mean_size"`
}

// MarshalJSON encodes undefined means as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	opt := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(statsJSON{
		Rows:        s.Rows,
		SongCount:   s.SongCount,
		MeanPrice:   opt(s.MeanPrice),
		MeanRuntime: opt(s.MeanRuntime),
		MeanSize:    opt(s.MeanSize),
	})
}

func (s Stats) rows() [][]string {
	return [][]string{
		{"Songs", strconv.Itoa(s.SongCount)},
		{"Rows", strconv.Itoa(s.Rows)},
		{"Mean price ($)", FormatValue(s.MeanPrice)},
		{"Mean runtime (min)", FormatValue(s.MeanRuntime)},
		{"Mean size (MB)", FormatValue(s.MeanSize)},
	}
}

// Markdown renders the stats as a bracketed plain-text block.
func (s Stats) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	for _, r := range s.rows() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", r[0], r[1]))
	}
	return b.String()
}

// Table writes the stats as an ASCII table.
func (s Stats) Table(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value"})
	for _, r := range s.rows() {
		if err := table.Append(r); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
