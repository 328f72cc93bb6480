package analysis

import "github.com/KaramelBytes/mused/internal/dataset"

// Group is one aggregated key.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// CountBy counts rows per key, in first-seen key order.
func CountBy(t *dataset.Table, key func(dataset.Track) string) []Group {
	return aggregate(t, key, func(dataset.Track) float64 { return 1 })
}

// SumBy sums val per key, in first-seen key order.
func SumBy(t *dataset.Table, key func(dataset.Track) string, val func(dataset.Track) float64) []Group {
	return aggregate(t, key, val)
}

// GenreSizes totals song size in MB per genre.
func GenreSizes(t *dataset.Table) []Group {
	return SumBy(t,
		func(tr dataset.Track) string { return tr.Genre },
		func(tr dataset.Track) float64 { return tr.SongSizeMB })
}

// ArtistCounts counts rows per artist.
func ArtistCounts(t *dataset.Table) []Group {
	return CountBy(t, func(tr dataset.Track) string { return tr.Artist })
}

func aggregate(t *dataset.Table, key func(dataset.Track) string, val func(dataset.Track) float64) []Group {
	pos := make(map[string]int)
	out := []Group{}
	for i := 0; i < t.Len(); i++ {
		tr := t.At(i)
		k := key(tr)
		j, ok := pos[k]
		if !ok {
			j = len(out)
			pos[k] = j
			out = append(out, Group{Key: k})
		}
		out[j].Value += val(tr)
	}
	return out
}
