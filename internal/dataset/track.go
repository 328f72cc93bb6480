// Package dataset loads the iTunes track export into an immutable in-memory table.
package dataset

// Source column names, exactly as they appear in the CSV header.
const (
	ColSongTrack        = "Song_Track"
	ColArtist           = "Artist"
	ColGenre            = "Genre"
	ColUnitPriceDollars = "Unit_Price_dollars"
	ColTotalRuntimeMin  = "Total_runtime_min"
	ColSongSizeMB       = "song_size_Mb"
)

// RequiredColumns lists the header names a dataset must provide.
var RequiredColumns = []string{
	ColSongTrack, ColArtist, ColGenre, ColUnitPriceDollars, ColTotalRuntimeMin, ColSongSizeMB,
}

// Track is one row of the dataset.
type Track struct {
	SongTrack        string  `json:"song_track"`
	Artist           string  `json:"artist"`
	Genre            string  `json:"genre"`
	UnitPriceDollars float64 `json:"unit_price_dollars"`
	TotalRuntimeMin  float64 `json:"total_runtime_min"`
	SongSizeMB       float64 `json:"song_size_mb"`
}

// Table is a read-only, ordered set of tracks. It is safe for concurrent use
// because nothing mutates it after construction.
type Table struct {
	source  string
	rows    []Track
	genres  []string
	artists []string
}

// NewTable copies rows into a new Table.
func NewTable(source string, rows []Track) *Table {
	cp := make([]Track, len(rows))
	copy(cp, rows)
	return &Table{
		source:  source,
		rows:    cp,
		genres:  distinct(cp, func(tr Track) string { return tr.Genre }),
		artists: distinct(cp, func(tr Track) string { return tr.Artist }),
	}
}

// Source returns where the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// At returns row i by value.
func (t *Table) At(i int) Track { return t.rows[i] }

// Rows returns a copy of all rows in table order.
func (t *Table) Rows() []Track {
	cp := make([]Track, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Genres returns the distinct genres in first-seen order.
func (t *Table) Genres() []string { return append([]string(nil), t.genres...) }

// Artists returns the distinct artists in first-seen order.
func (t *Table) Artists() []string { return append([]string(nil), t.artists...) }

func distinct(rows []Track, key func(Track) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
