// Package selection filters tracks by the dashboard controls and formats the
// results for display.
package selection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/KaramelBytes/mused/internal/dataset"
)

// Query holds the control values a filter runs with.
type Query struct {
	Genre      string  `json:"genre"`
	Artist     string  `json:"artist"`
	MinRuntime float64 `json:"min_runtime"`
	MaxRuntime float64 `json:"max_runtime"`
}

// Songs returns the titles of rows matching genre and artist exactly with a
// runtime strictly below MaxRuntime, in table order. MinRuntime is carried
// but not applied. No match yields an empty, non-nil slice.
func Songs(t *dataset.Table, q Query) []string {
	out := []string{}
	for i := 0; i < t.Len(); i++ {
		tr := t.At(i)
		if tr.Genre == q.Genre && tr.Artist == q.Artist && tr.TotalRuntimeMin < q.MaxRuntime {
			out = append(out, tr.SongTrack)
		}
	}
	return out
}

// Summary formats the filter result for the output text region.
func Summary(q Query, songs []string) string {
	return fmt.Sprintf("Artist: %s.\nGenre: %s.\nThese are the list of songs available for this artist: %s",
		q.Artist, q.Genre, FormatList(songs))
}

// FormatList renders titles as a bracketed, single-quoted list: ['A', 'B'].
func FormatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// quote wraps s in single quotes, switching to double quotes when s contains
// a single quote and no double quote.
func quote(s string) string {
	q := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		q = `"`
	}
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\t", `\t`, q, `\`+q)
	return q + r.Replace(s) + q
}

// SearchTemplate is the search URL the artist link is built from; %s is the
// query-escaped artist name.
const SearchTemplate = "https://www.google.com/search?safe=active&q=%s&spell=1&sa=X&ved=2ahUKEwi3-oW5yOz9AhUEgv0HHQZ7CXYQBSgAegQIBxAB&biw=1431&bih=746&dpr=1.25"

// SearchLink returns the search URL for artist.
func SearchLink(artist string) string {
	return fmt.Sprintf(SearchTemplate, url.QueryEscape(artist))
}
