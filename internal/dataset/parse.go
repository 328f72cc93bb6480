package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Parse reads a CSV stream with a header row into a Table. Columns are located
// by header name, so order and extra columns (e.g. an exported index) do not matter.
func Parse(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w: %s", ErrMissingColumn, ColSongTrack)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var rows []Track
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Row: n, Err: err}
		}
		tr, err := decodeRow(rec, idx, n)
		if err != nil {
			return nil, err
		}
		rows = append(rows, tr)
	}
	return NewTable(source, rows), nil
}

func decodeRow(rec []string, idx map[string]int, n int) (Track, error) {
	cell := func(col string) (string, error) {
		i := idx[col]
		if i >= len(rec) {
			return "", &ParseError{Row: n, Column: col, Err: errors.New("short row")}
		}
		return strings.TrimSpace(rec[i]), nil
	}
	text := func(col string) (string, error) {
		v, err := cell(col)
		if err != nil {
			return "", err
		}
		return norm.NFC.String(v), nil
	}
	number := func(col string) (float64, error) {
		v, err := cell(col)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, &ParseError{Row: n, Column: col, Err: err}
		}
		return f, nil
	}

	var tr Track
	var err error
	if tr.SongTrack, err = text(ColSongTrack); err != nil {
		return tr, err
	}
	if tr.Artist, err = text(ColArtist); err != nil {
		return tr, err
	}
	if tr.Genre, err = text(ColGenre); err != nil {
		return tr, err
	}
	if tr.UnitPriceDollars, err = number(ColUnitPriceDollars); err != nil {
		return tr, err
	}
	if tr.TotalRuntimeMin, err = number(ColTotalRuntimeMin); err != nil {
		return tr, err
	}
	if tr.SongSizeMB, err = number(ColSongSizeMB); err != nil {
		return tr, err
	}
	return tr, nil
}
