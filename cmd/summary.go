package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/mused/internal/analysis"
	"github.com/KaramelBytes/mused/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	sumFormat string
	sumGroups bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard statistics for the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch sumFormat {
		case "table", "markdown", "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|json)", sumFormat)
		}
		tbl, err := loadDataset(cmd.Context(), false)
		if err != nil {
			return err
		}
		stats := analysis.Summarize(tbl)
		out := cmd.OutOrStdout()

		switch sumFormat {
		case "json":
			v := map[string]any{"stats": stats}
			if sumGroups {
				v["genre_sizes_mb"] = analysis.GenreSizes(tbl)
				v["artist_counts"] = analysis.ArtistCounts(tbl)
			}
			b, err := utils.PrettyJSON(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		case "markdown":
			fmt.Fprint(out, stats.Markdown())
			if sumGroups {
				writeGroupsMarkdown(out, "GENRE SIZES (MB)", analysis.GenreSizes(tbl))
				writeGroupsMarkdown(out, "SONGS PER ARTIST", analysis.ArtistCounts(tbl))
			}
		default:
			if err := stats.Table(out); err != nil {
				return err
			}
			if sumGroups {
				if err := writeGroupsTable(out, "Genre", "Size (MB)", analysis.GenreSizes(tbl)); err != nil {
					return err
				}
				if err := writeGroupsTable(out, "Artist", "Songs", analysis.ArtistCounts(tbl)); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func writeGroupsMarkdown(w io.Writer, title string, groups []analysis.Group) {
	fmt.Fprintf(w, "\n[%s]\n", title)
	for _, g := range groups {
		fmt.Fprintf(w, "- %s: %s\n", g.Key, strconv.FormatFloat(analysis.Round2(g.Value), 'f', -1, 64))
	}
}

func writeGroupsTable(w io.Writer, key, value string, groups []analysis.Group) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{key, value})
	for _, g := range groups {
		if err := table.Append([]string{g.Key, strconv.FormatFloat(analysis.Round2(g.Value), 'f', -1, 64)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumFormat, "format", "table", "output format: table|markdown|json")
	summaryCmd.Flags().BoolVar(&sumGroups, "groups", false, "also print per-genre sizes and per-artist song counts")
}
