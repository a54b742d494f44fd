package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/slug"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"

	ruleWidth = 85
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (must be 'table', 'json' or 'yaml')", s)
	}
}

// render writes v as JSON or YAML, or hands over to table for the table format
func render(w io.Writer, v any, table func(io.Writer)) error {
	f, err := parseFormat(outputFormat)
	if err != nil {
		return err
	}

	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return writeYAML(w, v)
	default:
		table(w)
		return nil
	}
}

// writeYAML goes through JSON so field names match the JSON output
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	resetStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// resetStyle drops the flow style yaml picks up from JSON input
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("━", ruleWidth))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

func yearString(year int) string {
	if year == 0 {
		return "—"
	}
	return fmt.Sprint(year)
}

func pageFooter(w io.Writer, page, totalPages, totalResults int) {
	fmt.Fprintf(w, "Page %d of %d (%d results)\n", page, totalPages, totalResults)
}

func printMovies(w io.Writer, result *catalog.PagedResult[catalog.Movie]) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	rule(w)
	fmt.Fprintf(w, "%-4s %-44s %-6s %-7s %s\n", "#", "TITLE", "YEAR", "RATING", "SLUG")
	rule(w)
	for i, m := range result.Results {
		fmt.Fprintf(w, "%-4d %-44s %-6s %-7.1f %s\n",
			i+1, truncate(m.Title, 44), yearString(m.Year()), m.VoteAverage, slug.CreateMovieSlug(m.Title, m.ID))
	}
	rule(w)
	pageFooter(w, result.Page, result.TotalPages, result.TotalResults)
}

func printTVShows(w io.Writer, result *catalog.PagedResult[catalog.TVShow]) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	rule(w)
	fmt.Fprintf(w, "%-4s %-8s %-50s %-6s %s\n", "#", "ID", "NAME", "YEAR", "RATING")
	rule(w)
	for i, s := range result.Results {
		fmt.Fprintf(w, "%-4d %-8d %-50s %-6s %.1f\n",
			i+1, s.ID, truncate(s.Name, 50), yearString(s.Year()), s.VoteAverage)
	}
	rule(w)
	pageFooter(w, result.Page, result.TotalPages, result.TotalResults)
}

func printMulti(w io.Writer, result *catalog.PagedResult[catalog.MultiResult]) {
	if result == nil || len(result.Results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	rule(w)
	fmt.Fprintf(w, "%-4s %-7s %-8s %s\n", "#", "TYPE", "ID", "TITLE")
	rule(w)
	for i, r := range result.Results {
		fmt.Fprintf(w, "%-4d %-7s %-8d %s\n", i+1, r.MediaType, r.ID, truncate(r.DisplayTitle(), 60))
	}
	rule(w)
	pageFooter(w, result.Page, result.TotalPages, result.TotalResults)
}

func printMovieDetails(w io.Writer, m *catalog.MovieDetails, poster *string) {
	fmt.Fprintf(w, "%s (%s)\n", m.Title, yearString(m.Year()))
	rule(w)
	if m.Tagline != "" {
		fmt.Fprintf(w, "%s\n\n", m.Tagline)
	}
	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(w, "Genres:   %s\n", strings.Join(names, ", "))
	}
	if m.Runtime > 0 {
		fmt.Fprintf(w, "Runtime:  %dh %02dm\n", m.Runtime/60, m.Runtime%60)
	}
	fmt.Fprintf(w, "Rating:   %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)
	if m.Credits != nil {
		if directors := m.Credits.Directors(); len(directors) > 0 {
			fmt.Fprintf(w, "Director: %s\n", strings.Join(directors, ", "))
		}
		if len(m.Credits.Cast) > 0 {
			cast := make([]string, 0, 5)
			for _, c := range m.Credits.Cast[:min(5, len(m.Credits.Cast))] {
				cast = append(cast, c.Name)
			}
			fmt.Fprintf(w, "Cast:     %s\n", strings.Join(cast, ", "))
		}
	}
	if m.Videos != nil {
		if trailer, ok := m.Videos.Trailer(); ok {
			fmt.Fprintf(w, "Trailer:  https://www.youtube.com/watch?v=%s\n", trailer.Key)
		}
	}
	if poster != nil {
		fmt.Fprintf(w, "Poster:   %s\n", *poster)
	}
	fmt.Fprintf(w, "Slug:     %s\n", slug.CreateMovieSlug(m.Title, m.ID))
	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}
}

func printPerson(w io.Writer, p *catalog.PersonDetails, credits *catalog.PersonMovieCredits) {
	fmt.Fprintln(w, p.Name)
	rule(w)
	if p.KnownForDepartment != "" {
		fmt.Fprintf(w, "Known for: %s\n", p.KnownForDepartment)
	}
	if p.Birthday != nil {
		fmt.Fprintf(w, "Born:      %s", *p.Birthday)
		if p.PlaceOfBirth != nil {
			fmt.Fprintf(w, " in %s", *p.PlaceOfBirth)
		}
		fmt.Fprintln(w)
	}
	if p.Deathday != nil {
		fmt.Fprintf(w, "Died:      %s\n", *p.Deathday)
	}
	if p.Biography != "" {
		fmt.Fprintf(w, "\n%s\n", p.Biography)
	}

	if credits == nil || len(credits.Cast) == 0 {
		return
	}
	fmt.Fprintf(w, "\nMovies (%d):\n", len(credits.Cast))
	for _, c := range credits.Cast[:min(15, len(credits.Cast))] {
		fmt.Fprintf(w, "  • %s (%s)", c.Title, yearString(c.Year()))
		if c.Character != "" {
			fmt.Fprintf(w, " as %s", c.Character)
		}
		fmt.Fprintln(w)
	}
}

// friendlyError turns catalog failures into messages a user can act on
func friendlyError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrNotConfigured):
		return errors.New("the movie catalog is not configured: set tmdb.api_key in the config file or TMDB_API_KEY in the environment")
	case catalog.IsNotFound(err):
		return errors.New("nothing found")
	default:
		var slugErr *slug.InvalidSlugError
		if errors.As(err, &slugErr) {
			return err
		}
		return fmt.Errorf("catalog request failed, try again later: %w", err)
	}
}
