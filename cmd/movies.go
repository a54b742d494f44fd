package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/discovery"
	"github.com/s0up4200/marquee/slug"
)

var (
	trendingWindow string
	genreID        int
	sortKey        string
	minDate        string
	appendTo       []string
	tvShows        bool
)

type (
	movieListFunc func(ctx context.Context, page int) (*catalog.PagedResult[catalog.Movie], error)
	showListFunc  func(ctx context.Context, page int) (*catalog.PagedResult[catalog.TVShow], error)
)

// newListCmd builds one of the simple paged list commands
func newListCmd(use, short string, movies func() movieListFunc, shows func() showListFunc) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tvShows {
				if shows == nil {
					return fmt.Errorf("%s has no TV listing", use)
				}
				result, err := shows()(cmd.Context(), page)
				if err != nil {
					return friendlyError(err)
				}
				return render(cmd.OutOrStdout(), result, func(w io.Writer) { printTVShows(w, result) })
			}

			result, err := movies()(cmd.Context(), page)
			if err != nil {
				return friendlyError(err)
			}
			return writeMovies(cmd, result)
		},
	}
	c.Flags().IntVarP(&page, "page", "p", 1, "result page")
	c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")
	if shows != nil {
		c.Flags().BoolVar(&tvShows, "tv", false, "list TV shows instead of movies")
	}
	return c
}

var popularCmd = newListCmd("popular", "List popular movies",
	func() movieListFunc { return app.discovery.Popular },
	func() showListFunc { return app.discovery.PopularTV })

var topRatedCmd = newListCmd("top-rated", "List top rated movies",
	func() movieListFunc { return app.discovery.TopRated },
	func() showListFunc { return app.discovery.TopRatedTV })

var upcomingCmd = newListCmd("upcoming", "List upcoming movies",
	func() movieListFunc { return app.discovery.Upcoming }, nil)

var nowPlayingCmd = newListCmd("now-playing", "List movies now in theatres",
	func() movieListFunc { return app.discovery.NowPlaying }, nil)

// trendingCmd represents the trending command
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List trending movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		window := catalog.TimeWindow(strings.ToLower(trendingWindow))
		if window != catalog.TimeWindowDay && window != catalog.TimeWindowWeek {
			return fmt.Errorf("invalid window: %s (must be 'day' or 'week')", trendingWindow)
		}

		result, err := app.discovery.Trending(cmd.Context(), window)
		if err != nil {
			return friendlyError(err)
		}
		return writeMovies(cmd, result)
	},
}

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Browse movies by genre, sort order and release date",
	Long: `Browse the catalog without a search query.

Sort keys: popular (default), top_rated, newest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.discovery.Discover(cmd.Context(), browseFilters(cmd, ""))
		if err != nil {
			return friendlyError(err)
		}
		return writeMovies(cmd, result)
	},
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search movies by title",
	Long: `Search movies by title. Without a query this behaves like discover.
Every search is remembered in the recent search history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.discovery.Search(cmd.Context(), browseFilters(cmd, strings.Join(args, " ")))
		if err != nil {
			return friendlyError(err)
		}
		return writeMovies(cmd, result)
	},
}

// multiCmd represents the multi command
var multiCmd = &cobra.Command{
	Use:   "multi <query>",
	Short: "Search movies, TV shows and people at once",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := app.discovery.MultiSearch(cmd.Context(), strings.Join(args, " "), page)
		if err != nil {
			return friendlyError(err)
		}
		return render(cmd.OutOrStdout(), result, func(w io.Writer) { printMulti(w, result) })
	},
}

// movieCmd represents the movie command
var movieCmd = &cobra.Command{
	Use:   "movie <id-or-slug>",
	Short: "Show movie details",
	Long: `Show details for one movie. The argument is a catalog id or a slug such
as "the-matrix-603".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := slug.ExtractIDFromSlug(args[0])
		if err != nil {
			return err
		}

		details, err := app.discovery.MovieDetails(cmd.Context(), id, appendTo...)
		if err != nil {
			return friendlyError(err)
		}
		poster := app.discovery.ImageURL(details.PosterPath, catalog.SizeW500)
		return render(cmd.OutOrStdout(), details, func(w io.Writer) { printMovieDetails(w, details, poster) })
	},
}

// personCmd represents the person command
var personCmd = &cobra.Command{
	Use:   "person <id>",
	Short: "Show a person and their movies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid person id: %s", args[0])
		}

		person, err := app.discovery.Person(cmd.Context(), id)
		if err != nil {
			return friendlyError(err)
		}
		credits, err := app.discovery.PersonCredits(cmd.Context(), id)
		if err != nil {
			logger.Warn().Err(err).Int("person_id", id).Msg("Failed to load movie credits")
		}

		out := struct {
			Person  *catalog.PersonDetails      `json:"person"`
			Credits *catalog.PersonMovieCredits `json:"credits,omitempty"`
		}{person, credits}
		return render(cmd.OutOrStdout(), out, func(w io.Writer) { printPerson(w, person, credits) })
	},
}

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List movie genres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genres, err := app.discovery.Genres(cmd.Context())
		if err != nil {
			return friendlyError(err)
		}

		sorted := genres.Sorted()
		return render(cmd.OutOrStdout(), sorted, func(w io.Writer) {
			for _, g := range sorted {
				fmt.Fprintf(w, "%s  %-6d %s\n", g.Icon, g.ID, g.Name)
			}
		})
	},
}

// homeCmd represents the home command
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the trending, popular, top rated, upcoming and now playing lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := app.discovery.Home(cmd.Context())
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), feed, func(w io.Writer) {
			sections := []struct {
				title  string
				movies []catalog.Movie
			}{
				{"Trending this week", feed.Trending},
				{"Popular", feed.Popular},
				{"Top rated", feed.TopRated},
				{"Upcoming", feed.Upcoming},
				{"Now playing", feed.NowPlaying},
			}
			for _, s := range sections {
				fmt.Fprintf(w, "\n%s\n", s.title)
				rule(w)
				if len(s.movies) == 0 {
					fmt.Fprintln(w, "Nothing to show right now, try again later.")
					continue
				}
				for _, m := range s.movies[:min(5, len(s.movies))] {
					fmt.Fprintf(w, "  • %s (%s) %.1f\n", m.Title, yearString(m.Year()), m.VoteAverage)
				}
			}
		})
	},
}

func init() {
	trendingCmd.Flags().StringVarP(&trendingWindow, "window", "w", string(catalog.TimeWindowWeek), "trending window (day, week)")
	trendingCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")

	for _, c := range []*cobra.Command{discoverCmd, searchCmd} {
		c.Flags().IntVarP(&page, "page", "p", 1, "result page")
		c.Flags().IntVarP(&genreID, "genre", "g", 0, "genre id (see 'marquee genres')")
		c.Flags().StringVarP(&sortKey, "sort", "s", string(catalog.SortPopular), "sort key (popular, top_rated, newest)")
		c.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")
	}
	discoverCmd.Flags().StringVar(&minDate, "since", "", "earliest release date (YYYY-MM-DD)")

	multiCmd.Flags().IntVarP(&page, "page", "p", 1, "result page")
	movieCmd.Flags().StringSliceVar(&appendTo, "append", nil, "extra data to include (credits, videos, reviews, similar, recommendations)")

	rootCmd.AddCommand(
		trendingCmd, popularCmd, topRatedCmd, upcomingCmd, nowPlayingCmd,
		discoverCmd, searchCmd, multiCmd, movieCmd, personCmd, genresCmd, homeCmd,
	)
}

// browseFilters collects the discover/search flags
func browseFilters(cmd *cobra.Command, q string) discovery.SearchFilters {
	filters := discovery.SearchFilters{
		Query:   q,
		Sort:    catalog.SortKey(sortKey),
		MinDate: minDate,
		Page:    page,
	}
	if cmd.Flags().Changed("genre") && genreID > 0 {
		filters = filters.WithGenre(genreID)
		filters.Page = page
	}
	return filters
}

// writeMovies narrows result with --filter and renders it
func writeMovies(cmd *cobra.Command, result *catalog.PagedResult[catalog.Movie]) error {
	if expr := strings.TrimSpace(filterExpr); expr != "" && result != nil {
		matches, err := app.filters.Apply(cmd.Context(), expr, result.Results)
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		logger.Debug().Str("filter", expr).Int("matched", len(matches)).Int("total", len(result.Results)).Msg("Applied filter")

		filtered := *result
		filtered.Results = matches
		result = &filtered
	}

	return render(cmd.OutOrStdout(), result, func(w io.Writer) { printMovies(w, result) })
}
