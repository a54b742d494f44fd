// Package filter narrows fetched movie lists with expr-lang expressions such as
//
//	VoteAverage >= 7 and hasGenre("Horror") and Year > 2000
//
// Expressions see the movie's fields (Title, Year, VoteAverage or Rating,
// VoteCount or Votes, Popularity, ReleaseDate, Language, Adult, GenreIDs,
// Genres) plus helper functions for genres, dates and strings. Unknown
// identifiers are compile errors.
package filter

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/marquee/catalog"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	genres     map[int]string
	now        func() time.Time
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache enables compiled filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// WithGenreNames lets expressions match genres by name
func WithGenreNames(names map[int]string) ExprCompilerOption {
	return func(c *ExprCompiler) {
		c.genres = maps.Clone(names)
	}
}

// WithClock replaces time.Now for date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *ExprCompiler) {
		c.now = now
	}
}

// ExprCompiler compiles expr-lang filter expressions
type ExprCompiler struct {
	genres map[int]string
	cache  *programCache
	now    func() time.Time
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into an executable filter
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if f, ok := c.cache.get(expression); ok {
			return f, nil
		}
	}

	// Compile against a sample environment so field and helper types are checked
	program, err := expr.Compile(expression,
		expr.Env(runtimeEnvironment(catalog.Movie{}, nil, c.now)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &exprFilter{
		expression: expression,
		program:    program,
		genres:     c.genres,
		now:        c.now,
	}

	if c.cache != nil {
		c.cache.put(expression, f)
	}

	return f, nil
}

// Clear removes all cached filters
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Size returns the number of cached filters
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.len()
	}
	return 0
}

// Evaluate evaluates the filter against a movie. Runtime errors count as no match.
func (f *exprFilter) Evaluate(movie catalog.Movie) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(movie, f.genres, f.now))
	if err != nil {
		return false
	}
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// runtimeEnvironment exposes one movie and the helper functions
func runtimeEnvironment(movie catalog.Movie, genres map[int]string, now func() time.Time) map[string]any {
	env := make(map[string]any, 40)
	addHelperFunctions(env, now)

	released := parseDate(movie.ReleaseDate)
	names := genreNames(movie.GenreIDs, genres)

	env["Movie"] = movie
	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Overview"] = movie.Overview
	env["Year"] = movie.Year()
	env["ReleaseDate"] = released
	env["Released"] = !released.IsZero() && !released.After(now())
	env["VoteAverage"] = movie.VoteAverage
	env["VoteCount"] = movie.VoteCount
	env["Rating"] = movie.VoteAverage
	env["Votes"] = movie.VoteCount
	env["Popularity"] = movie.Popularity
	env["Adult"] = movie.Adult
	env["Language"] = movie.OriginalLanguage
	env["GenreIDs"] = movie.GenreIDs
	env["Genres"] = names
	env["HasPoster"] = movie.PosterPath != nil

	env["hasGenre"] = createHasGenreFunc(movie.GenreIDs, names)
	env["releasedAfter"] = func(date string) bool {
		return !released.IsZero() && released.After(parseDate(date))
	}
	env["releasedBefore"] = func(date string) bool {
		return !released.IsZero() && released.Before(parseDate(date))
	}

	return env
}

// addHelperFunctions adds the movie-independent helpers
func addHelperFunctions(env map[string]any, now func() time.Time) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(now().Sub(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = parseDate
	// Case-insensitive string helpers. contains, startsWith and endsWith are
	// expr operators and hasPrefix/hasSuffix are case-sensitive builtins.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefixFold"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffixFold"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = now
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func genreNames(ids []int, genres map[int]string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := genres[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

// createHasGenreFunc matches a genre by name (case-insensitive) or by numeric id
func createHasGenreFunc(ids []int, names []string) func(string) bool {
	lower := make([]string, len(names))
	for i, name := range names {
		lower[i] = strings.ToLower(name)
	}
	return func(genre string) bool {
		if id, err := strconv.Atoi(genre); err == nil {
			return slices.Contains(ids, id)
		}
		return slices.Contains(lower, strings.ToLower(genre))
	}
}
