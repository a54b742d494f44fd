package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
)

var testGenres = map[int]string{
	27:  "Horror",
	878: "Science Fiction",
	18:  "Drama",
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
}

func testMovies() []catalog.Movie {
	poster := "/poster.jpg"
	return []catalog.Movie{
		{ID: 348, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1, VoteCount: 14000, GenreIDs: []int{27, 878}, PosterPath: &poster},
		{ID: 679, Title: "Aliens", ReleaseDate: "1986-07-18", VoteAverage: 7.9, VoteCount: 9000, GenreIDs: []int{28, 878}},
		{ID: 8077, Title: "Alien³", ReleaseDate: "1992-05-22", VoteAverage: 6.4, VoteCount: 5000, GenreIDs: []int{27, 878}},
		{ID: 999, Title: "Untitled Drama", ReleaseDate: "2027-01-01", VoteAverage: 0, GenreIDs: []int{18}},
	}
}

func titles(movies []catalog.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasGenre("horror")`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasGenre("unclosed`,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: `VoteAverage + 1`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Ratings >= 7`,
			wantErr:    true,
		},
		{
			name:       "unknown helper",
			expression: `startsWith(Title, "a")`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre("Horror") and Year > 1980 and VoteAverage >= 6 and not Adult`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestEvaluate(t *testing.T) {
	compiler := NewExprCompiler(WithGenreNames(testGenres), WithClock(fixedNow))

	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{"genre by name", `hasGenre("science fiction")`, []string{"Alien", "Aliens", "Alien³"}},
		{"genre by id", `hasGenre("28")`, []string{"Aliens"}},
		{"rating and genre", `hasGenre("Horror") and VoteAverage >= 7`, []string{"Alien"}},
		{"year", `Year < 1990`, []string{"Alien", "Aliens"}},
		{"released", `not Released`, []string{"Untitled Drama"}},
		{"release window", `releasedAfter("1985-01-01") and releasedBefore("2000-01-01")`, []string{"Aliens", "Alien³"}},
		{"title helper", `hasPrefixFold(Title, "alien") and VoteCount > 6000`, []string{"Alien", "Aliens"}},
		{"title operator", `lower(Title) startsWith "alien" and not (Title endsWith "s")`, []string{"Alien", "Alien³"}},
		{"rating aliases", `Rating >= 7 and Votes > 10000`, []string{"Alien"}},
		{"poster", `HasPoster`, []string{"Alien"}},
		{"genre names list", `"Drama" in Genres`, []string{"Untitled Drama"}},
		{"date helpers", `ReleaseDate > yearsAgo(35)`, []string{"Alien³", "Untitled Drama"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)

			var matched []catalog.Movie
			for _, m := range testMovies() {
				if f.Evaluate(m) {
					matched = append(matched, m)
				}
			}
			assert.Equal(t, tt.want, titles(matched))
		})
	}
}

func TestHelpersCompile(t *testing.T) {
	calls := map[string]string{
		"hasGenre":       `hasGenre("Horror")`,
		"releasedAfter":  `releasedAfter("2000-01-01")`,
		"releasedBefore": `releasedBefore("2000-01-01")`,
		"daysSince":      `daysSince(ReleaseDate) > 30`,
		"daysAgo":        `ReleaseDate > daysAgo(30)`,
		"monthsAgo":      `ReleaseDate > monthsAgo(6)`,
		"yearsAgo":       `ReleaseDate > yearsAgo(10)`,
		"parseDate":      `ReleaseDate > parseDate("2000-01-01")`,
		"containsFold":   `containsFold(Title, "ali")`,
		"hasPrefixFold":  `hasPrefixFold(Title, "ali")`,
		"hasSuffixFold":  `hasSuffixFold(Title, "EN")`,
		"lower":          `lower(Title) == "alien"`,
		"upper":          `upper(Title) == "ALIEN"`,
		"now":            `ReleaseDate < now()`,
	}

	var helpers []string
	for name, v := range runtimeEnvironment(catalog.Movie{}, nil, fixedNow) {
		if reflect.TypeOf(v).Kind() == reflect.Func {
			helpers = append(helpers, name)
		}
	}
	require.NotEmpty(t, helpers)

	compiler := NewExprCompiler(WithClock(fixedNow))
	for _, name := range helpers {
		t.Run(name, func(t *testing.T) {
			call, ok := calls[name]
			require.True(t, ok, "no sample call for helper %s", name)

			_, err := compiler.Compile(call)
			assert.NoError(t, err)
		})
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Year > 2000`)
	require.NoError(t, err)
	again, err := compiler.Compile(` Year > 2000 `)
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, _ = compiler.Compile(`Year > 2001`)
	_, _ = compiler.Compile(`Year > 2002`)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Zero(t, compiler.Size())
}

func TestConcurrentEvaluator(t *testing.T) {
	compiler := NewExprCompiler()
	f, err := compiler.Compile(`ID % 2 == 0`)
	require.NoError(t, err)

	movies := generateTestMovies(1000)
	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))

	matches, err := evaluator.Evaluate(context.Background(), f, movies)
	require.NoError(t, err)
	require.Len(t, matches, 500)
	for i, m := range matches {
		assert.Equal(t, i*2, m.ID, "order follows input")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = evaluator.Evaluate(ctx, f, movies)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager(t *testing.T) {
	m := NewManager(WithCompiler(NewExprCompiler(WithGenreNames(testGenres))))
	ctx := context.Background()

	require.NoError(t, m.RegisterFilters(map[string]string{
		"horror":  `hasGenre("Horror")`,
		"classic": `Year < 1990 and VoteAverage >= 7.5`,
	}))
	assert.Equal(t, []string{"classic", "horror"}, m.ListFilters())

	err := m.RegisterFilters(map[string]string{"broken": `(`})
	require.Error(t, err)
	assert.NotContains(t, m.ListFilters(), "broken")

	horror, err := m.EvaluateFilter(ctx, "horror", testMovies())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien", "Alien³"}, titles(horror))

	_, err = m.EvaluateFilter(ctx, "missing", testMovies())
	assert.ErrorIs(t, err, ErrUnknownFilter)

	all, err := m.EvaluateAll(ctx, testMovies())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alien", "Aliens"}, titles(all["classic"]))

	adhoc, err := m.Apply(ctx, `Title == "Aliens"`, testMovies())
	require.NoError(t, err)
	assert.Equal(t, []string{"Aliens"}, titles(adhoc))

	named, err := m.Apply(ctx, "classic", testMovies())
	require.NoError(t, err)
	assert.Len(t, named, 2)
}
