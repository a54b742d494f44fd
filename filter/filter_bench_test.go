package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/s0up4200/marquee/catalog"
)

// generateTestMovies creates test movie data
func generateTestMovies(count int) []catalog.Movie {
	movies := make([]catalog.Movie, count)

	for i := range count {
		movies[i] = catalog.Movie{
			ID:          i,
			Title:       fmt.Sprintf("Movie %d", i),
			ReleaseDate: fmt.Sprintf("%d-06-15", 1990+i%35),
			VoteAverage: float64(i%100) / 10,
			VoteCount:   i * 7,
			Popularity:  float64(i % 250),
			GenreIDs:    []int{18, 27, 878}[:(i%3)+1],
		}
	}

	return movies
}

func BenchmarkCompile(b *testing.B) {
	expressions := []struct {
		name string
		expr string
	}{
		{"simple", `hasGenre("18")`},
		{"complex", `hasGenre("27") and Year > 2010 and VoteAverage > 7.0`},
	}

	for _, tc := range expressions {
		b.Run(tc.name, func(b *testing.B) {
			compiler := NewExprCompiler()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := compiler.Compile(tc.expr); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEvaluate(b *testing.B) {
	f, err := NewExprCompiler().Compile(`hasGenre("27") and Year > 2010 and VoteAverage > 7.0`)
	if err != nil {
		b.Fatal(err)
	}

	for _, size := range []int{100, 1000, 10000} {
		movies := generateTestMovies(size)

		b.Run(fmt.Sprintf("sequential/%d", size), func(b *testing.B) {
			for b.Loop() {
				_ = evaluateSequential(f, movies)
			}
		})

		b.Run(fmt.Sprintf("concurrent/%d", size), func(b *testing.B) {
			evaluator := NewConcurrentEvaluator()
			for b.Loop() {
				if _, err := evaluator.Evaluate(context.Background(), f, movies); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
