package filter

import (
	"context"

	"github.com/s0up4200/marquee/catalog"
)

// Filter decides whether a movie is kept
type Filter interface {
	// Evaluate checks if a movie matches the filter criteria
	Evaluate(movie catalog.Movie) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against movies
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, movies []catalog.Movie) ([]catalog.Movie, error)
}

var (
	_ Compiler  = (*ExprCompiler)(nil)
	_ Evaluator = (*ConcurrentEvaluator)(nil)
)
