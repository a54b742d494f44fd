package state

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Sweeper purges expired persisted entries
type Sweeper interface {
	Key() string
	Sweep(ctx context.Context) (int, error)
}

// Sweep runs every sweeper once and returns the total number of entries
// removed. A failing sweeper does not stop the others.
func Sweep(ctx context.Context, logger zerolog.Logger, sweepers ...Sweeper) (int, error) {
	var (
		total int
		errs  []error
	)

	for _, s := range sweepers {
		removed, err := s.Sweep(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("store", s.Key()).Msg("Sweep failed")
			errs = append(errs, err)
			continue
		}
		if removed > 0 {
			logger.Debug().Str("store", s.Key()).Int("removed", removed).Msg("Swept expired entries")
		}
		total += removed
	}

	return total, errors.Join(errs...)
}
