package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the-matrix"},
		{"  Spider-Man: Into the Spider-Verse  ", "spider-man-into-the-spider-verse"},
		{"Amélie", "amelie"},
		{"Léon: The Professional", "leon-the-professional"},
		{"WALL·E", "wall-e"},
		{"2001: A Space Odyssey", "2001-a-space-odyssey"},
		{"---", ""},
		{"", ""},
		{"千と千尋の神隠し", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CreateSlug(tt.in))
		})
	}
}

func TestCreateSlugIsIdempotent(t *testing.T) {
	inputs := []string{
		"The Matrix", "Amélie", "  --Crème  Brûlée--  ", "a--b__c", "Ça & Là", "", "x",
		"Mission: Impossible – Dead Reckoning Part One",
	}
	for _, in := range inputs {
		once := CreateSlug(in)
		assert.Equal(t, once, CreateSlug(once), "input %q", in)
	}
}

func TestMovieSlugRoundTrip(t *testing.T) {
	tests := []struct {
		title string
		id    int
		want  string
	}{
		{"The Matrix", 603, "the-matrix-603"},
		{"Blade Runner 2049", 335984, "blade-runner-2049-335984"},
		{"", 42, "42"},
		{"千と千尋の神隠し", 129, "129"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := CreateMovieSlug(tt.title, tt.id)
			assert.Equal(t, tt.want, s)

			id, err := ExtractIDFromSlug(s)
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestExtractIDFromSlugInvalid(t *testing.T) {
	for _, s := range []string{"", "the-matrix", "the-matrix-", "movie-0", "movie-+5", "movie-5a"} {
		t.Run(s, func(t *testing.T) {
			_, err := ExtractIDFromSlug(s)
			require.Error(t, err)

			var slugErr *InvalidSlugError
			require.True(t, errors.As(err, &slugErr))
			assert.Equal(t, s, slugErr.Slug)
		})
	}
}
