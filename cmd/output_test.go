package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/slug"
)

func withOutputFormat(t *testing.T, f string) {
	t.Helper()
	prev := outputFormat
	outputFormat = f
	t.Cleanup(func() { outputFormat = prev })
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml"} {
		_, err := parseFormat(in)
		assert.NoError(t, err, in)
	}

	_, err := parseFormat("xml")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestRender(t *testing.T) {
	result := &catalog.PagedResult[catalog.Movie]{
		Page:         1,
		TotalPages:   3,
		TotalResults: 42,
		Results: []catalog.Movie{
			{ID: 348, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1},
		},
	}

	t.Run("table", func(t *testing.T) {
		withOutputFormat(t, "table")

		var buf bytes.Buffer
		require.NoError(t, render(&buf, result, func(w io.Writer) { printMovies(w, result) }))
		assert.Contains(t, buf.String(), "Alien")
		assert.Contains(t, buf.String(), "alien-348")
		assert.Contains(t, buf.String(), "1979")
	})

	t.Run("json", func(t *testing.T) {
		withOutputFormat(t, "json")

		var buf bytes.Buffer
		require.NoError(t, render(&buf, result, nil))
		assert.Contains(t, buf.String(), `"total_results": 42`)
	})

	t.Run("yaml uses json field names", func(t *testing.T) {
		withOutputFormat(t, "yaml")

		var buf bytes.Buffer
		require.NoError(t, render(&buf, result, nil))
		assert.Contains(t, buf.String(), "total_pages: 3")
		assert.Contains(t, buf.String(), "title: Alien")
		assert.NotContains(t, buf.String(), "TotalPages")
		assert.NotContains(t, buf.String(), "{")
	})

	t.Run("empty page", func(t *testing.T) {
		withOutputFormat(t, "table")

		empty := &catalog.PagedResult[catalog.Movie]{Page: 1}
		var buf bytes.Buffer
		require.NoError(t, render(&buf, empty, func(w io.Writer) { printMovies(w, empty) }))
		assert.Equal(t, "No results.\n", buf.String())
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Heat", truncate("Heat", 10))
	assert.Equal(t, "Amélie ...", truncate("Amélie Poulain", 10))
	assert.Equal(t, "—", yearString(0))
	assert.Equal(t, "1995", yearString(1995))
}

func TestFriendlyError(t *testing.T) {
	assert.NoError(t, friendlyError(nil))

	err := friendlyError(fmt.Errorf("popular: %w", catalog.ErrNotConfigured))
	assert.ErrorContains(t, err, "TMDB_API_KEY")

	err = friendlyError(&catalog.APIError{StatusCode: 404, Message: "not found"})
	assert.EqualError(t, err, "nothing found")

	_, slugErr := slug.ExtractIDFromSlug("no-id-here")
	require.Error(t, slugErr)
	assert.Same(t, slugErr, friendlyError(slugErr))

	upstream := &catalog.APIError{StatusCode: 500, Message: "boom"}
	err = friendlyError(upstream)
	assert.ErrorContains(t, err, "try again later")
	var apiErr *catalog.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abcd"))
	assert.Equal(t, "ab****yz", maskSecret("abcdefwxyz"))
}
