package catalog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestImageURL(t *testing.T) {
	const base = "https://image.tmdb.org/t/p"

	sizes := []ImageSize{SizeW92, SizeW154, SizeW300, SizeW500, SizeW780, SizeOriginal, "w9999", "h632"}
	paths := []string{"/abc.jpg", "/kqjL17yufvn9OVLyXYpvtyrFfak.jpg", "/x"}

	for _, size := range sizes {
		assert.Nil(t, ImageURL(base, nil, size), "nil path must resolve to nil for size %s", size)

		for _, path := range paths {
			got := ImageURL(base, strPtr(path), size)
			require.NotNil(t, got)
			assert.Equal(t, base+"/"+string(size)+path, *got)
		}
	}
}

func TestClientImageSets(t *testing.T) {
	client, err := NewClient("", zerolog.Nop(), WithImageBaseURL("https://img.example/t/p/"))
	require.NoError(t, err)

	poster := client.PosterSet(strPtr("/p.jpg"))
	assert.Equal(t, "https://img.example/t/p/w154/p.jpg", *poster.Small)
	assert.Equal(t, "https://img.example/t/p/w300/p.jpg", *poster.Medium)
	assert.Equal(t, "https://img.example/t/p/w500/p.jpg", *poster.Large)
	assert.Equal(t, "https://img.example/t/p/original/p.jpg", *poster.Original)

	backdrop := client.BackdropSet(nil)
	assert.Nil(t, backdrop.Small)
	assert.Nil(t, backdrop.Original)

	assert.Equal(t, "https://img.example/t/p/w780/b.jpg", *client.ImageURL(strPtr("/b.jpg"), SizeW780))
}

func TestSortKeyParam(t *testing.T) {
	tests := []struct {
		key  SortKey
		want string
	}{
		{"", "popularity.desc"},
		{SortPopular, "popularity.desc"},
		{SortTopRated, "vote_average.desc"},
		{SortNewest, "primary_release_date.desc"},
		{"vote_count.desc", "vote_count.desc"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.Param())
		})
	}
}
