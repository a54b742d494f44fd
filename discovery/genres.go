package discovery

import (
	"sort"

	"github.com/s0up4200/marquee/catalog"
)

const (
	// UnknownGenreName is shown for genre ids missing from the catalog
	UnknownGenreName = "Unknown"
	// DefaultGenreIcon is used for genres without an assigned icon
	DefaultGenreIcon = "🎬"
)

// movieGenres is the upstream movie genre list, used for icons and offline name lookups
var movieGenres = []Genre{
	{ID: 28, Name: "Action", Icon: "💥"},
	{ID: 12, Name: "Adventure", Icon: "🗺️"},
	{ID: 16, Name: "Animation", Icon: "🎨"},
	{ID: 35, Name: "Comedy", Icon: "😂"},
	{ID: 80, Name: "Crime", Icon: "🔫"},
	{ID: 99, Name: "Documentary", Icon: "📹"},
	{ID: 18, Name: "Drama", Icon: "🎭"},
	{ID: 10751, Name: "Family", Icon: "👨‍👩‍👧"},
	{ID: 14, Name: "Fantasy", Icon: "🧙"},
	{ID: 36, Name: "History", Icon: "📜"},
	{ID: 27, Name: "Horror", Icon: "👻"},
	{ID: 10402, Name: "Music", Icon: "🎵"},
	{ID: 9648, Name: "Mystery", Icon: "🔍"},
	{ID: 10749, Name: "Romance", Icon: "💕"},
	{ID: 878, Name: "Science Fiction", Icon: "🚀"},
	{ID: 10770, Name: "TV Movie", Icon: "📺"},
	{ID: 53, Name: "Thriller", Icon: "😱"},
	{ID: 10752, Name: "War", Icon: "⚔️"},
	{ID: 37, Name: "Western", Icon: "🤠"},
}

var genreIcons = func() map[int]string {
	icons := make(map[int]string, len(movieGenres))
	for _, g := range movieGenres {
		icons[g.ID] = g.Icon
	}
	return icons
}()

// Genre is a catalog genre with its display icon
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// GenreCatalog maps genre ids to display names and icons
type GenreCatalog struct {
	byID  map[int]Genre
	order []int
}

// NewGenreCatalog builds a catalog from upstream genres, keeping their order
func NewGenreCatalog(genres []catalog.Genre) *GenreCatalog {
	c := &GenreCatalog{byID: make(map[int]Genre, len(genres))}
	for _, g := range genres {
		if _, dup := c.byID[g.ID]; !dup {
			c.order = append(c.order, g.ID)
		}
		c.byID[g.ID] = Genre{ID: g.ID, Name: g.Name, Icon: iconFor(g.ID)}
	}
	return c
}

// KnownGenres returns the built-in movie genre list without touching the network
func KnownGenres() *GenreCatalog {
	genres := make([]catalog.Genre, len(movieGenres))
	for i, g := range movieGenres {
		genres[i] = catalog.Genre{ID: g.ID, Name: g.Name}
	}
	return NewGenreCatalog(genres)
}

// Lookup returns the genre for id. Unknown ids yield a placeholder genre.
func (c *GenreCatalog) Lookup(id int) Genre {
	if c != nil {
		if g, ok := c.byID[id]; ok {
			return g
		}
	}
	return Genre{ID: id, Name: UnknownGenreName, Icon: DefaultGenreIcon}
}

// Has reports whether id is part of the catalog
func (c *GenreCatalog) Has(id int) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}

// All returns every genre in upstream order
func (c *GenreCatalog) All() []Genre {
	if c == nil {
		return nil
	}
	out := make([]Genre, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Names resolves a movie's genre ids to names
func (c *GenreCatalog) Names(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, c.Lookup(id).Name)
	}
	return names
}

// Sorted returns every genre ordered by name
func (c *GenreCatalog) Sorted() []Genre {
	out := c.All()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// NameMap returns genre names keyed by id
func (c *GenreCatalog) NameMap() map[int]string {
	if c == nil {
		return nil
	}
	names := make(map[int]string, len(c.byID))
	for id, g := range c.byID {
		names[id] = g.Name
	}
	return names
}

// Len returns the number of genres
func (c *GenreCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

func iconFor(id int) string {
	if icon, ok := genreIcons[id]; ok {
		return icon
	}
	return DefaultGenreIcon
}
