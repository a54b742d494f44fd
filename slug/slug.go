// Package slug builds and parses URL slugs of the form "the-matrix-603".
package slug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// InvalidSlugError is returned when a slug does not end in a positive id
type InvalidSlugError struct {
	Slug string
}

func (e *InvalidSlugError) Error() string {
	return fmt.Sprintf("invalid slug %q: no trailing id", e.Slug)
}

// CreateSlug lowercases s, strips accents and replaces every run of
// characters other than ASCII letters and digits with a single hyphen
func CreateSlug(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// CreateMovieSlug appends id to the slug of title
func CreateMovieSlug(title string, id int) string {
	base := CreateSlug(title)
	if base == "" {
		return strconv.Itoa(id)
	}
	return base + "-" + strconv.Itoa(id)
}

// ExtractIDFromSlug returns the id at the end of a slug
func ExtractIDFromSlug(slug string) (int, error) {
	last := slug
	if i := strings.LastIndexByte(slug, '-'); i >= 0 {
		last = slug[i+1:]
	}

	id, err := strconv.Atoi(last)
	if err != nil || id <= 0 || strings.HasPrefix(last, "+") {
		return 0, &InvalidSlugError{Slug: slug}
	}
	return id, nil
}
