package catalog

// ImageSize is a size token understood by the image CDN
type ImageSize string

const (
	SizeW92      ImageSize = "w92"
	SizeW154     ImageSize = "w154"
	SizeW185     ImageSize = "w185"
	SizeW300     ImageSize = "w300"
	SizeW342     ImageSize = "w342"
	SizeW500     ImageSize = "w500"
	SizeW780     ImageSize = "w780"
	SizeW1280    ImageSize = "w1280"
	SizeOriginal ImageSize = "original"
)

// ImageURL joins an image base URL, a size token and a relative image path.
// A nil path yields nil. Unknown size tokens are used verbatim.
func ImageURL(baseURL string, path *string, size ImageSize) *string {
	if path == nil {
		return nil
	}
	u := baseURL + "/" + string(size) + *path
	return &u
}

// ImageSet holds one image at the resolutions the UI uses
type ImageSet struct {
	Small    *string `json:"small"`
	Medium   *string `json:"medium"`
	Large    *string `json:"large"`
	Original *string `json:"original"`
}

// ImageURL resolves path against the client's image base URL
func (c *Client) ImageURL(path *string, size ImageSize) *string {
	return ImageURL(c.imageBaseURL, path, size)
}

// PosterSet resolves a poster path at small, medium, large and original sizes
func (c *Client) PosterSet(path *string) ImageSet {
	return ImageSet{
		Small:    c.ImageURL(path, SizeW154),
		Medium:   c.ImageURL(path, SizeW300),
		Large:    c.ImageURL(path, SizeW500),
		Original: c.ImageURL(path, SizeOriginal),
	}
}

// BackdropSet resolves a backdrop path at small, medium, large and original sizes
func (c *Client) BackdropSet(path *string) ImageSet {
	return ImageSet{
		Small:    c.ImageURL(path, SizeW300),
		Medium:   c.ImageURL(path, SizeW780),
		Large:    c.ImageURL(path, SizeW1280),
		Original: c.ImageURL(path, SizeOriginal),
	}
}
