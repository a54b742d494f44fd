package catalog

// MediaType represents the kind of catalog record
type MediaType string

const (
	// MediaTypeAll selects every media type (trending only)
	MediaTypeAll MediaType = "all"
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV represents a TV show
	MediaTypeTV MediaType = "tv"
	// MediaTypePerson represents a person
	MediaTypePerson MediaType = "person"
)

// TimeWindow is the trending aggregation window
type TimeWindow string

const (
	TimeWindowDay  TimeWindow = "day"
	TimeWindowWeek TimeWindow = "week"
)

// PagedResult is the envelope used by every list endpoint
type PagedResult[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasMorePages checks if there are more pages to fetch
func (p *PagedResult[T]) HasMorePages() bool {
	return p.Page < p.TotalPages
}

// Movie is the list projection of a movie
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language,omitempty"`
}

// Year returns the release year, or 0 when the date is missing
func (m *Movie) Year() int {
	return yearOf(m.ReleaseDate)
}

// TVShow is the list projection of a TV show
type TVShow struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name,omitempty"`
	Overview         string   `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	FirstAirDate     string   `json:"first_air_date"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	Popularity       float64  `json:"popularity"`
	OriginCountry    []string `json:"origin_country,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
}

// Year returns the first air year, or 0 when the date is missing
func (s *TVShow) Year() int {
	return yearOf(s.FirstAirDate)
}

// Person is the list projection of a person
type Person struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	ProfilePath        *string       `json:"profile_path"`
	KnownForDepartment string        `json:"known_for_department,omitempty"`
	Popularity         float64       `json:"popularity"`
	KnownFor           []MultiResult `json:"known_for,omitempty"`
}

// MultiResult is one row of a multi search or mixed trending list.
// MediaType decides which of the fields are populated.
type MultiResult struct {
	MediaType          MediaType `json:"media_type"`
	ID                 int       `json:"id"`
	Title              string    `json:"title,omitempty"`
	Name               string    `json:"name,omitempty"`
	Overview           string    `json:"overview,omitempty"`
	PosterPath         *string   `json:"poster_path,omitempty"`
	BackdropPath       *string   `json:"backdrop_path,omitempty"`
	ProfilePath        *string   `json:"profile_path,omitempty"`
	ReleaseDate        string    `json:"release_date,omitempty"`
	FirstAirDate       string    `json:"first_air_date,omitempty"`
	VoteAverage        float64   `json:"vote_average,omitempty"`
	VoteCount          int       `json:"vote_count,omitempty"`
	GenreIDs           []int     `json:"genre_ids,omitempty"`
	Popularity         float64   `json:"popularity"`
	KnownForDepartment string    `json:"known_for_department,omitempty"`
}

// DisplayTitle returns the title for movies and the name for shows and people
func (r *MultiResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// ImagePath returns the poster path, or the profile path for people
func (r *MultiResult) ImagePath() *string {
	if r.MediaType == MediaTypePerson {
		return r.ProfilePath
	}
	return r.PosterPath
}

// AsMovie converts the row to a Movie when it is one
func (r *MultiResult) AsMovie() (Movie, bool) {
	if r.MediaType != MediaTypeMovie {
		return Movie{}, false
	}
	return Movie{
		ID:           r.ID,
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		ReleaseDate:  r.ReleaseDate,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		GenreIDs:     r.GenreIDs,
		Popularity:   r.Popularity,
	}, true
}

// AsTVShow converts the row to a TVShow when it is one
func (r *MultiResult) AsTVShow() (TVShow, bool) {
	if r.MediaType != MediaTypeTV {
		return TVShow{}, false
	}
	return TVShow{
		ID:           r.ID,
		Name:         r.Name,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		FirstAirDate: r.FirstAirDate,
		VoteAverage:  r.VoteAverage,
		VoteCount:    r.VoteCount,
		GenreIDs:     r.GenreIDs,
		Popularity:   r.Popularity,
	}, true
}

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the genre/movie/list payload
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// CollectionRef is the short collection reference embedded in movie details
type CollectionRef struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// Company is a production company
type Company struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// MovieDetails is the full movie record, optionally carrying appended sub-resources
type MovieDetails struct {
	Movie
	Genres              []Genre        `json:"genres"`
	Runtime             int            `json:"runtime"`
	Tagline             string         `json:"tagline"`
	Status              string         `json:"status"`
	Budget              int64          `json:"budget"`
	Revenue             int64          `json:"revenue"`
	IMDbID              string         `json:"imdb_id"`
	Homepage            string         `json:"homepage"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection"`
	ProductionCompanies []Company      `json:"production_companies,omitempty"`
	SpokenLanguages     []Language     `json:"spoken_languages,omitempty"`

	Credits         *Credits             `json:"credits,omitempty"`
	Videos          *VideoList           `json:"videos,omitempty"`
	Reviews         *PagedResult[Review] `json:"reviews,omitempty"`
	Similar         *PagedResult[Movie]  `json:"similar,omitempty"`
	Recommendations *PagedResult[Movie]  `json:"recommendations,omitempty"`
}

// CastMember is a credited actor
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
	CreditID    string  `json:"credit_id"`
}

// CrewMember is a credited crew member
type CrewMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Job         string  `json:"job"`
	Department  string  `json:"department"`
	ProfilePath *string `json:"profile_path"`
	CreditID    string  `json:"credit_id"`
}

// Credits is the movie/{id}/credits payload
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the names of crew members with the Director job
func (c *Credits) Directors() []string {
	var names []string
	for _, member := range c.Crew {
		if member.Job == "Director" {
			names = append(names, member.Name)
		}
	}
	return names
}

// Video is a trailer, teaser or clip
type Video struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	Site      string `json:"site"`
	Type      string `json:"type"`
	Official  bool   `json:"official"`
	Published string `json:"published_at,omitempty"`
}

// VideoList is the movie/{id}/videos payload
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// Trailer returns the first official YouTube trailer, falling back to any YouTube trailer
func (v *VideoList) Trailer() (Video, bool) {
	var fallback *Video
	for i := range v.Results {
		video := &v.Results[i]
		if video.Site != "YouTube" || video.Type != "Trailer" {
			continue
		}
		if video.Official {
			return *video, true
		}
		if fallback == nil {
			fallback = video
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Video{}, false
}

// ReviewAuthor carries the reviewer's details
type ReviewAuthor struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

// Review is a user review
type Review struct {
	ID            string       `json:"id"`
	Author        string       `json:"author"`
	AuthorDetails ReviewAuthor `json:"author_details"`
	Content       string       `json:"content"`
	URL           string       `json:"url"`
	CreatedAt     string       `json:"created_at"`
}

// PersonDetails is the person/{id} payload
type PersonDetails struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           *string `json:"birthday"`
	Deathday           *string `json:"deathday"`
	PlaceOfBirth       *string `json:"place_of_birth"`
	ProfilePath        *string `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	IMDbID             string  `json:"imdb_id"`
}

// PersonMovieCredit is one movie in a person's filmography
type PersonMovieCredit struct {
	Movie
	Character  string `json:"character,omitempty"`
	Job        string `json:"job,omitempty"`
	Department string `json:"department,omitempty"`
	CreditID   string `json:"credit_id"`
}

// PersonMovieCredits is the person/{id}/movie_credits payload
type PersonMovieCredits struct {
	ID   int                 `json:"id"`
	Cast []PersonMovieCredit `json:"cast"`
	Crew []PersonMovieCredit `json:"crew"`
}

// PersonTVCredit is one show in a person's filmography
type PersonTVCredit struct {
	TVShow
	Character    string `json:"character,omitempty"`
	Job          string `json:"job,omitempty"`
	Department   string `json:"department,omitempty"`
	EpisodeCount int    `json:"episode_count"`
	CreditID     string `json:"credit_id"`
}

// PersonTVCredits is the person/{id}/tv_credits payload
type PersonTVCredits struct {
	ID   int              `json:"id"`
	Cast []PersonTVCredit `json:"cast"`
	Crew []PersonTVCredit `json:"crew"`
}

// Collection is the collection/{id} payload
type Collection struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	Parts        []Movie `json:"parts"`
}

// ImageConfiguration lists the image base URLs and sizes the service supports
type ImageConfiguration struct {
	BaseURL       string   `json:"base_url"`
	SecureBaseURL string   `json:"secure_base_url"`
	BackdropSizes []string `json:"backdrop_sizes"`
	LogoSizes     []string `json:"logo_sizes"`
	PosterSizes   []string `json:"poster_sizes"`
	ProfileSizes  []string `json:"profile_sizes"`
	StillSizes    []string `json:"still_sizes"`
}

// Configuration is the configuration payload
type Configuration struct {
	Images     ImageConfiguration `json:"images"`
	ChangeKeys []string           `json:"change_keys"`
}

// Country is one entry of configuration/countries
type Country struct {
	Code        string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name,omitempty"`
}

// Language is one entry of configuration/languages
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
