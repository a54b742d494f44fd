// Package catalog provides a client for the movie/TV catalog service (TMDB v3 API).
//
// The client is read-only. It translates typed options into query parameters,
// decodes the service's JSON into a subset of its response shapes and resolves
// relative image paths into fully qualified URLs.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := catalog.NewClient(
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		catalog.WithTimeout(10*time.Second),
//		catalog.WithLanguage("en-US"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	popular, err := client.GetPopular(ctx, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range popular.Results {
//		fmt.Println(m.Title, client.ImageURL(m.PosterPath, catalog.SizeW500))
//	}
//
// # Configuration
//
// A client without an API key is still constructed. Configured reports false
// and every network call returns ErrNotConfigured without touching the network.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the upstream status and
// message. The client never retries; that policy belongs to the caller:
//
//	var apiErr *catalog.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// definitive absence
//	}
package catalog
