package catalog

import (
	"context"
	"fmt"
)

// GetGenres retrieves the movie genre list
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	var list GenreList
	if err := c.get(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to get genres: %w", err)
	}
	return list.Genres, nil
}

// GetPerson retrieves a person
func (c *Client) GetPerson(ctx context.Context, id int) (*PersonDetails, error) {
	var person PersonDetails
	if err := c.get(ctx, fmt.Sprintf("/person/%d", id), nil, &person); err != nil {
		return nil, fmt.Errorf("failed to get person %d: %w", id, err)
	}
	return &person, nil
}

// GetPersonMovieCredits retrieves a person's movie filmography
func (c *Client) GetPersonMovieCredits(ctx context.Context, id int) (*PersonMovieCredits, error) {
	var credits PersonMovieCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/movie_credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get movie credits for person %d: %w", id, err)
	}
	return &credits, nil
}

// GetPersonTVCredits retrieves a person's TV filmography
func (c *Client) GetPersonTVCredits(ctx context.Context, id int) (*PersonTVCredits, error) {
	var credits PersonTVCredits
	if err := c.get(ctx, fmt.Sprintf("/person/%d/tv_credits", id), nil, &credits); err != nil {
		return nil, fmt.Errorf("failed to get TV credits for person %d: %w", id, err)
	}
	return &credits, nil
}

// GetCollection retrieves a collection and its parts
func (c *Client) GetCollection(ctx context.Context, id int) (*Collection, error) {
	var collection Collection
	if err := c.get(ctx, fmt.Sprintf("/collection/%d", id), nil, &collection); err != nil {
		return nil, fmt.Errorf("failed to get collection %d: %w", id, err)
	}
	return &collection, nil
}

// GetConfiguration retrieves the service configuration
func (c *Client) GetConfiguration(ctx context.Context) (*Configuration, error) {
	var cfg Configuration
	if err := c.get(ctx, "/configuration", nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}
	return &cfg, nil
}

// GetCountries retrieves the countries the service knows about
func (c *Client) GetCountries(ctx context.Context) ([]Country, error) {
	var countries []Country
	if err := c.get(ctx, "/configuration/countries", nil, &countries); err != nil {
		return nil, fmt.Errorf("failed to get countries: %w", err)
	}
	return countries, nil
}

// GetLanguages retrieves the languages the service knows about
func (c *Client) GetLanguages(ctx context.Context) ([]Language, error) {
	var languages []Language
	if err := c.get(ctx, "/configuration/languages", nil, &languages); err != nil {
		return nil, fmt.Errorf("failed to get languages: %w", err)
	}
	return languages, nil
}
