// README: Address resolver backed by the Google Maps Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"reloop/internal/types"
)

var (
	// ErrNoResult means the address text produced no geocoding match.
	ErrNoResult = errors.New("no geocoding result")
	// ErrUnavailable means the geocoding backend could not be reached.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// Service resolves free-text addresses to coordinates.
type Service struct {
	client *maps.Client
}

// NewService creates a resolver with the given API key.
func NewService(apiKey string) (*Service, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Service{client: client}, nil
}

// Resolve geocodes the address and returns the first result's location.
func (s *Service) Resolve(ctx context.Context, address string) (types.Point, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return types.Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(results) == 0 {
		return types.Point{}, ErrNoResult
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
