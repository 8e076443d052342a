package geocoder

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

var ErrNoResult = fmt.Errorf("no geocoding result found")

// Geocoder turns coordinates into a human readable place label.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

type GoogleGeocoder struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGoogleGeocoder returns nil, nil when apiKey is empty so callers can
// run without geocoding.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleGeocoder{client: client, timeout: 5 * time.Second}, nil
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{
			Lat: lat,
			Lng: lng,
		},
		ResultType: []string{"locality|administrative_area_level_2|administrative_area_level_1"},
		Language:   "en",
	})
	if err != nil {
		return "", err
	}

	for _, r := range results {
		if r.FormattedAddress != "" {
			return r.FormattedAddress, nil
		}
	}

	return "", ErrNoResult
}
