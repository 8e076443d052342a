// Package geo holds the coordinate math used for volunteer matching.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

const coordinateScale = 1e6

// Distance returns the great-circle distance in kilometers between two
// points given in degrees, using the Haversine formula. Inputs must already
// be valid coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a just outside [0, 1] near antipodal pairs
	a = math.Max(0, math.Min(1, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// ValidLatitude reports whether lat lies in [-90, 90].
func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon lies in [-180, 180].
func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}

// RoundCoordinate rounds a degree value to 6 decimal places.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*coordinateScale) / coordinateScale
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
