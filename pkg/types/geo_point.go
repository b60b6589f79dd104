package types

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects coordinates outside the WGS84 range.
func (g GeoPoint) Validate() error {
	if math.IsNaN(g.Lat) || g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", g.Lat)
	}
	if math.IsNaN(g.Lng) || g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", g.Lng)
	}
	return nil
}

// DistanceKm returns the great-circle distance using the haversine formula.
func (g GeoPoint) DistanceKm(other GeoPoint) float64 {
	lat1 := toRadians(g.Lat)
	lat2 := toRadians(other.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(other.Lng - g.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
