package model

import "fmt"

// GeoCoordinates locates a point on the globe in decimal degrees.
type GeoCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Validate checks that the coordinates are within valid ranges.
func (g GeoCoordinates) Validate() error {
	if g.Lon < -180 || g.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", g.Lon)
	}
	if g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", g.Lat)
	}
	return nil
}
