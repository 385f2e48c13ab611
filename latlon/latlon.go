package latlon

import "math"

// R is the mean earth radius in metres.
const R = 6371e3

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(a float64) float64 {
	return a * math.Pi / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / math.Pi
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	return d1 - float64(int(d1/360.0)*360)
}
