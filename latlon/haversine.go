package latlon

import "math"

// DistanceTo returns the great-circle distance in metres.
func DistanceTo(from, to LatLon) float64 {
	d, _ := DistanceAndBearingTo(from, to)
	return d
}

// BearingTo returns the initial bearing in degrees, 0 to 360.
func BearingTo(from, to LatLon) float64 {
	_, b := DistanceAndBearingTo(from, to)
	return b
}

func DistanceAndBearingTo(from, to LatLon) (float64, float64) {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	d := R * δ

	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return d, wrap360(toDegrees(θ))
}
