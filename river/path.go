package river

import (
	"errors"
	"fmt"
	"math"

	"github.com/a-bouts/river-twin/latlon"
)

// ErrTooShort is returned when a path has fewer than two waypoints.
var ErrTooShort = errors.New("river path needs at least 2 waypoints")

type Waypoint struct {
	Name string `json:"name"`
	latlon.LatLon
}

// Path is the ordered waypoint sequence from the sea entrance (index 0) to
// the destination lock (last index). It never changes once built.
type Path struct {
	waypoints []Waypoint
}

func New(waypoints []Waypoint) (Path, error) {
	if len(waypoints) < 2 {
		return Path{}, fmt.Errorf("%w, got %d", ErrTooShort, len(waypoints))
	}
	wps := make([]Waypoint, len(waypoints))
	copy(wps, waypoints)
	return Path{waypoints: wps}, nil
}

func (p Path) Len() int {
	return len(p.waypoints)
}

func (p Path) Waypoint(i int) Waypoint {
	return p.waypoints[i]
}

// Waypoints returns a copy of the waypoints.
func (p Path) Waypoints() []Waypoint {
	wps := make([]Waypoint, len(p.waypoints))
	copy(wps, p.waypoints)
	return wps
}

// IndexOf truncates a progress value to the waypoint it is rendered at.
// Progress is not interpolated between waypoints: 1.5 renders at 1.
func (p Path) IndexOf(progress float64) int {
	i := int(math.Floor(progress))
	if i < 0 {
		return 0
	}
	if i > len(p.waypoints)-1 {
		return len(p.waypoints) - 1
	}
	return i
}

func (p Path) At(progress float64) Waypoint {
	return p.waypoints[p.IndexOf(progress)]
}

// LegLength is the distance in metres between waypoint i and i+1.
func (p Path) LegLength(i int) float64 {
	return latlon.DistanceTo(p.waypoints[i].LatLon, p.waypoints[i+1].LatLon)
}

func (p Path) Length() float64 {
	return p.RemainingFrom(0)
}

// RemainingFrom is the distance along the path from the waypoint a ship
// with this progress is rendered at to the destination lock.
func (p Path) RemainingFrom(progress float64) float64 {
	d := 0.0
	for i := p.IndexOf(progress); i < len(p.waypoints)-1; i++ {
		d += p.LegLength(i)
	}
	return d
}

// Heading is the bearing from the rendered waypoint towards the next one.
// At the lock it keeps the bearing of the final leg.
func (p Path) Heading(progress float64) float64 {
	i := p.IndexOf(progress)
	if i == len(p.waypoints)-1 {
		i--
	}
	return latlon.BearingTo(p.waypoints[i].LatLon, p.waypoints[i+1].LatLon)
}

// Center is the middle of the bounding box of the waypoints.
func (p Path) Center() latlon.LatLon {
	lo, hi := p.waypoints[0].LatLon, p.waypoints[0].LatLon
	for _, w := range p.waypoints[1:] {
		lo.Lat = math.Min(lo.Lat, w.Lat)
		lo.Lon = math.Min(lo.Lon, w.Lon)
		hi.Lat = math.Max(hi.Lat, w.Lat)
		hi.Lon = math.Max(hi.Lon, w.Lon)
	}
	return latlon.LatLon{Lat: (lo.Lat + hi.Lat) / 2, Lon: (lo.Lon + hi.Lon) / 2}
}
