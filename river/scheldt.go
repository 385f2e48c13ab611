package river

import "github.com/a-bouts/river-twin/latlon"

// ScheldtWaypoints traces the Western Scheldt approach to Antwerp.
func ScheldtWaypoints() []Waypoint {
	return []Waypoint{
		{Name: "North Sea", LatLon: latlon.LatLon{Lat: 51.45, Lon: 3.60}},
		{Name: "Vlissingen", LatLon: latlon.LatLon{Lat: 51.40, Lon: 3.80}},
		{Name: "Terneuzen", LatLon: latlon.LatLon{Lat: 51.35, Lon: 4.00}},
		{Name: "Western Scheldt", LatLon: latlon.LatLon{Lat: 51.30, Lon: 4.15}},
		{Name: "Doel", LatLon: latlon.LatLon{Lat: 51.28, Lon: 4.25}},
		{Name: "Kieldrecht Lock", LatLon: latlon.LatLon{Lat: 51.26, Lon: 4.30}},
	}
}

func Scheldt() Path {
	p, _ := New(ScheldtWaypoints())
	return p
}
