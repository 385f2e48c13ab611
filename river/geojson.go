package river

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-bouts/river-twin/latlon"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GeoJSON coordinates are always lon,lat in EPSG:4326.

func formatCoord(ll latlon.LatLon) string {
	return strconv.FormatFloat(ll.Lon, 'f', -1, 64) + " " + strconv.FormatFloat(ll.Lat, 'f', -1, 64)
}

func (p Path) LineString() (geom.Geometry, error) {
	coords := make([]string, len(p.waypoints))
	for i, w := range p.waypoints {
		coords[i] = formatCoord(w.LatLon)
	}
	g, err := geom.UnmarshalWKT("LINESTRING(" + strings.Join(coords, ",") + ")")
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("building river line: %w", err)
	}
	return g, nil
}

// PointFeature builds a GeoJSON point feature at ll.
func PointFeature(ll latlon.LatLon, properties map[string]interface{}) (geom.GeoJSONFeature, error) {
	g, err := geom.UnmarshalWKT("POINT(" + formatCoord(ll) + ")")
	if err != nil {
		return geom.GeoJSONFeature{}, fmt.Errorf("building point: %w", err)
	}
	return geom.GeoJSONFeature{Geometry: g, Properties: properties}, nil
}

// Features returns the river line followed by one point per waypoint.
func (p Path) Features() ([]geom.GeoJSONFeature, error) {
	line, err := p.LineString()
	if err != nil {
		return nil, err
	}
	features := []geom.GeoJSONFeature{{
		Geometry:   line,
		Properties: map[string]interface{}{"kind": "river", "length": p.Length()},
	}}
	for i, w := range p.waypoints {
		f, err := PointFeature(w.LatLon, map[string]interface{}{
			"kind":  "waypoint",
			"index": i,
			"name":  w.Name,
		})
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

type MercatorPoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WebMercator projects the waypoints to EPSG:3857.
func (p Path) WebMercator() []MercatorPoint {
	f := wgs84.EPSG().Transform(4326, 3857)
	points := make([]MercatorPoint, len(p.waypoints))
	for i, w := range p.waypoints {
		x, y, _ := f(w.Lon, w.Lat, 0)
		points[i] = MercatorPoint{Name: w.Name, X: x, Y: y}
	}
	return points
}
