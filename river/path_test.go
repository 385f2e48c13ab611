package river

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/a-bouts/river-twin/latlon"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("New(nil) = (%v); want (%v)", err, ErrTooShort)
	}

	_, err = New([]Waypoint{{Name: "alone"}})
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("New(1 waypoint) = (%v); want (%v)", err, ErrTooShort)
	}

	p, err := New(ScheldtWaypoints())
	if err != nil {
		t.Fatalf("New(scheldt) = (%v); want (nil)", err)
	}
	if p.Len() != 6 {
		t.Errorf("Len() = (%d); want (6)", p.Len())
	}
}

func TestPathIsImmutable(t *testing.T) {
	wps := ScheldtWaypoints()
	p, _ := New(wps)

	wps[0].Name = "changed"
	if p.Waypoint(0).Name != "North Sea" {
		t.Errorf("Waypoint(0) changed with the source slice: %s", p.Waypoint(0).Name)
	}

	out := p.Waypoints()
	out[1].Lat = 0
	if p.Waypoint(1).Lat != 51.40 {
		t.Errorf("Waypoint(1) changed with the returned slice: %f", p.Waypoint(1).Lat)
	}
}

func TestIndexOf(t *testing.T) {
	p := Scheldt()

	tests := []struct {
		progress float64
		want     int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1},
		{1.5, 1},
		{4.999, 4},
		{5, 5},
		{7, 5},
		{-0.5, 0},
	}
	for _, tt := range tests {
		if got := p.IndexOf(tt.progress); got != tt.want {
			t.Errorf("IndexOf(%f) = (%d); want (%d)", tt.progress, got, tt.want)
		}
	}

	// every progress in [0, len-1) renders at a valid index
	for progress := 0.0; progress < float64(p.Len()-1); progress += 0.25 {
		i := int(math.Floor(progress))
		if p.IndexOf(progress) != i || i < 0 || i >= p.Len() {
			t.Errorf("IndexOf(%f) = (%d); want (%d)", progress, p.IndexOf(progress), i)
		}
	}
}

func TestAt(t *testing.T) {
	p := Scheldt()
	if w := p.At(1.5); w.Name != "Vlissingen" {
		t.Errorf("At(1.5) = (%s); want (Vlissingen)", w.Name)
	}
	if w := p.At(2); w.Name != "Terneuzen" {
		t.Errorf("At(2) = (%s); want (Terneuzen)", w.Name)
	}
}

func TestDistances(t *testing.T) {
	p := Scheldt()

	total := 0.0
	for i := 0; i < p.Len()-1; i++ {
		total += p.LegLength(i)
	}
	if math.Abs(p.Length()-total) > 1e-6 {
		t.Errorf("Length() = (%f); want (%f)", p.Length(), total)
	}
	if p.RemainingFrom(5) != 0 {
		t.Errorf("RemainingFrom(5) = (%f); want (0)", p.RemainingFrom(5))
	}
	if math.Abs(p.RemainingFrom(4.5)-p.LegLength(4)) > 1e-6 {
		t.Errorf("RemainingFrom(4.5) = (%f); want (%f)", p.RemainingFrom(4.5), p.LegLength(4))
	}
}

func TestHeading(t *testing.T) {
	p, _ := New([]Waypoint{
		{Name: "a", LatLon: latlon.LatLon{Lat: 0, Lon: 0}},
		{Name: "b", LatLon: latlon.LatLon{Lat: 0, Lon: 1}},
	})
	if h := math.Round(p.Heading(0)); h != 90 {
		t.Errorf("Heading(0) = (%f); want (90)", h)
	}
	if h := math.Round(p.Heading(1)); h != 90 {
		t.Errorf("Heading(1) = (%f); want (90)", h)
	}
}

func TestCenter(t *testing.T) {
	c := Scheldt().Center()
	if math.Abs(c.Lat-51.355) > 1e-9 || math.Abs(c.Lon-3.95) > 1e-9 {
		t.Errorf("Center() = (%f, %f); want (51.355, 3.95)", c.Lat, c.Lon)
	}
}

func TestFeatures(t *testing.T) {
	p := Scheldt()
	features, err := p.Features()
	if err != nil {
		t.Fatalf("Features() = (%v); want (nil)", err)
	}
	if len(features) != p.Len()+1 {
		t.Fatalf("len(Features()) = (%d); want (%d)", len(features), p.Len()+1)
	}

	b, err := json.Marshal(features[0].Geometry)
	if err != nil {
		t.Fatalf("Marshal(line) = (%v); want (nil)", err)
	}
	if !strings.Contains(string(b), `"LineString"`) || !strings.Contains(string(b), "[3.6,51.45]") {
		t.Errorf("line GeoJSON = %s; want a LineString starting at [3.6,51.45]", b)
	}
}

func TestWebMercator(t *testing.T) {
	points := Scheldt().WebMercator()
	if len(points) != 6 {
		t.Fatalf("len(WebMercator()) = (%d); want (6)", len(points))
	}
	// 3.6°E is about 400.75 km east of Greenwich in EPSG:3857
	if math.Abs(points[0].X-400750) > 1000 {
		t.Errorf("WebMercator()[0].X = (%f); want about 400750", points[0].X)
	}
	if points[0].Y <= points[5].Y {
		t.Errorf("North Sea Y (%f) should be north of the lock Y (%f)", points[0].Y, points[5].Y)
	}
}
