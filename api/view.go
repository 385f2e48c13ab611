package api

import (
	"github.com/a-bouts/river-twin/api/model"
	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/river"
	"github.com/a-bouts/river-twin/scenario"
	"github.com/a-bouts/river-twin/wind"
	geom "github.com/peterstace/simplefeatures/geom"
)

func shipView(p river.Path, s fleet.Ship) model.Ship {
	i := p.IndexOf(s.Progress)
	w := p.Waypoint(i)
	return model.Ship{
		Ship:         s,
		Level:        fleet.LevelOf(s.Status),
		Waypoint:     i,
		WaypointName: w.Name,
		Position:     w.LatLon,
		Heading:      p.Heading(s.Progress),
		Remaining:    p.RemainingFrom(s.Progress),
	}
}

func dashboard(id, scenario string, p river.Path, state fleet.State, reading wind.Reading) model.Dashboard {
	ships := make([]model.Ship, len(state.Ships))
	for i, s := range state.Ships {
		ships[i] = shipView(p, s)
	}
	return model.Dashboard{
		Session:     id,
		Scenario:    scenario,
		Hour:        state.Hour,
		Wind:        reading,
		ActiveShips: len(state.Ships),
		Ships:       ships,
	}
}

// mapFeatures draws the river, its waypoints and one marker per ship. The
// river feature carries the initial map view.
func mapFeatures(sc scenario.Scenario, state fleet.State) (geom.GeoJSONFeatureCollection, error) {
	p := sc.Path
	features, err := p.Features()
	if err != nil {
		return nil, err
	}
	features[0].Properties["center"] = []float64{sc.View.Center.Lat, sc.View.Center.Lon}
	features[0].Properties["zoom"] = sc.View.Zoom
	for _, s := range state.Ships {
		v := shipView(p, s)
		f, err := river.PointFeature(v.Position, map[string]interface{}{
			"kind":     "ship",
			"name":     s.Name,
			"category": string(s.Category),
			"status":   s.Status,
			"level":    string(v.Level),
			"color":    s.Color,
			"popup":    s.Name + ": " + s.Status,
			"heading":  v.Heading,
		})
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return geom.GeoJSONFeatureCollection(features), nil
}

func riverView(sc scenario.Scenario) model.River {
	p := sc.Path
	wps := p.Waypoints()
	legs := make([]model.Leg, 0, len(wps)-1)
	for i := 0; i < len(wps)-1; i++ {
		legs = append(legs, model.Leg{From: wps[i].Name, To: wps[i+1].Name, Length: p.LegLength(i)})
	}
	return model.River{
		Name:      sc.Name,
		Waypoints: wps,
		Legs:      legs,
		Length:    p.Length(),
		Mercator:  p.WebMercator(),
		View:      sc.View,
	}
}
