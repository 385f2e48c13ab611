package model

import (
	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/latlon"
	"github.com/a-bouts/river-twin/river"
	"github.com/a-bouts/river-twin/scenario"
	"github.com/a-bouts/river-twin/voyagelog"
	"github.com/a-bouts/river-twin/wind"
)

type Ship struct {
	fleet.Ship
	Level        fleet.Level   `json:"level,omitempty"`
	Waypoint     int           `json:"waypoint"`
	WaypointName string        `json:"waypointName"`
	Position     latlon.LatLon `json:"position"`
	Heading      float64       `json:"heading"`
	Remaining    float64       `json:"remaining"`
}

type Dashboard struct {
	Session     string       `json:"session"`
	Scenario    string       `json:"scenario"`
	Hour        int          `json:"hour"`
	Wind        wind.Reading `json:"wind"`
	ActiveShips int          `json:"activeShips"`
	Ships       []Ship       `json:"ships"`
}

type StepRequest struct {
	// WindSpeed overrides the station reading for this step, in km/h.
	WindSpeed *float64 `json:"windSpeed"`
}

type Leg struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Length float64 `json:"length"`
}

type River struct {
	Name      string                `json:"name"`
	Waypoints []river.Waypoint      `json:"waypoints"`
	Legs      []Leg                 `json:"legs"`
	Length    float64               `json:"length"`
	Mercator  []river.MercatorPoint `json:"mercator"`
	View      scenario.View         `json:"view"`
}

type Log struct {
	Session string            `json:"session"`
	Steps   []voyagelog.Entry `json:"steps"`
}
