package scenario

import (
	"errors"
	"fmt"

	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/latlon"
	"github.com/a-bouts/river-twin/river"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("invalid scenario")

type waypointDef struct {
	Name string  `mapstructure:"name"`
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
}

type shipDef struct {
	Name     string  `mapstructure:"name"`
	Category string  `mapstructure:"category"`
	Progress float64 `mapstructure:"progress"`
	Color    string  `mapstructure:"color"`
}

type viewDef struct {
	Lat  float64 `mapstructure:"lat"`
	Lon  float64 `mapstructure:"lon"`
	Zoom int     `mapstructure:"zoom"`
}

type file struct {
	Name  string        `mapstructure:"name"`
	Path  []waypointDef `mapstructure:"path"`
	Ships []shipDef     `mapstructure:"ships"`
	View  *viewDef      `mapstructure:"view"`
}

const DefaultZoom = 10

// View is where a map of the scenario opens.
type View struct {
	Center latlon.LatLon `json:"center"`
	Zoom   int           `json:"zoom"`
}

// Scenario is the river path and the fleet every session starts with.
type Scenario struct {
	Name  string
	Path  river.Path
	View  View
	ships []fleet.Ship
}

// Ships returns a fresh copy of the seed fleet.
func (s Scenario) Ships() []fleet.Ship {
	ships := make([]fleet.Ship, len(s.ships))
	copy(ships, s.ships)
	return ships
}

func Default() Scenario {
	return Scenario{
		Name:  "scheldt",
		Path:  river.Scheldt(),
		View:  View{Center: latlon.LatLon{Lat: 51.35, Lon: 4.00}, Zoom: DefaultZoom},
		ships: fleet.Seed(),
	}
}

// Load reads a scenario file. The format follows the file extension
// (json, yaml, toml). An empty name returns the default Scheldt scenario.
func Load(name string) (Scenario, error) {
	if name == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(name)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", name, err)
	}

	var f file
	if err := v.Unmarshal(&f); err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario %s: %w", name, err)
	}
	return f.build()
}

func (f file) build() (Scenario, error) {
	s := Scenario{Name: f.Name}

	if len(f.Path) == 0 {
		s.Path = river.Scheldt()
		s.View = Default().View
	} else {
		wps := make([]river.Waypoint, len(f.Path))
		for i, w := range f.Path {
			wps[i] = river.Waypoint{Name: w.Name, LatLon: latlon.LatLon{Lat: w.Lat, Lon: w.Lon}}
		}
		p, err := river.New(wps)
		if err != nil {
			return Scenario{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		s.Path = p
		s.View = View{Center: p.Center(), Zoom: DefaultZoom}
	}

	if f.View != nil {
		s.View.Center = latlon.LatLon{Lat: f.View.Lat, Lon: f.View.Lon}
		if f.View.Zoom > 0 {
			s.View.Zoom = f.View.Zoom
		}
	}

	ships := make([]fleet.Ship, len(f.Ships))
	for i, d := range f.Ships {
		ships[i] = fleet.Ship{
			Name:     d.Name,
			Category: fleet.Category(d.Category),
			Progress: d.Progress,
			Color:    d.Color,
		}
	}
	if len(ships) == 0 {
		ships = fleet.Seed()
	}

	seen := make(map[string]bool)
	for _, sh := range ships {
		if sh.Name == "" {
			return Scenario{}, fmt.Errorf("%w: ship without a name", ErrInvalid)
		}
		if seen[sh.Name] {
			return Scenario{}, fmt.Errorf("%w: duplicate ship %q", ErrInvalid, sh.Name)
		}
		seen[sh.Name] = true
		if sh.Progress < 0 || sh.Progress >= float64(s.Path.Len()-1) {
			return Scenario{}, fmt.Errorf("%w: ship %q progress %.2f outside [0, %d)", ErrInvalid, sh.Name, sh.Progress, s.Path.Len()-1)
		}
	}
	s.ships = ships
	return s, nil
}
