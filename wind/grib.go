package wind

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/nilsmagnus/grib/griblib"
)

// Grid holds the 10 m U and V wind components of one GRIB2 forecast.
type Grid struct {
	File string
	Lat0 float64
	Lon0 float64
	// ΔLat is negative when rows run from north to south.
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

func (g Grid) buildGrid(data []float64) [][]float64 {
	isContinuous := math.Floor(float64(g.NLon)*g.ΔLon) >= 360

	nLon := g.NLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, g.NLat)

	p := 0
	for j := uint32(0); j < g.NLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < g.NLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][g.NLon] = grid[j][0]
		}
	}
	return grid
}

// LoadGrid reads the 10 m wind components from a GRIB2 file.
func LoadGrid(file string) (Grid, error) {
	g := Grid{File: file}

	f, err := os.Open(file)
	if err != nil {
		return g, fmt.Errorf("opening grib file: %w", err)
	}
	defer f.Close()

	messages, err := griblib.ReadMessages(f)
	if err != nil {
		return g, fmt.Errorf("reading grib file: %w", err)
	}
	for _, message := range messages {
		if message.Section0.Discipline == uint8(0) && message.Section4.ProductDefinitionTemplate.ParameterCategory == uint8(2) && message.Section4.ProductDefinitionTemplate.FirstSurface.Type == 103 && message.Section4.ProductDefinitionTemplate.FirstSurface.Value == 10 {
			grid0, ok := message.Section3.Definition.(*griblib.Grid0)
			if !ok {
				continue
			}
			g.Lat0 = float64(grid0.La1) / 1e6
			g.Lon0 = float64(grid0.Lo1) / 1e6
			g.ΔLat = float64(grid0.Di) / 1e6
			if grid0.La2 < grid0.La1 {
				g.ΔLat = -g.ΔLat
			}
			g.ΔLon = float64(grid0.Dj) / 1e6
			g.NLat = grid0.Nj
			g.NLon = grid0.Ni
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				g.U = g.buildGrid(message.Section7.Data)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				g.V = g.buildGrid(message.Section7.Data)
			}
		}
	}
	if g.U == nil || g.V == nil {
		return g, fmt.Errorf("grib file %s has no 10 m wind components", file)
	}
	return g, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinearInterpolate(x float64, y float64, g00 []float64, g10 []float64, g01 []float64, g11 []float64) (float64, float64) {
	rx := (1 - x)
	ry := (1 - y)

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// Interpolate returns the U and V components in m/s at a point.
func (g Grid) Interpolate(lat float64, lon float64) (float64, float64, error) {
	i := (lat - g.Lat0) / g.ΔLat
	j := floorMod(lon-g.Lon0, 360.0) / g.ΔLon

	if i < 0 {
		return 0, 0, fmt.Errorf("point (%f,%f) is outside the grib grid", lat, lon)
	}

	fi := uint32(i)
	fj := uint32(j)

	if int(fi)+1 >= len(g.U) || int(fj)+1 >= len(g.U[fi]) {
		return 0, 0, fmt.Errorf("point (%f,%f) is outside the grib grid", lat, lon)
	}

	u00 := g.U[fi][fj]
	v00 := g.V[fi][fj]

	u01 := g.U[fi+1][fj]
	v01 := g.V[fi+1][fj]

	u10 := g.U[fi][fj+1]
	v10 := g.V[fi][fj+1]

	u11 := g.U[fi+1][fj+1]
	v11 := g.V[fi+1][fj+1]

	u, v := bilinearInterpolate(j-float64(fj), i-float64(fi), []float64{u00, v00}, []float64{u10, v10}, []float64{u01, v01}, []float64{u11, v11})

	return u, v, nil
}

// SpeedAt returns the interpolated wind speed in km/h.
func (g Grid) SpeedAt(lat, lon float64) (float64, error) {
	u, v, err := g.Interpolate(lat, lon)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(u*u+v*v) * msToKmh, nil
}

// Grib reads the wind speed at a point from a local GRIB2 file. The file is
// re-read on every call so an external downloader can replace it.
type Grib struct {
	File string
	Lat  float64
	Lon  float64
}

func (g Grib) Name() string {
	return "grib"
}

func (g Grib) Speed(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	grid, err := LoadGrid(g.File)
	if err != nil {
		return 0, err
	}
	return grid.SpeedAt(g.Lat, g.Lon)
}
