package wind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultOpenMeteoURL = "https://api.open-meteo.com"

// OpenMeteo reads the current 10 m wind speed from the Open-Meteo forecast API.
type OpenMeteo struct {
	BaseURL string
	Lat     float64
	Lon     float64
	Client  *http.Client
}

func NewOpenMeteo(baseURL string, lat, lon float64) *OpenMeteo {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteo{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Lat:     lat,
		Lon:     lon,
		Client:  &http.Client{},
	}
}

func (o *OpenMeteo) Name() string {
	return "openmeteo"
}

type forecast struct {
	Current *struct {
		WindSpeed10m *float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (o *OpenMeteo) url() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(o.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(o.Lon, 'f', -1, 64))
	q.Set("current", "wind_speed_10m")
	return o.BaseURL + "/v1/forecast?" + q.Encode()
}

func (o *OpenMeteo) Speed(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url(), nil)
	if err != nil {
		return 0, fmt.Errorf("building open-meteo request: %w", err)
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("open-meteo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
	}

	var f forecast
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return 0, fmt.Errorf("decoding open-meteo response: %w", err)
	}
	if f.Current == nil || f.Current.WindSpeed10m == nil {
		return 0, fmt.Errorf("open-meteo response has no current.wind_speed_10m")
	}
	return *f.Current.WindSpeed10m, nil
}
