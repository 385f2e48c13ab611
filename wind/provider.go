package wind

import "context"

// Provider reports the current wind speed in km/h.
type Provider interface {
	Speed(ctx context.Context) (float64, error)
	Name() string
}

// Fixed always reports the same speed.
type Fixed float64

func (f Fixed) Speed(context.Context) (float64, error) {
	return float64(f), nil
}

func (f Fixed) Name() string {
	return "fixed"
}

// msToKmh converts m/s to km/h.
const msToKmh = 3.6
