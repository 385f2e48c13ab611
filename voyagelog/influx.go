package voyagelog

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/a-bouts/river-twin/fleet"
)

// Influx writes one point per ship and one wind point per step.
type Influx struct {
	client influxdb2.Client
	writer influxdb2_api.WriteAPIBlocking
}

func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	return &Influx{
		client: client,
		writer: client.WriteAPIBlocking(org, bucket),
	}
}

func points(e Entry) []*write.Point {
	pts := []*write.Point{
		influxdb2.NewPoint("wind",
			map[string]string{"session": e.Session, "source": e.Source},
			map[string]interface{}{"speed": e.Wind, "fallback": e.Fallback, "hour": e.Hour},
			e.At),
	}
	for _, s := range e.Ships {
		pts = append(pts, influxdb2.NewPoint("ship",
			map[string]string{
				"session":  e.Session,
				"ship":     s.Name,
				"category": string(s.Category),
				"level":    string(fleet.LevelOf(s.Status)),
			},
			map[string]interface{}{"progress": s.Progress, "status": s.Status, "hour": e.Hour},
			e.At))
	}
	return pts
}

func (i *Influx) Record(ctx context.Context, e Entry) error {
	if err := i.writer.WritePoint(ctx, points(e)...); err != nil {
		return fmt.Errorf("writing influx points: %w", err)
	}
	return nil
}

func (i *Influx) History(context.Context, string, int) ([]Entry, error) {
	return nil, ErrUnsupported
}

func (i *Influx) Close() error {
	i.client.Close()
	return nil
}
