// Package voyagelog records the history of simulation steps. The log is
// an audit trail: sessions are never rebuilt from it.
package voyagelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/river-twin/fleet"
)

// ErrUnsupported is returned by recorders that cannot be queried.
var ErrUnsupported = errors.New("recorder does not support history")

type Entry struct {
	Session  string       `json:"session"`
	Hour     int          `json:"hour"`
	Wind     float64      `json:"wind"`
	Source   string       `json:"source"`
	Fallback bool         `json:"fallback"`
	Ships    []fleet.Ship `json:"ships"`
	At       time.Time    `json:"at"`
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
	// History returns the latest entries of a session, oldest first.
	History(ctx context.Context, session string, limit int) ([]Entry, error)
	Close() error
}

type Config struct {
	Store string // memory, sqlite, postgres or none
	DSN   string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
}

// New builds the recorders enabled by the configuration.
func New(cfg Config) (Recorder, error) {
	var recorders []Recorder

	switch cfg.Store {
	case "", "memory":
		r, err := OpenSqlite("")
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, r)
	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqlite log store needs a file")
		}
		r, err := OpenSqlite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, r)
	case "postgres":
		r, err := OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, r)
	case "none":
	default:
		return nil, fmt.Errorf("unknown log store: %s", cfg.Store)
	}

	if cfg.InfluxURL != "" {
		recorders = append(recorders, NewInflux(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}

	return Multi(recorders), nil
}

// Multi records to every recorder and reads history from the first one
// that supports it.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Entry) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) History(ctx context.Context, session string, limit int) ([]Entry, error) {
	for _, r := range m {
		entries, err := r.History(ctx, session, limit)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		return entries, err
	}
	return nil, ErrUnsupported
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordTimeout bounds how long RecordQuietly waits on the recorders.
var RecordTimeout = 2 * time.Second

// RecordQuietly records an entry and only logs failures, so a broken log
// store never fails a simulation step.
func RecordQuietly(ctx context.Context, r Recorder, e Entry) {
	ctx, cancel := context.WithTimeout(ctx, RecordTimeout)
	defer cancel()

	if err := r.Record(ctx, e); err != nil {
		log.WithError(err).WithField("session", e.Session).Error("Error recording step")
	}
}
