package wind

import (
	"context"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultFallback = 25.0
	DefaultTimeout  = 5 * time.Second
)

type Reading struct {
	Speed     float64   `json:"speed"`
	Source    string    `json:"source"`
	Fallback  bool      `json:"fallback"`
	FetchedAt time.Time `json:"fetchedAt"`
	Error     string    `json:"error,omitempty"`
}

// Station caches the last wind reading of a provider. A failed or slow
// fetch is replaced by the fallback speed and never reported as an error.
type Station struct {
	provider Provider
	fallback float64
	timeout  time.Duration

	lock    sync.RWMutex
	reading *Reading

	stop chan bool
}

func NewStation(p Provider, fallback float64, timeout time.Duration) *Station {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Station{
		provider: p,
		fallback: fallback,
		timeout:  timeout,
	}
}

// Refresh fetches a new reading now.
func (s *Station) Refresh(ctx context.Context) Reading {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r := Reading{Source: s.provider.Name(), FetchedAt: time.Now()}

	speed, err := s.provider.Speed(ctx)
	if err != nil {
		log.WithError(err).WithField("provider", r.Source).Warnf("Wind fetch failed, using fallback %.1f km/h", s.fallback)
		r.Speed = s.fallback
		r.Fallback = true
		r.Error = err.Error()
	} else {
		log.WithField("provider", r.Source).Debugf("Wind %.1f km/h", speed)
		r.Speed = speed
	}

	s.lock.Lock()
	s.reading = &r
	s.lock.Unlock()

	return r
}

// Current returns the cached reading, fetching one first if there is none.
func (s *Station) Current(ctx context.Context) Reading {
	s.lock.RLock()
	r := s.reading
	s.lock.RUnlock()

	if r != nil {
		return *r
	}
	return s.Refresh(ctx)
}

// Start refreshes the reading every interval until Stop is called.
func (s *Station) Start(interval time.Duration) {
	seconds := uint64(interval / time.Second)
	if seconds == 0 {
		seconds = 1
	}

	sched := gocron.NewScheduler()
	sched.Every(seconds).Seconds().Do(func() {
		s.Refresh(context.Background())
	})

	s.stop = sched.Start()
}

func (s *Station) Stop() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
