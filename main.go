package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/river-twin/api"
	"github.com/a-bouts/river-twin/scenario"
	"github.com/a-bouts/river-twin/session"
	"github.com/a-bouts/river-twin/voyagelog"
	"github.com/a-bouts/river-twin/wind"
	"github.com/a-bouts/river-twin/xmpp"
)

type windConfig struct {
	source   string
	url      string
	lat      float64
	lon      float64
	gribFile string
	fixed    float64
}

func newProvider(c windConfig) (wind.Provider, error) {
	switch c.source {
	case "openmeteo":
		return wind.NewOpenMeteo(c.url, c.lat, c.lon), nil
	case "grib":
		if c.gribFile == "" {
			return nil, errors.New("grib wind source needs a file")
		}
		return wind.Grib{File: c.gribFile, Lat: c.lat, Lon: c.lon}, nil
	case "fixed":
		return wind.Fixed(c.fixed), nil
	}
	return nil, fmt.Errorf("unknown wind source: %s", c.source)
}

func main() {

	fs := flag.NewFlagSet("river-twin", flag.ExitOnError)
	var (
		listen         = fs.String("listen", ":8888", "http listen address")
		logLevel       = fs.String("log-level", "info", "log level")
		logJson        = fs.Bool("log-json", false, "log as json")
		graylogAddress = fs.String("graylog-address", "", "graylog GELF udp address")
		scenarioFile   = fs.String("scenario", "", "scenario file (yaml, json or toml)")
		windSource     = fs.String("wind-source", "openmeteo", "wind source: openmeteo, grib or fixed")
		windUrl        = fs.String("wind-url", wind.DefaultOpenMeteoURL, "open-meteo base url")
		windLat        = fs.Float64("wind-lat", 51.2194, "wind latitude")
		windLon        = fs.Float64("wind-lon", 4.4025, "wind longitude")
		windGribFile   = fs.String("wind-grib-file", "", "grib2 file for the grib wind source")
		windFixed      = fs.Float64("wind-fixed", 0, "wind speed for the fixed wind source (km/h)")
		windFallback   = fs.Float64("wind-fallback", wind.DefaultFallback, "wind speed used when the source fails (km/h)")
		windTimeout    = fs.Duration("wind-timeout", wind.DefaultTimeout, "wind fetch timeout")
		windRefresh    = fs.Duration("wind-refresh", 15*time.Minute, "wind refresh interval")
		sessionIdle    = fs.Duration("session-idle", 24*time.Hour, "idle sessions are removed after this delay")
		logStore       = fs.String("log-store", "memory", "step log store: memory, sqlite, postgres or none")
		logDsn         = fs.String("log-dsn", "", "step log sqlite file or postgres dsn")
		influxUrl      = fs.String("influx-url", "", "")
		influxToken    = fs.String("influx-token", "", "")
		influxOrg      = fs.String("influx-org", "", "")
		influxBucket   = fs.String("influx-bucket", "", "")
		xmppHost       = fs.String("xmpp-host", "", "")
		xmppJid        = fs.String("xmpp-jid", "", "")
		xmppPassword   = fs.String("xmpp-password", "", "")
		xmppTo         = fs.String("xmpp-to", "", "")
		cpuprofile     = fs.Bool("cpuprofile", false, "profile steps")
		_              = fs.String("config", "", "json config file")
	)
	ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarNoPrefix(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
	)

	closer, err := initLogger(loggerConfig{level: *logLevel, json: *logJson, graylog: *graylogAddress})
	if err != nil {
		log.Fatal(err)
	}
	if closer != nil {
		defer closer.Close()
	}

	sc, err := scenario.Load(*scenarioFile)
	if err != nil {
		log.WithError(err).Fatal("Error loading scenario")
	}
	log.WithField("scenario", sc.Name).Infof("Loaded %d waypoints and %d ships", sc.Path.Len(), len(sc.Ships()))

	provider, err := newProvider(windConfig{
		source:   *windSource,
		url:      *windUrl,
		lat:      *windLat,
		lon:      *windLon,
		gribFile: *windGribFile,
		fixed:    *windFixed,
	})
	if err != nil {
		log.Fatal(err)
	}

	station := wind.NewStation(provider, *windFallback, *windTimeout)
	station.Refresh(context.Background())
	station.Start(*windRefresh)
	defer station.Stop()

	recorder, err := voyagelog.New(voyagelog.Config{
		Store:        *logStore,
		DSN:          *logDsn,
		InfluxURL:    *influxUrl,
		InfluxToken:  *influxToken,
		InfluxOrg:    *influxOrg,
		InfluxBucket: *influxBucket,
	})
	if err != nil {
		log.WithError(err).Fatal("Error opening step log")
	}
	defer recorder.Close()

	store := session.NewStore(sc)

	s := gocron.NewScheduler()
	s.Every(uint64(time.Minute / time.Second)).Seconds().Do(func() {
		if n := store.Sweep(*sessionIdle); n > 0 {
			log.Infof("Removed %d idle sessions", n)
		}
	})
	stopSweep := s.Start()
	defer close(stopSweep)

	x := xmpp.Xmpp{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}
	if !x.Enabled() {
		log.Info("Xmpp alerts disabled")
	}

	router, err := api.InitServer(*cpuprofile, store, station, recorder, x)
	if err != nil {
		log.Fatal(err)
	}

	accessLog := log.StandardLogger().Writer()
	defer accessLog.Close()

	srv := &http.Server{
		Addr: *listen,
		Handler: handlers.CORS(
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(handlers.CombinedLoggingHandler(accessLog, router)),
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Infof("Start server on %s", *listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
