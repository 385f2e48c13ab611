package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/a-bouts/river-twin/api/model"
	"github.com/a-bouts/river-twin/fleet"
	"github.com/a-bouts/river-twin/session"
	"github.com/a-bouts/river-twin/voyagelog"
	"github.com/a-bouts/river-twin/wind"
)

const instrumentationName = "github.com/a-bouts/river-twin/api"

// Alerter is told about ships halted by a step.
type Alerter interface {
	AlertHalted(hour int, windSpeed float64, halted []fleet.Ship)
}

type server struct {
	cpuprofile  bool
	profileLock sync.Mutex

	store    *session.Store
	station  *wind.Station
	recorder voyagelog.Recorder
	alerter  Alerter

	steps metric.Int64Counter
}

func InitServer(cpuprofile bool, store *session.Store, station *wind.Station, recorder voyagelog.Recorder, alerter Alerter) (*mux.Router, error) {
	s := &server{
		cpuprofile: cpuprofile,
		store:      store,
		station:    station,
		recorder:   recorder,
		alerter:    alerter,
	}

	m := otel.Meter(instrumentationName)
	var err error
	s.steps, err = m.Int64Counter("twin.steps", metric.WithDescription("Simulation steps taken"))
	if err != nil {
		return nil, fmt.Errorf("creating steps counter: %w", err)
	}
	_, err = m.Int64ObservableGauge("twin.sessions",
		metric.WithDescription("Open simulation sessions"),
		metric.WithInt64Callback(s.observeSessions),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions gauge: %w", err)
	}

	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/twin/-/healthz", s.healthz).Methods(http.MethodGet).Name("healthz")

	apiV1 := router.PathPrefix("/twin/api/v1").Subrouter()
	apiV1.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost).Name("createSession")
	apiV1.HandleFunc("/sessions/{id}", s.getSession).Methods(http.MethodGet).Name("getSession")
	apiV1.HandleFunc("/sessions/{id}", s.deleteSession).Methods(http.MethodDelete).Name("deleteSession")
	apiV1.HandleFunc("/sessions/{id}/step", s.step).Methods(http.MethodPost).Name("step")
	apiV1.HandleFunc("/sessions/{id}/map", s.sessionMap).Methods(http.MethodGet).Name("sessionMap")
	apiV1.HandleFunc("/sessions/{id}/log", s.sessionLog).Methods(http.MethodGet).Name("sessionLog")
	apiV1.HandleFunc("/wind", s.wind).Methods(http.MethodGet).Name("wind")
	apiV1.HandleFunc("/wind/refresh", s.refreshWind).Methods(http.MethodPost).Name("refreshWind")
	apiV1.HandleFunc("/river", s.river).Methods(http.MethodGet).Name("river")

	return router, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	type errorResult struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errorResult{Error: err.Error()})
}

// observeSessions reads the live store, so sessions removed by the idle
// sweep are counted too.
func (s *server) observeSessions(_ context.Context, o metric.Int64Observer) error {
	o.Observe(int64(s.store.Len()))
	return nil
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	writeJSON(w, http.StatusOK, health{Status: "Ok"})
}

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	id, state := s.store.Create()

	requestLogger(r).WithField("session", id).Info("Session created")

	sc := s.store.Scenario()
	writeJSON(w, http.StatusCreated, dashboard(id, sc.Name, sc.Path, state, s.station.Current(r.Context())))
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	sc := s.store.Scenario()
	writeJSON(w, http.StatusOK, dashboard(id, sc.Name, sc.Path, state, s.station.Current(r.Context())))
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) step(w http.ResponseWriter, r *http.Request) {
	if s.cpuprofile {
		s.profileLock.Lock()
		defer s.profileLock.Unlock()
		defer profile.Start(profile.Quiet, profile.NoShutdownHook).Stop()
	}

	id := mux.Vars(r)["id"]

	var req model.StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid step request: %w", err))
		return
	}

	var reading wind.Reading
	if req.WindSpeed != nil {
		reading = wind.Reading{Speed: *req.WindSpeed, Source: "manual", FetchedAt: time.Now()}
	} else {
		reading = s.station.Current(r.Context())
	}

	start := time.Now()
	state, halted, err := s.store.Step(id, reading.Speed)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	requestLogger(r).WithFields(log.Fields{
		"session": id,
		"hour":    state.Hour,
		"halted":  len(halted),
	}).Infof("Step at %.1f km/h (%s) took %s", reading.Speed, reading.Source, time.Since(start))

	s.steps.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("source", reading.Source),
		attribute.Bool("fallback", reading.Fallback),
	))

	voyagelog.RecordQuietly(r.Context(), s.recorder, voyagelog.Entry{
		Session:  id,
		Hour:     state.Hour,
		Wind:     reading.Speed,
		Source:   reading.Source,
		Fallback: reading.Fallback,
		Ships:    state.Ships,
		At:       time.Now(),
	})

	if len(halted) > 0 && s.alerter != nil {
		go s.alerter.AlertHalted(state.Hour, reading.Speed, halted)
	}

	sc := s.store.Scenario()
	writeJSON(w, http.StatusOK, dashboard(id, sc.Name, sc.Path, state, reading))
}

func (s *server) sessionMap(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	state, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	fc, err := mapFeatures(s.store.Scenario(), state)
	if err != nil {
		log.WithError(err).Error("Error building map")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(fc)
}

func (s *server) sessionLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.Get(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", l))
			return
		}
	}

	entries, err := s.recorder.History(r.Context(), id, limit)
	if errors.Is(err, voyagelog.ErrUnsupported) {
		writeError(w, http.StatusNotImplemented, err)
		return
	}
	if err != nil {
		log.WithError(err).WithField("session", id).Error("Error reading step log")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, model.Log{Session: id, Steps: entries})
}

func (s *server) wind(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.station.Current(r.Context()))
}

func (s *server) refreshWind(w http.ResponseWriter, r *http.Request) {
	reading := s.station.Refresh(r.Context())
	requestLogger(r).Infof("Wind refreshed: %.1f km/h (%s)", reading.Speed, reading.Source)
	writeJSON(w, http.StatusOK, reading)
}

func (s *server) river(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, riverView(s.store.Scenario()))
}

func requestLogger(r *http.Request) *log.Entry {
	fields := log.Fields{
		"action": mux.CurrentRoute(r).GetName(),
	}
	if ip, err := getIp(r); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
