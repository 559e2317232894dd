package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/ChristopherRabotin/shaping"
	kitlog "github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	addr string

	solveCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shapesrv_solves_total",
		Help: "Number of shape solve requests, by outcome.",
	}, []string{"outcome"})
	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shapesrv_solve_duration_seconds",
		Help:    "Wall time of shape solves.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	flag.StringVar(&addr, "addr", ":8778", "listen address")
}

// solveRequest is the JSON body of a solve call. States are heliocentric
// Cartesian, km and km/s.
type solveRequest struct {
	InitialState []float64 `json:"initialState"`
	FinalState   []float64 `json:"finalState"`
	TOFDays      float64   `json:"tofDays"`
	Revolutions  int       `json:"revolutions"`
	Body         string    `json:"body"`
	Epoch        string    `json:"epoch"` // RFC 3339; defaults to now
}

type solveResponse struct {
	DeltaV           float64 `json:"deltaV"`
	TOFDays          float64 `json:"tofDays"`
	FreeCoefficient  float64 `json:"freeCoefficient"`
	TravelledAzimuth float64 `json:"travelledAzimuth"`
	HohmannDeltaV    float64 `json:"hohmannDeltaV"`
}

type server struct {
	logger kitlog.Logger
	cfg    shaping.ShapeConfig
}

func (s *server) solve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		solveCount.WithLabelValues("badrequest").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Body == "" {
		req.Body = "sun"
	}
	body, err := shaping.CelestialObjectFromString(req.Body)
	if err != nil {
		solveCount.WithLabelValues("badrequest").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	epoch := time.Now().UTC()
	if req.Epoch != "" {
		epoch, err = time.Parse(time.RFC3339, req.Epoch)
		if err != nil {
			solveCount.WithLabelValues("badrequest").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	tof := time.Duration(req.TOFDays*86400) * time.Second
	shape, err := shaping.NewSphericalShaping(req.InitialState, req.FinalState, tof, req.Revolutions, body, epoch, s.cfg)
	if err != nil {
		solveCount.WithLabelValues("infeasible").Inc()
		s.logger.Log("level", "warning", "status", "solve failed", "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	Δv, err := shape.DeltaV()
	if err != nil {
		solveCount.WithLabelValues("infeasible").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	rI := norm(req.InitialState[:3])
	rF := norm(req.FinalState[:3])
	resp := solveResponse{
		DeltaV:           Δv,
		TOFDays:          req.TOFDays,
		FreeCoefficient:  shape.FreeCoefficient(),
		TravelledAzimuth: shape.TravelledAzimuthAngle(),
		HohmannDeltaV:    shaping.HohmannDeltaV(rI, rF, body),
	}
	solveCount.WithLabelValues("ok").Inc()
	solveDuration.Observe(time.Since(start).Seconds())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
	s.logger.Log("level", "info", "status", "solved", "Δv(km/s)", Δv, "tof(days)", req.TOFDays, "duration", time.Since(start))
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "subsys", "shapesrv")

	srv := &server{logger: logger, cfg: shaping.DefaultShapeConfig()}

	router := mux.NewRouter()
	router.HandleFunc("/solve", srv.solve).Methods(http.MethodPost)
	router.HandleFunc("/health", srv.health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	logger.Log("level", "notice", "status", "listening", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}
}
