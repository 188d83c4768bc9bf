package nexus

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"strconv"
	"time"

	"github.com/DrC0ns0le/net-ping/internal/measure"
	"github.com/DrC0ns0le/net-ping/internal/measure/ping"
	"github.com/DrC0ns0le/net-ping/internal/system"
	"github.com/DrC0ns0le/net-ping/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpPort    = flag.Int("http.port", 5120, "port for http server")
	metricsPath = flag.String("http.metrics.path", "/metrics", "path for metrics server")
)

type HTTPServer struct {
	listenAddress string
	server        *http.Server
	logger        logging.Logger

	pinger  Pinger
	traffic TrafficSampler
}

type pingResponse struct {
	Target  string `json:"target"`
	Address string `json:"address"`
	RTT     int64  `json:"rtt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHTTPServer(global *system.Node) *HTTPServer {
	s := &HTTPServer{
		listenAddress: ":" + strconv.Itoa(*httpPort),
		logger:        global.Logger.With("component", "http"),
		pinger:        global.Pinger,
		traffic:       global.Traffic,
	}
	s.server = &http.Server{
		Addr:    s.listenAddress,
		Handler: s.routes(),
	}
	return s
}

func (s *HTTPServer) Start() error {
	s.logger.With("listener", s.listenAddress).Info("http server running")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop() error {
	s.logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	mux.Handle("GET /ping", http.HandlerFunc(s.handlePing))
	mux.Handle("GET /ping/{host}", http.HandlerFunc(s.handlePing))
	mux.Handle("GET /traffic", http.HandlerFunc(s.handleTraffic))
	mux.Handle(*metricsPath, promhttp.Handler())
	return mux
}

// Handlers

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	host := r.PathValue("host")
	if host == "" {
		host = r.URL.Query().Get("host")
	}

	opts, err := parseOptions(r.URL.Query().Get("count"), r.URL.Query().Get("timeout"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "InvalidOptions", Message: err.Error()})
		return
	}

	addr, err := s.pinger.Resolve(r.Context(), host)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rtt, err := s.pinger.Ping(r.Context(), addr, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pingResponse{Target: host, Address: addr, RTT: rtt})
}

func (s *HTTPServer) handleTraffic(w http.ResponseWriter, r *http.Request) {
	report, err := s.traffic.Sample(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// client went away
		return
	}
	kind := measure.KindOf(err)
	if kind == measure.UnknownError {
		s.logger.Errorf("request %s failed: %v", r.URL.Path, err)
	}
	writeJSON(w, statusFor(kind), errorResponse{Code: kind.Code(), Message: err.Error()})
}

// parseOptions reads the optional count and timeout (milliseconds) values,
// falling back to the configured defaults.
func parseOptions(count, timeout string) (ping.Options, error) {
	opts := ping.DefaultOptions()

	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n < 1 {
			return opts, errors.New("count must be a positive integer")
		}
		opts.Count = n
	}

	if timeout != "" {
		ms, err := strconv.Atoi(timeout)
		if err != nil || ms < 1 {
			return opts, errors.New("timeout must be a positive number of milliseconds")
		}
		opts.Timeout = time.Duration(ms) * time.Millisecond
	}

	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
