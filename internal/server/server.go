package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pfrederiksen/gacor/internal/game"
	"github.com/pfrederiksen/gacor/internal/logger"
	"github.com/pfrederiksen/gacor/internal/metrics"
	"github.com/pfrederiksen/gacor/internal/provider"
	"github.com/pfrederiksen/gacor/internal/scraper"
)

// Scraper fetches and extracts one provider's tiles.
type Scraper interface {
	ScrapeProvider(ctx context.Context, p provider.Config) (*scraper.Result, error)
}

// Server handles HTTP requests.
type Server struct {
	scraper Scraper
	log     *logger.Logger
	mux     *http.ServeMux
	now     func() time.Time
}

// New creates a Server backed by s. A nil log selects the package default.
func New(s Scraper, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	srv := &Server{
		scraper: s,
		log:     log,
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/gacor", s.handleGacor)
	s.mux.HandleFunc("/{$}", s.handleGacor)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped with OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s, "gacor")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cacheNoStore, map[string]bool{"ok": true})
}

func (s *Server) handleGacor(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodHead:
	default:
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, "")
		return
	}

	key := strings.ToLower(r.URL.Query().Get("provider"))
	if key == "" {
		key = provider.AllKey
	}

	status, count := s.serveProvider(w, r, key)

	metrics.RecordRequest(metricLabel(key), strconv.Itoa(status))
	s.log.Info("request served", logger.Fields{
		"provider":    key,
		"status":      status,
		"count":       count,
		"duration_ms": s.now().Sub(start).Milliseconds(),
	})
}

// serveProvider writes the response for key and returns the status code and the
// number of items sent. A panic is converted into the 500 envelope.
func (s *Server) serveProvider(w http.ResponseWriter, r *http.Request, key string) (status, count int) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			s.log.Error("request panicked", logger.Fields{"provider": key}, err)
			writeError(w, http.StatusInternalServerError, msgFetchFailed, err.Error())
			status, count = http.StatusInternalServerError, 0
		}
	}()

	if key == provider.ListKey {
		writeJSON(w, http.StatusOK, cacheProviders, ProvidersResponse{
			OK:        true,
			Providers: ProviderEntries(provider.List()),
		})
		return http.StatusOK, 0
	}

	cfg := provider.Resolve(key)

	if key == provider.AllKey {
		writeJSON(w, http.StatusOK, cacheNoStore, AllClientResponse{
			OK:      true,
			Mode:    modeAllClient,
			Message: msgAllClient,
		})
		return http.StatusOK, 0
	}

	if !cfg.Fetchable() {
		writeError(w, http.StatusBadRequest, msgInvalidProvider, "")
		return http.StatusBadRequest, 0
	}

	res, err := s.scraper.ScrapeProvider(r.Context(), cfg)
	if err != nil {
		s.log.Error("scrape failed", logger.Fields{"provider": key, "source": cfg.URL}, err)
		writeError(w, http.StatusInternalServerError, msgFetchFailed, err.Error())
		return http.StatusInternalServerError, 0
	}

	items := res.Items
	if items == nil {
		items = []game.Record{}
	}

	writeJSON(w, http.StatusOK, cacheItems, ItemsResponse{
		OK:        true,
		Provider:  key,
		Label:     cfg.Label,
		Source:    cfg.URL,
		Fetched:   res.Fetched,
		UpdatedAt: formatTimestamp(s.now()),
		Count:     len(items),
		Items:     items,
	})
	return http.StatusOK, len(items)
}

// metricLabel keeps arbitrary query values out of metric labels.
func metricLabel(key string) string {
	if key == provider.ListKey {
		return key
	}
	if _, ok := provider.Lookup(key); ok {
		return key
	}
	return "unknown"
}
