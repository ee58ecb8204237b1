// HTTP server for the journey browser, the dashboard and the JSON API
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nainya/journeylens/internal/logger"
	"github.com/nainya/journeylens/internal/metrics"
	"github.com/nainya/journeylens/pkg/decision"
	"github.com/nainya/journeylens/pkg/journey"
	"github.com/nainya/journeylens/pkg/query"
	"github.com/nainya/journeylens/pkg/session"
)

// HTTPServer serves the two views and the JSON API
type HTTPServer struct {
	server  *http.Server
	svc     *Service
	views   *template.Template
	root    *logger.Logger // per-route request loggers derive from it
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewHTTPServer creates the application HTTP server
func NewHTTPServer(addr string, svc *Service, log *logger.Logger, m *metrics.Metrics) (*HTTPServer, error) {
	views, err := parseViews()
	if err != nil {
		return nil, fmt.Errorf("parse views: %w", err)
	}

	h := &HTTPServer{svc: svc, views: views, root: log, log: log.Component("http"), metrics: m}

	mux := http.NewServeMux()
	h.handle(mux, "GET /{$}", h.handleJourney)
	h.handle(mux, "GET /dashboard", h.handleDashboard)
	h.handle(mux, "GET /api/episodes", h.handleEpisodes)
	h.handle(mux, "GET /api/episodes/{index}/chats", h.handleEpisodeChats)
	h.handle(mux, "GET /api/dashboard", h.handleDashboardJSON)
	h.handle(mux, "GET /api/decisions/{id}", h.handleDecision)
	h.handle(mux, "GET /api/chats", h.handleChats)

	h.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return h, nil
}

// Handler returns the root handler
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}

// Serve accepts connections on l until Shutdown
func (h *HTTPServer) Serve(l net.Listener) error {
	h.log.LogServerReady("http", l.Addr().String())
	if err := h.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (h *HTTPServer) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// handle registers fn with request id, access logging and metrics
func (h *HTTPServer) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	route := strings.TrimSuffix(strings.TrimPrefix(pattern, "GET "), "{$}")
	reqLog := h.root.HTTPLogger(route)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.metrics.HTTPRequestsInFlight.Inc()
		defer h.metrics.HTTPRequestsInFlight.Dec()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)

		duration := time.Since(start)
		h.metrics.RecordHTTPRequest(route, rec.status, duration)
		reqLog.LogHTTPRequest(r.Method, requestID, rec.status, duration)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, journey.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journey.ErrDataFormat), errors.Is(err, journey.ErrLoad):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ========== Views ==========

func (h *HTTPServer) handleJourney(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.NewSession()
	q := r.URL.Query()

	if v := q.Get("episode"); v != "" {
		index, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "episode must be a number", http.StatusBadRequest)
			return
		}
		if err := sess.SelectEpisode(index); err != nil {
			http.Error(w, "episode not found", http.StatusNotFound)
			return
		}
		if sess.View().DateError != nil {
			h.metrics.RecordEpisodeSelection("date_error")
		} else {
			h.metrics.RecordEpisodeSelection("ok")
		}

		if id := q.Get("decision"); id != "" {
			h.openDecision(r.Context(), sess, id)
		}
	}

	h.render(w, "journey", newJourneyPage(h.svc, sess.View()))
}

// openDecision behaves like clicking the message that carries id. Failures
// leave the modal closed; the session logs them.
func (h *HTTPServer) openDecision(ctx context.Context, sess *session.Session, id string) {
	for _, c := range sess.View().Chats {
		if cid, ok := decision.ExtractID(c.Text); ok && cid == id {
			<-sess.OpenDecision(ctx, c.Text)
			return
		}
	}
	h.log.Warn("Decision is not referenced by the selected episode").Str("decision_id", id).Send()
}

func (h *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard", newDashboardPage(h.svc.Dashboard()))
}

func (h *HTTPServer) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("Template rendering failed").Str("view", name).Err(err).Send()
	}
}

// ========== JSON API ==========

func (h *HTTPServer) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Episodes())
}

func (h *HTTPServer) handleEpisodeChats(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("index must be a number"))
		return
	}

	result, err := h.svc.EpisodeChats(index)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HTTPServer) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Dashboard())
}

func (h *HTTPServer) handleDecision(w http.ResponseWriter, r *http.Request) {
	trace, err := h.svc.Decision(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, trace)
}

func (h *HTTPServer) handleChats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b := query.NewBuilder().
		Sender(q.Get("sender")).
		Role(q.Get("role")).
		Keyword(q.Get("q"))
	if q.Get("team") == "true" {
		b.TeamOnly()
	}
	if q.Get("decisions") == "true" {
		b.DecisionsOnly()
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative number"))
			return
		}
		b.Limit(limit)
	}

	writeJSON(w, http.StatusOK, h.svc.SearchChats(b.Build()))
}
