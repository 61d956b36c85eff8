// Package http exposes the guide service over HTTP. The transport layer
// only encodes and decodes: all domain behavior lives behind
// fixhub.GuideService, and typed failures map onto status codes here.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/fixhub"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the guide API over HTTP.
type Server struct {
	ln      net.Listener
	server  *http.Server
	handler http.Handler

	// Addr is the bind address, set before calling Open.
	Addr string

	service fixhub.GuideService
	logger  *slog.Logger
}

// NewServer creates a Server around the given service.
func NewServer(service fixhub.GuideService, logger *slog.Logger) *Server {
	s := &Server{
		server:  &http.Server{},
		service: service,
		logger:  logger,
	}

	router := http.NewServeMux()
	router.HandleFunc("GET /health", s.handleHealth)
	router.HandleFunc("GET /search", s.handleSearch)
	router.HandleFunc("GET /guides/{id}", s.handleGuide)
	router.HandleFunc("POST /summarize", s.handleSummarize)
	router.HandleFunc("GET /popular", s.handlePopular)

	s.handler = requestID(logRequests(logger, router))
	s.server.Handler = s.handler
	return s
}

// ServeHTTP implements http.Handler, including the middleware chain.
// Used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Open begins listening on Addr. It returns immediately; requests are
// served on a background goroutine.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server", "error", err)
		}
	}()
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the server's base URL once open.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": Version,
	})
}

// searchResponse is the payload for GET /search.
type searchResponse struct {
	Query   string                  `json:"query"`
	Total   int                     `json:"totalResults"`
	Results []fixhub.GuideReference `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := fixhub.SearchQuery{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fixhub.Errorf(fixhub.EINVALID, "limit must be an integer"))
			return
		}
		q.MaxResults = n
	}

	refs, err := s.service.SearchGuides(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if refs == nil {
		refs = []fixhub.GuideReference{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q.Query, Total: len(refs), Results: refs})
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	guide, err := s.service.FindGuideByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guide)
}

// summarizeRequest is the payload for POST /summarize.
type summarizeRequest struct {
	GuideID  string          `json:"guideId"`
	Audience fixhub.Audience `json:"audience"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fixhub.Errorf(fixhub.EINVALID, "invalid request body"))
		return
	}
	if req.GuideID == "" {
		s.writeError(w, r, fixhub.Errorf(fixhub.EINVALID, "guideId required"))
		return
	}

	summary, err := s.service.SummarizeGuide(r.Context(), req.GuideID, req.Audience)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// popularDevices are curated suggestions for clients with no query yet.
var popularDevices = map[string][]string{
	"smartphones": {"iPhone 14", "iPhone 13", "Samsung Galaxy S23", "Google Pixel 8"},
	"laptops":     {"MacBook Pro", "MacBook Air", "Dell XPS", "Lenovo ThinkPad"},
	"gaming":      {"PlayStation 5", "Xbox Series X", "Nintendo Switch"},
	"tablets":     {"iPad", "iPad Pro", "Samsung Galaxy Tab"},
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": popularDevices})
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := fixhub.ErrorCode(err)
	status := statusFromCode(code)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: fixhub.ErrorMessage(err)})
}

// statusFromCode maps domain error codes onto HTTP statuses.
func statusFromCode(code string) int {
	switch code {
	case fixhub.EINVALID:
		return http.StatusBadRequest
	case fixhub.ENOTFOUND:
		return http.StatusNotFound
	case fixhub.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	case fixhub.EUPSTREAM, fixhub.EMALFORMED:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
