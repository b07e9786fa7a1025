package chat

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/petasbytes/datagen-agent/internal/metrics"
	"github.com/petasbytes/datagen-agent/internal/persona"
	"github.com/petasbytes/datagen-agent/memory"
)

//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 5 * time.Minute
)

type chatRequest struct {
	Message string        `json:"message"`
	History []memory.Turn `json:"history"`
}

type chatResponse struct {
	Reply   string        `json:"reply"`
	History []memory.Turn `json:"history"`
}

// Server serves the chat page and JSON API. It keeps no conversation state;
// clients send their history with every message.
type Server struct {
	surface *Surface
	persona persona.Persona
	logger  logrus.FieldLogger
	router  *chi.Mux
}

func NewServer(surface *Surface, p persona.Persona, logger logrus.FieldLogger) *Server {
	s := &Server{surface: surface, persona: p, logger: logger}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/", s.handlePage)
		r.Get("/api/examples", s.handleExamples)
		r.Post("/api/chat", s.handleChat)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, s.persona); err != nil {
		s.logger.WithError(err).Error("render chat page")
	}
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	examples := s.persona.Examples
	if examples == nil {
		examples = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"examples": examples})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.History == nil {
		req.History = []memory.Turn{}
	}

	history := s.surface.Submit(r.Context(), req.Message, req.History)

	resp := chatResponse{History: history}
	if len(history) > len(req.History) {
		resp.Reply = history[len(history)-1].Assistant
	}
	respondJSON(w, http.StatusOK, resp)
}

// requestLogger logs method, route and status; bodies are never logged.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  middleware.GetReqID(r.Context()),
		}).Info("http request")
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
