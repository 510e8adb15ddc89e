// Package feed serves task records over HTTP for the board to load.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/models"
)

// TasksPath is the route serving the record array.
const TasksPath = "/tasks.json"

// Server serves a record set. Records are replaced wholesale on reload,
// never edited in place.
type Server struct {
	mu        sync.RWMutex
	tasks     []models.Task
	source    string
	startedAt time.Time

	httpServer *http.Server
	listener   net.Listener
	port       int
}

// New creates a server holding tasks. source, when set, is the record file
// that Reload reads.
func New(tasks []models.Task, source string) *Server {
	s := &Server{source: source, startedAt: time.Now().UTC()}
	s.SetTasks(tasks)
	return s
}

// Listen binds host:port. Pass port 0 for dynamic allocation.
func (s *Server) Listen(host string, port int) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve blocks until Stop is called.
func (s *Server) Serve() error {
	if s.httpServer == nil {
		return errors.New("feed: Serve called before Listen")
	}
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting up to five seconds for requests.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("[feed] shutdown: %v", err)
	}
}

// SetTasks replaces the served record set.
func (s *Server) SetTasks(tasks []models.Task) {
	cp := make([]models.Task, len(tasks))
	for i, t := range tasks {
		cp[i] = t.Clone()
	}

	s.mu.Lock()
	s.tasks = cp
	s.mu.Unlock()
	RecordsAvailable.Set(float64(len(cp)))
}

// Tasks returns the current record set. Callers must not modify it.
func (s *Server) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// Reload re-reads the source file. A failed read keeps the previous records.
func (s *Server) Reload() error {
	if s.source == "" {
		return nil
	}
	tasks, err := config.LoadTaskRecords(s.source)
	if err != nil {
		Reloads.WithLabelValues("error").Inc()
		return err
	}
	s.SetTasks(tasks)
	Reloads.WithLabelValues("ok").Inc()
	log.Printf("[feed] reloaded %d records from %s", len(tasks), s.source)
	return nil
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(countRequests)

	r.Get(TasksPath, s.handleTasks)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.Tasks()
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
	RecordsServed.Add(float64(len(tasks)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"records":    len(s.Tasks()),
		"source":     s.source,
		"started_at": s.startedAt.Format(time.RFC3339),
	})
}

// countRequests records each response under its route pattern, so unknown
// paths collapse into one series.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[feed] failed to encode response: %v", err)
	}
}
