// Package server serves a finished run's report: the chart page, the summary
// table and JSON, the rendered frames, and a tsweb debug index.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"tailscale.com/tsweb"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/fsutil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/httputil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/report"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/security"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/version"
)

// Config contains configuration options for the report server.
type Config struct {
	Address string
	// FramesDir is served under /frames/. Empty disables the route.
	FramesDir string
	// FS reads frames. Defaults to the OS filesystem.
	FS fsutil.FileSystem
}

// Server holds the most recent summary and serves it over HTTP.
type Server struct {
	address   string
	framesDir string
	fs        fsutil.FileSystem
	server    *http.Server

	mu      sync.RWMutex
	summary *report.Summary
}

// New creates a server for sum. A nil sum answers 404 until setSummary is called.
func New(cfg Config, sum *report.Summary) *Server {
	s := &Server{
		address:   cfg.Address,
		framesDir: cfg.FramesDir,
		fs:        cfg.FS,
		summary:   sum,
	}
	if s.fs == nil {
		s.fs = fsutil.OSFileSystem{}
	}
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// setSummary replaces the summary being served.
func (s *Server) setSummary(sum *report.Summary) {
	s.mu.Lock()
	s.summary = sum
	s.mu.Unlock()
}

func (s *Server) current() *report.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/summary", s.withSummary(s.handleSummaryTable))
	mux.HandleFunc("/api/summary", s.withSummary(s.handleSummaryJSON))
	mux.HandleFunc("/api/rounds", s.withSummary(s.handleRoundsJSON))
	if s.framesDir != "" {
		mux.HandleFunc("/frames/", s.handleFrame)
	}
	mux.HandleFunc("/", s.withSummary(s.handleChart))
	s.AttachAdminRoutes(mux)
	return mux
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serving report on http://%s", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("report server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := s.server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	log.Printf("HTTP server routine stopped")
	return nil
}

// withSummary rejects non-GET requests and answers 404 until a summary exists.
func (s *Server) withSummary(h func(http.ResponseWriter, *http.Request, *report.Summary)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		sum := s.current()
		if sum == nil {
			httputil.NotFound(w, "no run has completed yet")
			return
		}
		h(w, r, sum)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"status":    "ok",
		"service":   "trafficq",
		"version":   version.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, sum *report.Summary) {
	if r.URL.Path != "/" {
		httputil.NotFound(w, "not found")
		return
	}
	httputil.Render(w, "text/html; charset=utf-8", sum.RenderChart)
}

func (s *Server) handleSummaryTable(w http.ResponseWriter, r *http.Request, sum *report.Summary) {
	httputil.Render(w, "text/plain; charset=utf-8", sum.WriteTable)
}

func (s *Server) handleSummaryJSON(w http.ResponseWriter, r *http.Request, sum *report.Summary) {
	httputil.WriteJSONOK(w, sum)
}

func (s *Server) handleRoundsJSON(w http.ResponseWriter, r *http.Request, sum *report.Summary) {
	httputil.WriteJSONOK(w, sum.Rounds)
}

// handleFrame serves one PNG frame from the frames directory.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	rel := strings.TrimPrefix(r.URL.Path, "/frames/")
	if path.Ext(rel) != ".png" {
		httputil.NotFound(w, "frame not found")
		return
	}
	file, err := security.ResolveWithin(s.framesDir, rel)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, "invalid frame path")
		return
	}
	data, err := s.fs.ReadFile(file)
	if err != nil {
		httputil.NotFound(w, "frame not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

var roundsTemplate = template.Must(template.New("rounds").Parse(`<h2>Run {{.RunID}}</h2>
<p>Priority lane: {{.Priority}}</p>
<table border="1" cellpadding="4">
<tr><th>Round</th><th>Initial lanes</th><th>Strategy</th><th>Steps</th><th>Visits</th><th>Time</th><th>Fuel</th><th>Carbon</th><th>Clearance (min)</th></tr>
{{range .Rows}}<tr><td>{{.Round}}</td><td>{{.Initial}}</td><td>{{.Strategy}}</td><td>{{.Steps}}</td><td>{{.Visits}}</td><td>{{.TimeMinutes}}</td><td>{{.FuelLiters}}</td><td>{{.CarbonKg}}</td><td>{{.Clearance}}</td></tr>
{{end}}</table>
`))

type roundRow struct {
	Round       int
	Initial     string
	Strategy    string
	Steps       int
	Visits      int
	TimeMinutes int
	FuelLiters  int
	CarbonKg    int
	Clearance   string
}

func roundRows(sum *report.Summary) []roundRow {
	rows := make([]roundRow, 0, 2*len(sum.Rounds))
	for _, r := range sum.Rounds {
		for _, strategy := range scheduler.Strategies {
			st := r.ByStrategy(strategy)
			clearance := "-"
			if st.PriorityClearanceMinutes != nil {
				clearance = fmt.Sprintf("%.2f", *st.PriorityClearanceMinutes)
			}
			rows = append(rows, roundRow{
				Round:       r.Round,
				Initial:     r.Initial.String(),
				Strategy:    st.Strategy.Title(),
				Steps:       st.Steps,
				Visits:      st.Visits,
				TimeMinutes: st.TimeMinutes,
				FuelLiters:  st.FuelLiters,
				CarbonKg:    st.CarbonKg,
				Clearance:   clearance,
			})
		}
	}
	return rows
}

// AttachAdminRoutes registers the debug pages under /debug/.
func (s *Server) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.HandleFunc("rounds", "Per-round initial lanes and results of the last run", func(w http.ResponseWriter, r *http.Request) {
		sum := s.current()
		if sum == nil {
			http.Error(w, "no run has completed yet", http.StatusNotFound)
			return
		}
		httputil.Render(w, "text/html; charset=utf-8", func(out io.Writer) error {
			return roundsTemplate.Execute(out, map[string]any{
				"RunID":    sum.RunID,
				"Priority": sum.Priority.String(),
				"Rows":     roundRows(sum),
			})
		})
	})
}
