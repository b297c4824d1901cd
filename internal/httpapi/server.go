package httpapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockdash/internal/dashboard"
	"stockdash/internal/domain"
)

// Placeholder is the hint shown in the empty symbol dropdown.
const Placeholder = "Please select a stock"

//go:embed static/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

// DashboardServer serves the dashboard HTTP API and page.
type DashboardServer struct {
	svc     *dashboard.Service
	title   string
	minDate time.Time
	now     func() time.Time
	log     *slog.Logger
}

// NewDashboardServer creates a new dashboard HTTP server.
func NewDashboardServer(svc *dashboard.Service, title string, minDate time.Time, log *slog.Logger) *DashboardServer {
	return &DashboardServer{
		svc:     svc,
		title:   title,
		minDate: minDate,
		now:     time.Now,
		log:     log.With("component", "httpapi"),
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *DashboardServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/bounds", s.handleBounds)
	mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns an http.Handler with CORS middleware.
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorJSON{Error: msg})
}

func (s *DashboardServer) bounds() dashboard.Bounds {
	return dashboard.DateBounds(s.minDate, s.now())
}

func (s *DashboardServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	b := s.bounds()
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, pageData{
		Title:       s.title,
		Placeholder: Placeholder,
		MinDate:     b.MinDate,
		MaxDate:     b.MaxDate,
		EndDate:     b.EndDate,
	})
	if err != nil {
		s.log.Error("rendering index", "error", err)
		writeError(w, http.StatusInternalServerError, "rendering page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *DashboardServer) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Options(r.URL.Query()["value"]))
}

func (s *DashboardServer) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := parseChartRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, s.svc.Update(r.Context(), req))
}

func (s *DashboardServer) handleBounds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.bounds())
}

func (s *DashboardServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthJSON{OK: true, Symbols: s.svc.Catalog().Len()})
}

// parseChartRequest reads n_clicks, symbols, start and end from the query.
// An absent symbols parameter is a nil selection; a present but empty one is
// an empty selection. Absent or empty dates stay nil.
func parseChartRequest(r *http.Request) (dashboard.Request, error) {
	q := r.URL.Query()
	var req dashboard.Request

	if v := q.Get("n_clicks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid n_clicks %q", v)
		}
		req.NClicks = n
	}

	if values, ok := q["symbols"]; ok {
		req.Symbols = []string{}
		for _, v := range values {
			for _, sym := range strings.Split(v, ",") {
				if sym = strings.TrimSpace(sym); sym != "" {
					req.Symbols = append(req.Symbols, sym)
				}
			}
		}
	}

	var err error
	if req.Start, err = parseDateParam(q.Get("start")); err != nil {
		return req, fmt.Errorf("invalid start: %w", err)
	}
	if req.End, err = parseDateParam(q.Get("end")); err != nil {
		return req, fmt.Errorf("invalid end: %w", err)
	}
	return req, nil
}

func parseDateParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
