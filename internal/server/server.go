// Package server exposes the slope stability analysis over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/criteria"
	"github.com/alexiusacademia/goslope/internal/diagram"
	"github.com/alexiusacademia/goslope/internal/project"
	"github.com/alexiusacademia/goslope/internal/report"
	"github.com/alexiusacademia/goslope/internal/store"
)

// maxBodyBytes bounds case uploads
const maxBodyBytes = 1 << 20

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
	"jpg": "image/jpeg",
}

// Options configures a Server
type Options struct {
	Rate   float64 // requests per second per client
	Burst  int
	Solver bishop.Options // defaults for cases that leave options unset
}

// Server routes API requests. The store is optional; without it analyses
// are not recorded and the history endpoints answer 503.
type Server struct {
	store  *store.Store
	solver bishop.Options
	router *mux.Router
}

// New builds the router
func New(st *store.Store, opts Options) *Server {
	s := &Server{store: st, solver: opts.Solver, router: mux.NewRouter()}

	s.router.HandleFunc("/healthz", s.health).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	if opts.Rate > 0 && opts.Burst > 0 {
		api.Use(NewIPRateLimiter(rate.Limit(opts.Rate), opts.Burst).LimitMiddleware)
	}
	api.HandleFunc("/analyze", s.analyze).Methods("POST")
	api.HandleFunc("/analyses", s.listAnalyses).Methods("GET")
	api.HandleFunc("/analyses/{id}", s.getAnalysis).Methods("GET")
	api.HandleFunc("/analyses/{id}", s.deleteAnalysis).Methods("DELETE")
	api.HandleFunc("/report/pdf", s.reportPDF).Methods("POST")
	api.HandleFunc("/diagram", s.diagram).Methods("POST")

	return s
}

// Handler returns the router wrapped in CORS handling
func (s *Server) Handler() http.Handler {
	return CORS(s.router)
}

// CORS allows browser clients from any origin
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type checkResponse struct {
	Condition string  `json:"condition"`
	MinimumFS float64 `json:"minimum_fs"`
	Ratio     float64 `json:"ratio"`
	Adequate  bool    `json:"adequate"`
	Message   string  `json:"message"`
}

type analyzeResponse struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name"`
	Result bishop.Result  `json:"result"`
	Status string         `json:"status"`
	Check  *checkResponse `json:"check,omitempty"`
}

func newCheckResponse(chk *criteria.Check) *checkResponse {
	if chk == nil {
		return nil
	}
	return &checkResponse{
		Condition: chk.Condition.ID,
		MinimumFS: chk.Condition.MinimumFS,
		Ratio:     chk.Ratio,
		Adequate:  chk.Adequate,
		Message:   chk.Message,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readCase decodes and validates the request body, applying server defaults
func (s *Server) readCase(w http.ResponseWriter, r *http.Request) (*project.Case, bool) {
	c, err := project.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	c.ApplyOptions(s.solver)
	return c, true
}

func (s *Server) run(w http.ResponseWriter, c *project.Case) (*project.Outcome, bool) {
	out, err := c.Run()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return out, true
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	c, ok := s.readCase(w, r)
	if !ok {
		return
	}
	out, ok := s.run(w, c)
	if !ok {
		return
	}

	resp := analyzeResponse{
		Name:   c.Name,
		Result: out.Result,
		Status: out.StatusText(),
		Check:  newCheckResponse(out.Check),
	}

	if s.store != nil {
		rec, err := s.store.Save(r.Context(), c, out.Result)
		if err != nil {
			log.Printf("save analysis: %v", err)
			writeError(w, http.StatusInternalServerError, "could not store analysis")
			return
		}
		resp.ID = rec.ID
	}

	log.Printf("analyze %q: %s fs=%.3f iterations=%d", c.Name, out.Result.Outcome, out.Result.FS, out.Result.Iterations)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		log.Printf("list analyses: %v", err)
		writeError(w, http.StatusInternalServerError, "could not list analyses")
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	rec, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.Printf("get analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load analysis")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	err := s.store.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.Printf("delete analysis: %v", err)
		writeError(w, http.StatusInternalServerError, "could not delete analysis")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reportPDF(w http.ResponseWriter, r *http.Request) {
	c, ok := s.readCase(w, r)
	if !ok {
		return
	}
	out, ok := s.run(w, c)
	if !ok {
		return
	}

	q := r.URL.Query()
	var buf bytes.Buffer
	err := report.WritePDF(&buf, report.Report{
		Title:   q.Get("title"),
		Author:  q.Get("author"),
		Case:    c,
		Outcome: out,
	})
	if err != nil {
		log.Printf("pdf report: %v", err)
		writeError(w, http.StatusInternalServerError, "report generation error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}

func (s *Server) diagram(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}
	ct, known := contentTypes[format]
	if !known {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	c, ok := s.readCase(w, r)
	if !ok {
		return
	}
	out, ok := s.run(w, c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := diagram.RenderCrossSection(report.CrossSection(c, out), format, &buf); err != nil {
		log.Printf("render diagram: %v", err)
		writeError(w, http.StatusInternalServerError, "diagram rendering error")
		return
	}

	w.Header().Set("Content-Type", ct)
	w.Write(buf.Bytes())
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis history is disabled")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
