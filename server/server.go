package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hotel-reviews/config"
	"hotel-reviews/export"
	"hotel-reviews/models"
	"hotel-reviews/render"
	"hotel-reviews/services"
	"hotel-reviews/storage"
	"hotel-reviews/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server serves the dashboard of one loaded dataset. Handlers only read.
type Server struct {
	dash         *services.Dashboard
	defaultLimit int
	logger       *utils.Logger
}

// New builds the router for dash
func New(cfg *config.Config, dash *services.Dashboard, logger *utils.Logger) http.Handler {
	s := &Server{dash: dash, defaultLimit: cfg.MaxReviews, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.datasetHeader)

	r.Get("/", s.handleDashboard)
	r.Get("/healthz", s.handleHealth)
	r.Get("/export.xlsx", s.handleExportXLSX)
	r.Get("/export.csv", s.handleExportCSV)
	r.Get("/export.md", s.handleExportMarkdown)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"X-Dataset-ID"},
			MaxAge:         300,
		}))
		r.Get("/topics", s.handleTopics)
		r.Get("/hotels", s.handleHotels)
		r.Get("/hotels/{name}/averages", s.handleHotelAverages)
		r.Get("/reviews", s.handleReviews)
		r.Get("/averages", s.handleAverages)
	})

	return r
}

// ListenAndServe serves h on addr until ctx is cancelled
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *utils.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) datasetHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Dataset-ID", s.dash.Insights().DatasetID)
		next.ServeHTTP(w, r)
	})
}

// query reads topic, hotel and n; n must be an integer and is clamped
func (s *Server) query(r *http.Request) (models.Query, error) {
	v := r.URL.Query()
	q := models.Query{
		Topic: v.Get("topic"),
		Hotel: v.Get("hotel"),
		Limit: s.defaultLimit,
	}
	if raw := v.Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("n must be an integer, got %q", raw)
		}
		q.Limit = n
		if n == 0 {
			q.Limit = models.MinLimit
		}
	}
	return s.dash.NormalizeQuery(q), nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, s.dash.Page(q)); err != nil {
		s.logger.Error("Dashboard render failed: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ins := s.dash.Insights()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"dataset_id": ins.DatasetID,
		"reviews":    ins.TotalReviews,
		"loaded_at":  ins.LoadedAt,
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dash.Topics())
}

func (s *Server) handleHotels(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.dash.Hotels())
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cards := s.dash.Cards(q)
	if cards == nil {
		cards = []models.ReviewCard{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"query": q, "reviews": cards})
}

func (s *Server) handleAverages(w http.ResponseWriter, r *http.Request) {
	ins := s.dash.Insights()
	respondJSON(w, http.StatusOK, map[string]any{
		"averages":      ins.Global,
		"contributions": ins.Contributions,
	})
}

func (s *Server) handleHotelAverages(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}
	if !s.dash.HasHotel(name) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown hotel %q", name)})
		return
	}

	avgs := s.dash.Insights().ByHotel[name]
	if avgs == nil {
		avgs = models.Averages{}
	}
	respondJSON(w, http.StatusOK, avgs)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, s.dash.Insights()); err != nil {
		s.logger.Error("Workbook export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="hotel_averages.xlsx"`)
	buf.WriteTo(w)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := storage.EncodeAverages(&buf, s.dash.Insights()); err != nil {
		s.logger.Error("CSV export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="hotel_averages.csv"`)
	buf.WriteTo(w)
}

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, err := render.Markdown(s.dash.Page(q))
	if err != nil {
		s.logger.Error("Markdown export failed: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(out))
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
