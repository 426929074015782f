package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/rubric"
	"ArticleScorer/internal/usecase"
)

// UserHeader carries the caller identity set by the fronting gateway.
const UserHeader = "X-User-ID"

const maxBodyBytes = 4 << 20

// RubricAPI is the rubric use case surface served over HTTP.
type RubricAPI interface {
	Resolve(ctx context.Context, userID string) (usecase.Resolution, error)
	Initialize(ctx context.Context, userID string) ([]domain.Criterion, error)
	Upsert(ctx context.Context, userID string, in domain.CriterionInput) (domain.Criterion, error)
	BatchReplace(ctx context.Context, userID string, inputs []domain.CriterionInput) ([]domain.Criterion, error)
	Toggle(ctx context.Context, userID, key string) (domain.Criterion, error)
	Delete(ctx context.Context, userID, key string) error
	Reset(ctx context.Context, userID string) ([]domain.Criterion, error)
}

// ArticleScorer scores article fields for a user.
type ArticleScorer interface {
	ScoreArticle(ctx context.Context, userID string, fields domain.ArticleFields) usecase.Outcome
}

var (
	_ RubricAPI     = (*usecase.RubricService)(nil)
	_ ArticleScorer = (*usecase.Scorer)(nil)
)

// Deps collects what the router needs.
type Deps struct {
	Rubrics        RubricAPI
	Scorer         ArticleScorer
	Metrics        http.Handler
	Health         func(ctx context.Context) error
	AllowedOrigins []string
	Logger         *slog.Logger
}

type server struct {
	rubrics RubricAPI
	scorer  ArticleScorer
	health  func(ctx context.Context) error
	logger  *slog.Logger
}

// NewRouter builds the chi router with every API route mounted.
func NewRouter(deps Deps) http.Handler {
	s := &server{
		rubrics: deps.Rubrics,
		scorer:  deps.Scorer,
		health:  deps.Health,
		logger:  deps.Logger,
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", UserHeader},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/rubric/default", s.handleDefaultRubric)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Get("/rubric", s.handleResolve)
			r.Post("/rubric/init", s.handleInitialize)
			r.Post("/rubric/reset", s.handleReset)
			r.Put("/rubric/criteria", s.handleUpsert)
			r.Put("/rubric/criteria:batch", s.handleBatchReplace)
			r.Post("/rubric/criteria/{key}/toggle", s.handleToggle)
			r.Delete("/rubric/criteria/{key}", s.handleDelete)
			r.Post("/score", s.handleScore)
		})
	})

	return r
}

type userKey struct{}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(UserHeader))
		if user == "" {
			writeError(w, http.StatusUnauthorized, "missing "+UserHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func userFrom(r *http.Request) string {
	user, _ := r.Context().Value(userKey{}).(string)
	return user
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDefaultRubric(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":  rubric.Version,
		"criteria": rubric.Default(),
	})
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.rubrics.Resolve(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	criteria, err := s.rubrics.Initialize(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"criteria": criteria})
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	criteria, err := s.rubrics.Reset(r.Context(), userFrom(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria": criteria})
}

func (s *server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var in domain.CriterionInput
	if !decode(w, r, &in) {
		return
	}
	saved, err := s.rubrics.Upsert(r.Context(), userFrom(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type batchResponse struct {
	Criteria []domain.Criterion `json:"criteria"`
	Errors   []string           `json:"errors,omitempty"`
}

func (s *server) handleBatchReplace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criteria []domain.CriterionInput `json:"criteria"`
	}
	if !decode(w, r, &req) {
		return
	}

	saved, err := s.rubrics.BatchReplace(r.Context(), userFrom(r), req.Criteria)
	if errors.Is(err, domain.ErrNotAuthorized) {
		s.fail(w, r, err)
		return
	}

	if err != nil && len(saved) == 0 {
		writeJSON(w, HTTPStatus(err), errorBody{Error: "no criteria saved", Details: splitJoined(err)})
		return
	}
	if saved == nil {
		saved = []domain.Criterion{}
	}
	writeJSON(w, http.StatusOK, batchResponse{Criteria: saved, Errors: splitJoined(err)})
}

func (s *server) handleToggle(w http.ResponseWriter, r *http.Request) {
	c, err := s.rubrics.Toggle(r.Context(), userFrom(r), chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.rubrics.Delete(r.Context(), userFrom(r), chi.URLParam(r, "key")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleScore(w http.ResponseWriter, r *http.Request) {
	var fields domain.ArticleFields
	if !decode(w, r, &fields) {
		return
	}
	writeJSON(w, http.StatusOK, s.scorer.ScoreArticle(r.Context(), userFrom(r), fields))
}
