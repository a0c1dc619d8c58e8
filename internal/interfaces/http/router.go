package http

import (
	"net/http"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/config"
	"studytrack-backend/internal/service/study"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the full route tree: public health and metrics endpoints,
// the authenticated /api/v1 surface and, outside production, the cache debug
// endpoints.
func NewRouter(cfg config.Config, svc study.Service, verifier TokenVerifier, c *cache.Cache, logger *zap.Logger) *chi.Mux {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticator(verifier, c, logger))

		r.Route("/mock-exams", func(r chi.Router) {
			r.Get("/", h.ListMockExams)
			r.Post("/", h.CreateMockExam)
			r.Get("/counts", h.ExamQuestionCounts)
			r.Put("/{examId}", h.UpdateMockExam)
			r.Delete("/{examId}", h.DeleteMockExam)
		})

		r.Route("/subjects", func(r chi.Router) {
			r.Get("/", h.ListSubjects)
			r.Post("/", h.CreateSubject)
			r.Put("/{subjectId}", h.UpdateSubject)
			r.Delete("/{subjectId}", h.DeleteSubject)
		})

		r.Route("/topics", func(r chi.Router) {
			r.Get("/", h.ListTopics)
			r.Post("/", h.CreateTopic)
			r.Put("/{topicId}", h.UpdateTopic)
			r.Delete("/{topicId}", h.DeleteTopic)
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", h.ListQuestions)
			r.Post("/", h.CreateQuestion)
			r.Get("/{questionId}", h.GetQuestion)
			r.Put("/{questionId}", h.UpdateQuestion)
			r.Delete("/{questionId}", h.DeleteQuestion)
			r.Post("/{questionId}/failures", h.IncrementFailures)
			r.Patch("/{questionId}/learned", h.SetLearned)
		})

		r.Route("/trash", func(r chi.Router) {
			r.Get("/", h.ListTrash)
			r.Delete("/", h.EmptyTrash)
			r.Post("/{trashId}/restore", h.RestoreQuestion)
			r.Delete("/{trashId}", h.PurgeTrashedQuestion)
		})

		r.Get("/stats/summary", h.GetStatsSummary)
		r.Get("/stats/detail", h.GetStatsDetail)
	})

	if !cfg.IsProduction() {
		r.Route("/debug/cache", func(r chi.Router) {
			r.Get("/", h.CacheStats)
			r.Delete("/", h.ClearCache)
		})
	}

	return r
}
