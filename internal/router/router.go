package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studyquest-backend/internal/handlers"
	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	playerHandler *handlers.PlayerHandler,
	subjectHandler *handlers.SubjectHandler,
	questHandler *handlers.QuestHandler,
	studySessionHandler *handlers.StudySessionHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Player Routes ────
		r.Route("/players", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", playerHandler.Create)
			r.Get("/", playerHandler.List)
			r.Get("/{id}", playerHandler.Get)
			r.Get("/{id}/subjects", playerHandler.ListSubjects)
			r.Get("/{id}/profile", playerHandler.GetProfile)
			r.Put("/{id}/profile", playerHandler.UpdateProfile)
		})

		// ──── Subject Routes ────
		r.Route("/subjects", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", subjectHandler.Create)
			r.Get("/{id}", subjectHandler.Get)
			r.Patch("/{id}", subjectHandler.Update)
			r.Delete("/{id}", subjectHandler.Delete)
			r.Get("/{id}/quests", subjectHandler.ListQuests)
			r.Get("/{id}/materials", subjectHandler.ListMaterials)
			r.Post("/{id}/materials", subjectHandler.CreateMaterial)
			r.Delete("/{id}/materials/{materialID}", subjectHandler.DeleteMaterial)
		})

		// ──── Quest Routes ────
		r.Route("/quests", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", questHandler.Create)
			r.Get("/", questHandler.List)
			r.Get("/{id}", questHandler.Get)
			r.Patch("/{id}", questHandler.Update)
			r.Delete("/{id}", questHandler.Delete)
		})

		// ──── Study Session Routes ────
		r.Route("/study-sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", studySessionHandler.Create)
			r.Get("/", studySessionHandler.List)
			r.Get("/{id}", studySessionHandler.Get)
			r.Patch("/{id}/end", studySessionHandler.End)
		})

		// ──── Task Routes ────
		r.Route("/tasks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/{id}/start", studySessionHandler.StartTask)
			r.Post("/{id}/complete", studySessionHandler.CompleteTask)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
