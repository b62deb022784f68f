package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"messenger/internal/config"
	"messenger/internal/domain"
	"messenger/internal/logging"
	"messenger/internal/security"
	"messenger/internal/service"
)

// api carries the services the handlers close over.
type api struct {
	identity *service.IdentityService
	lists    *service.ListService
	chats    *service.ChatService
	messages *service.MessageService
	tokens   *security.TokenService
	logger   *zap.Logger
	pageSize int
}

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(cfg *config.Config, logger *zap.Logger, st domain.Store, tokens *security.TokenService, hasher *security.PasswordHasher) http.Handler {
	a := &api{
		identity: service.NewIdentityService(st, hasher, logger),
		lists:    service.NewListService(st, logger),
		chats:    service.NewChatService(st, logger),
		messages: service.NewMessageService(st, logger),
		tokens:   tokens,
		logger:   logger,
		pageSize: cfg.PageSize,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.handleRegister())
			r.Post("/login", a.handleLogin())
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens, a.identity))

			r.Get("/auth/me", a.handleMe())
			r.Delete("/auth/me", a.handleDeleteAccount())

			r.Route("/lists/{kind}", func(r chi.Router) {
				r.Get("/", a.handleListMembers())
				r.Post("/", a.handleAddListMember())
				r.Delete("/{login}", a.handleRemoveListMember())
			})

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", a.handleListChats())
				r.Post("/", a.handleCreateChat())
				r.Route("/{chatID}", func(r chi.Router) {
					r.Get("/", a.handleGetChat())
					r.Delete("/", a.handleDeleteChat())
					r.Post("/members", a.handleAddChatMember())
					r.Delete("/members/{login}", a.handleRemoveChatMember())
					r.Get("/messages", a.handleListMessages())
					r.Post("/messages", a.handleCreateMessage())
					r.Put("/messages/{messageID}", a.handleEditMessage())
					r.Delete("/messages/{messageID}", a.handleDeleteMessage())
				})
			})
		})
	})

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}
