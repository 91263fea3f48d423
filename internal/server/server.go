package server

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/config"
	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/handler"
	"github.com/dukerupert/csemotors/internal/middleware"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
	"github.com/dukerupert/csemotors/internal/view"
	ws "github.com/dukerupert/csemotors/internal/websocket"
)

const (
	authRateLimit  = 10
	authRatePeriod = time.Minute
)

type Server struct {
	cfg          *config.Config
	hub          *ws.Hub
	base         *handler.Base
	accountH     *handler.AccountHandler
	cartH        *handler.CartHandler
	messageH     *handler.MessageHandler
	inventoryH   *handler.InventoryHandler
	messageStore *store.MessageStore
	sessionStore *store.SessionStore
	cartStore    *store.CartStore
	tokens       *auth.TokenIssuer
	rateLimiter  *middleware.RateLimiter
	clientIP     func(*http.Request) string
	logger       *slog.Logger
}

func New(cfg *config.Config, db *database.DB, logger *slog.Logger) (*Server, error) {
	views, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	secure := !cfg.IsDevelopment()
	hub := ws.NewHub(logger.With("component", "websocket"))

	accountStore := store.NewAccountStore(db)
	messageStore := store.NewMessageStore(db)
	inventoryStore := store.NewInventoryStore(db)
	cartStore := store.NewCartStore(db)

	authKey, encKey := sessionKeys(cfg.SessionSecret)
	sessionStore := store.NewSessionStore(db, authKey, encKey)
	sessionStore.Options.Secure = secure

	tokens := auth.NewTokenIssuer(cfg.TokenSecret, secure)
	base := handler.NewBase(inventoryStore, views, logger.With("component", "handler"))

	return &Server{
		cfg:          cfg,
		hub:          hub,
		base:         base,
		accountH:     handler.NewAccountHandler(base, accountStore, messageStore, tokens),
		cartH:        handler.NewCartHandler(base, cartStore),
		messageH:     handler.NewMessageHandler(base, messageStore, accountStore, hub),
		inventoryH:   handler.NewInventoryHandler(base),
		messageStore: messageStore,
		sessionStore: sessionStore,
		cartStore:    cartStore,
		tokens:       tokens,
		rateLimiter:  middleware.NewRateLimiter(authRateLimit, authRatePeriod),
		clientIP:     middleware.ClientIP(cfg.TrustProxy),
		logger:       logger,
	}, nil
}

// sessionKeys derives the session cookie's signing and encryption keys
// from the configured secret.
func sessionKeys(secret string) ([]byte, []byte) {
	authKey := sha256.Sum256([]byte(secret + "auth"))
	encKey := sha256.Sum256([]byte(secret + "encryption"))
	return authKey[:], encKey[:]
}

// Cleanup purges expired sessions, the cart lines they keyed and stale rate
// limiter windows.
func (s *Server) Cleanup(ctx context.Context) {
	if n, err := s.sessionStore.DeleteExpired(ctx); err != nil {
		s.logger.Error("cleanup expired sessions", "error", err)
	} else if n > 0 {
		s.logger.Info("cleaned up expired sessions", "count", n)
	}
	if n, err := s.cartStore.DeleteOrphans(ctx); err != nil {
		s.logger.Error("cleanup orphaned cart items", "error", err)
	} else if n > 0 {
		s.logger.Info("cleaned up orphaned cart items", "count", n)
	}
	s.rateLimiter.Cleanup()
}

// handle adapts an error-returning handler. Errors are rendered through the
// error view.
func (s *Server) handle(h handler.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.base.Error(w, r, err)
		}
	})
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	static := http.FileServer(http.Dir(s.cfg.StaticDir))
	for _, dir := range []string{"css", "js", "images"} {
		mux.Handle("GET /"+dir+"/", static)
	}
	mux.HandleFunc("GET /health", s.base.Health)

	mux.Handle("GET /{$}", s.handle(s.base.Home))
	mux.Handle("GET /toggle-theme", s.handle(s.base.ToggleTheme))
	mux.Handle("GET /ierror", s.handle(s.base.IntentionalError))
	mux.Handle("GET /ws", middleware.RequireLogin(ws.HandleWebSocket(s.hub, s.messageStore, s.logger.With("component", "websocket"))))

	s.registerInventoryRoutes(mux)
	s.registerAccountRoutes(mux)
	s.registerCartRoutes(mux)
	s.registerMessageRoutes(mux)

	mux.Handle("/", s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return handler.NotFound()
	}))

	return s.wrap(mux)
}

// wrap applies the middleware shared by every route. Recover sits inside
// the session and CSRF layers so the crash page keeps both.
func (s *Server) wrap(next http.Handler) http.Handler {
	h := next
	h = middleware.Authenticate(s.tokens, s.logger.With("component", "auth"))(h)
	h = middleware.Theme(h)
	h = middleware.Recover(s.logger, s.base.Error)(h)
	h = session.Middleware(s.sessionStore, s.logger.With("component", "session"))(h)
	h = s.csrf(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

// csrf protects every unsafe request with gorilla/csrf. Development
// servers run over plain HTTP, so requests are marked plaintext there.
func (s *Server) csrf(next http.Handler) http.Handler {
	protect := csrf.Protect(s.cfg.CSRFKey,
		csrf.Secure(!s.cfg.IsDevelopment()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(s.csrfFailure)),
	)(next)
	if !s.cfg.IsDevelopment() {
		return protect
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

func (s *Server) csrfFailure(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn("csrf check failed", "error", csrf.FailureReason(r), "path", r.URL.Path, "remote", s.clientIP(r))
	http.Error(w, "Forbidden: invalid or missing CSRF token.", http.StatusForbidden)
}

func (s *Server) rateLimited(h http.Handler) http.Handler {
	return middleware.RateLimit(s.rateLimiter, s.clientIP)(h)
}

func (s *Server) registerInventoryRoutes(mux *http.ServeMux) {
	mux.Handle("GET /inv/type/{classification_id}", s.handle(s.inventoryH.ByClassification))
	mux.Handle("GET /inv/detail/{inv_id}", s.handle(s.inventoryH.Detail))

	management := middleware.RequireStaff(s.handle(s.inventoryH.Management))
	mux.Handle("GET /inv", management)
	mux.Handle("GET /inv/{$}", management)
	mux.Handle("POST /inv/classification", middleware.RequireStaff(s.handle(s.inventoryH.AddClassification)))
	mux.Handle("POST /inv/vehicle", middleware.RequireStaff(s.handle(s.inventoryH.AddVehicle)))
}

func (s *Server) registerAccountRoutes(mux *http.ServeMux) {
	mux.Handle("GET /account/login", s.handle(s.accountH.LoginPage))
	mux.Handle("POST /account/login", s.rateLimited(s.handle(s.accountH.Login)))
	mux.Handle("GET /account/register", s.handle(s.accountH.RegisterPage))
	mux.Handle("POST /account/register", s.rateLimited(s.handle(s.accountH.Register)))
	mux.Handle("GET /account/logout", s.handle(s.accountH.Logout))

	management := middleware.RequireLogin(s.handle(s.accountH.Management))
	mux.Handle("GET /account", management)
	mux.Handle("GET /account/{$}", management)
	mux.Handle("GET /account/update", middleware.RequireLogin(s.handle(s.accountH.UpdatePage)))
	mux.Handle("GET /account/update/{account_id}", middleware.RequireLogin(s.handle(s.accountH.UpdatePage)))
	mux.Handle("POST /account/update", middleware.RequireLogin(s.handle(s.accountH.Update)))
	mux.Handle("POST /account/update-password", middleware.RequireLogin(s.handle(s.accountH.UpdatePassword)))
	mux.Handle("GET /account/admin", middleware.RequireAdmin(s.handle(s.accountH.AdminList)))
}

func (s *Server) registerCartRoutes(mux *http.ServeMux) {
	mux.Handle("POST /cart/add", s.handle(s.cartH.Add))
	mux.Handle("GET /cart/view", s.handle(s.cartH.View))
	mux.Handle("POST /cart/clear", s.handle(s.cartH.Clear))
}

func (s *Server) registerMessageRoutes(mux *http.ServeMux) {
	inbox := middleware.RequireLogin(s.handle(s.messageH.Inbox))
	mux.Handle("GET /message", inbox)
	mux.Handle("GET /message/{$}", inbox)
	mux.Handle("GET /message/archive", middleware.RequireLogin(s.handle(s.messageH.Archive)))
	mux.Handle("GET /message/view/{id}", middleware.RequireLogin(s.handle(s.messageH.View)))
	mux.Handle("GET /message/send", middleware.RequireLogin(s.handle(s.messageH.SendPage)))
	mux.Handle("POST /message/send", middleware.RequireLogin(s.handle(s.messageH.Send)))
	mux.Handle("POST /message/{id}/read", middleware.RequireLogin(s.handle(s.messageH.ToggleRead)))
	mux.Handle("POST /message/{id}/archive", middleware.RequireLogin(s.handle(s.messageH.ToggleArchived)))
	mux.Handle("POST /message/{id}/delete", middleware.RequireLogin(s.handle(s.messageH.Delete)))
}
