package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/session"
)

const (
	loginPath   = "/account/login"
	accountPath = "/account"
)

// Authenticate resolves the jwt cookie into a Principal. Requests without
// the cookie pass through anonymously. An invalid or expired token clears
// the cookie and redirects to login without running next.
func Authenticate(tokens *auth.TokenIssuer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.TokenCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := tokens.Parse(cookie.Value)
			if err != nil {
				logger.Debug("rejected auth token", "error", err, "path", r.URL.Path)
				tokens.ClearCookie(w)
				redirectWithFlash(w, r, loginPath, "Session expired. Please log in.")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireLogin sends anonymous requests to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			redirectWithFlash(w, r, loginPath, "Please log in.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireStaff admits Employee and Admin accounts.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		if !ok {
			redirectWithFlash(w, r, loginPath, "Unauthorized.")
			return
		}
		if !p.IsStaff() {
			redirectWithFlash(w, r, loginPath, "You are not authorized to modify inventory.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits Admin accounts and sends everyone else back to the
// account page.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			redirectWithFlash(w, r, accountPath, "Access denied. Admins only.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, to, notice string) {
	session.FromContext(r.Context()).AddFlash(session.KindNotice, notice)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
