package middleware

import (
	"net/http"

	"github.com/dukerupert/csemotors/internal/view"
)

// Theme reads the theme cookie into the request context.
func Theme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := view.ThemeLight
		if c, err := r.Cookie(view.ThemeCookieName); err == nil && c.Value == view.ThemeDark {
			theme = view.ThemeDark
		}
		next.ServeHTTP(w, r.WithContext(view.WithTheme(r.Context(), theme)))
	})
}
