package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
	"github.com/dukerupert/csemotors/internal/view"
)

const (
	notFoundMessage = "Unfortunately, we don't have that page in stock."
	crashMessage    = "Oh no! There was a crash. Maybe try a different route?"

	themeMaxAge = 7 * 24 * time.Hour
)

// HandlerFunc is an http handler that reports failures instead of writing
// them. The server turns a returned error into the error view.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// StatusError is a handler error with an HTTP status and a message that is
// safe to show.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Msg)
}

func NotFound() error {
	return &StatusError{Code: http.StatusNotFound, Msg: notFoundMessage}
}

// Base renders pages with the shared layout data: navigation, theme,
// principal, CSRF field and pending flashes.
type Base struct {
	inventory *store.InventoryStore
	views     *view.Renderer
	logger    *slog.Logger
}

func NewBase(inv *store.InventoryStore, views *view.Renderer, logger *slog.Logger) *Base {
	return &Base{inventory: inv, views: views, logger: logger}
}

func (b *Base) page(r *http.Request, title string, data map[string]any) (*view.Page, error) {
	classifications, err := b.inventory.ListClassifications(r.Context())
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	p := &view.Page{
		Title:     title,
		Nav:       view.Nav(classifications),
		Theme:     view.ThemeFrom(r.Context()),
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if principal, ok := auth.FromContext(r.Context()); ok {
		p.Account = &principal
	}
	return p, nil
}

// render writes the named page. Flashes are consumed here so notices added
// earlier in the same request are shown.
func (b *Base) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data map[string]any, errs ...string) error {
	p, err := b.page(r, title, data)
	if err != nil {
		return err
	}
	p.Errors = errs
	p.Flashes = session.FromContext(r.Context()).Flashes()
	return b.views.Render(w, status, name, p)
}

// Error renders err through the error view. A StatusError with code 404
// keeps its message; everything else is reported as a crash.
func (b *Base) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, crashMessage
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		code, msg = se.Code, se.Msg
	} else {
		b.logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}

	title := strconv.Itoa(code)
	data := map[string]any{"Message": msg}
	p, perr := b.page(r, title, data)
	if perr != nil {
		b.logger.Error("failed to load navigation", "error", perr)
		p = &view.Page{Title: title, Theme: view.ThemeFrom(r.Context()), Data: data}
	}
	p.Flashes = session.FromContext(r.Context()).Flashes()
	if rerr := b.views.Render(w, code, "errors/error", p); rerr != nil {
		b.logger.Error("failed to render error page", "error", rerr)
		http.Error(w, msg, code)
	}
}

func (b *Base) Home(w http.ResponseWriter, r *http.Request) error {
	return b.render(w, r, http.StatusOK, "index", "Home", nil)
}

// ToggleTheme flips the theme cookie and returns to the referring page.
func (b *Base) ToggleTheme(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     view.ThemeCookieName,
		Value:    view.ToggleTheme(view.ThemeFrom(r.Context())),
		Path:     "/",
		MaxAge:   int(themeMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, back(r), http.StatusSeeOther)
	return nil
}

// IntentionalError fails on purpose so the crash page can be checked.
func (b *Base) IntentionalError(w http.ResponseWriter, r *http.Request) error {
	return errors.New("intentional error")
}

func (b *Base) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// redirect adds a flash and sends a 303 to the given path.
func redirect(w http.ResponseWriter, r *http.Request, to, kind, msg string) error {
	session.FromContext(r.Context()).AddFlash(kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
	return nil
}

// back returns the local part of the Referer, or "/" when there is none.
// Foreign hosts are never redirected to.
func back(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
