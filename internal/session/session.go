// Package session exposes the per-request session: its id, which keys the
// cart, and one-time flash notices.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const CookieName = "sessionId"

// Flash kinds, rendered with the matching CSS class.
const (
	KindNotice  = "notice"
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

var kinds = []string{KindNotice, KindSuccess, KindError, KindInfo}

type Flash struct {
	Kind    string
	Message string
}

// Session wraps a gorilla session for one request. Changes are persisted by
// Middleware before the response header is written.
type Session struct {
	raw   *sessions.Session
	dirty bool
}

// ID returns the session id. Anything keyed by it needs the session to
// outlive the request, so the session is marked for saving.
func (s *Session) ID() string {
	s.dirty = true
	return s.raw.ID
}

func (s *Session) AddFlash(kind, message string) {
	s.raw.AddFlash(message, kind)
	s.dirty = true
}

// Flashes returns and removes every pending flash, grouped by kind.
func (s *Session) Flashes() []Flash {
	var out []Flash
	for _, kind := range kinds {
		values := s.raw.Flashes(kind)
		if len(values) == 0 {
			continue
		}
		s.dirty = true
		for _, v := range values {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	return out
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session. Outside Middleware it returns a
// detached session whose changes are discarded.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return &Session{raw: sessions.NewSession(nil, CookieName)}
}

// Middleware loads the session for each request and saves it, when
// modified, just before the response is committed.
func Middleware(store sessions.Store, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := store.Get(r, CookieName)
			if err != nil {
				logger.Debug("starting new session", "error", err)
			}
			if raw == nil {
				raw = sessions.NewSession(store, CookieName)
				raw.IsNew = true
			}

			sess := &Session{raw: raw}
			sw := &saveWriter{ResponseWriter: w, r: r, sess: sess, logger: logger}
			next.ServeHTTP(sw, r.WithContext(WithSession(r.Context(), sess)))
			sw.commit()
		})
	}
}

// saveWriter persists the session the first time the response is written.
type saveWriter struct {
	http.ResponseWriter
	r         *http.Request
	sess      *Session
	logger    *slog.Logger
	committed bool
}

func (w *saveWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.sess.dirty {
		return
	}
	if err := w.sess.raw.Save(w.r, w.ResponseWriter); err != nil {
		w.logger.Error("failed to save session", "error", err)
	}
}

func (w *saveWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *saveWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *saveWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
