package store

import (
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/dukerupert/csemotors/internal/database"
)

func init() {
	// Flashes are stored as []interface{} in session values.
	gob.Register([]interface{}(nil))
}

// SessionStore is a sessions.Store that keeps session values in the
// session table. The cookie only carries the signed session id.
type SessionStore struct {
	db      *database.DB
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// NewSessionStore takes securecookie key pairs: an authentication key and an
// optional encryption key, repeated for rotation.
func NewSessionStore(db *database.DB, keyPairs ...[]byte) *SessionStore {
	s := &SessionStore{
		db:     db,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	s.MaxAge(s.Options.MaxAge)
	return s
}

// MaxAge sets the lifetime of new sessions and of the codecs' timestamps.
func (s *SessionStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
			// Session values live in the database, not the cookie.
			sc.MaxLength(0)
		}
	}
}

// Get returns the session cached in the request registry, creating it on
// first use.
func (s *SessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, tampered or
// expired session yields a fresh one with a new id; decode errors are
// returned alongside it.
func (s *SessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	var err error
	if c, errCookie := r.Cookie(name); errCookie == nil {
		var id string
		err = securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...)
		if err == nil {
			var found bool
			found, err = s.load(r.Context(), id, session)
			if found {
				session.ID = id
				session.IsNew = false
			}
		}
	}

	if session.IsNew {
		session.ID = uuid.NewString()
	}
	return session, err
}

// Save persists the session and writes the id cookie. A MaxAge of zero or
// less deletes the row and expires the cookie.
func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge <= 0 {
		if session.ID != "" {
			if err := s.Delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *SessionStore) save(ctx context.Context, session *sessions.Session) error {
	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(time.Duration(session.Options.MaxAge) * time.Second)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (session_id, session_data, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET session_data = excluded.session_data, expires_at = excluded.expires_at`,
		session.ID, data, expiresAt,
	)
	if err != nil {
		return dataErr("save session", err)
	}
	return nil
}

func (s *SessionStore) load(ctx context.Context, id string, session *sessions.Session) (bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_data FROM session WHERE session_id = ? AND expires_at > ?`,
		id, time.Now().UTC(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dataErr("load session", err)
	}
	if err := securecookie.DecodeMulti(session.Name(), data, &session.Values, s.Codecs...); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE session_id = ?`, id); err != nil {
		return dataErr("delete session", err)
	}
	return nil
}

// DeleteExpired purges sessions past their expiry.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, dataErr("delete expired sessions", err)
	}
	return result.RowsAffected()
}
