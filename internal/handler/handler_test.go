package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
	"github.com/dukerupert/csemotors/internal/view"
)

var testSessionKey = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	db        *database.DB
	accounts  *store.AccountStore
	messages  *store.MessageStore
	inventory *store.InventoryStore
	carts     *store.CartStore
	sessions  *store.SessionStore
	tokens    *auth.TokenIssuer
	base      *Base
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	views, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}

	inv := store.NewInventoryStore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		db:        db,
		accounts:  store.NewAccountStore(db),
		messages:  store.NewMessageStore(db),
		inventory: inv,
		carts:     store.NewCartStore(db),
		sessions:  store.NewSessionStore(db, testSessionKey),
		tokens:    auth.NewTokenIssuer("test-secret", false),
		base:      NewBase(inv, views, logger),
	}
}

// do runs h behind the session middleware the way the server mounts it.
func (e *testEnv) do(h HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			e.base.Error(w, r, err)
		}
	})
	session.Middleware(e.sessions, e.base.logger)(inner).ServeHTTP(w, r)
	return w
}

// flashes returns the notices stored in the session cookie set by w.
func (e *testEnv) flashes(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	var out []string
	e.do(func(w http.ResponseWriter, r *http.Request) error {
		for _, f := range session.FromContext(r.Context()).Flashes() {
			out = append(out, f.Message)
		}
		return nil
	}, r)
	return out
}

func (e *testEnv) createAccount(t *testing.T, first, last, email, password string, typ model.AccountType) *model.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	a, err := e.accounts.Register(context.Background(), first, last, email, hash)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if typ != model.AccountClient {
		if _, err := e.db.Exec("UPDATE account SET account_type = ? WHERE account_id = ?", string(typ), a.ID); err != nil {
			t.Fatalf("set account type: %v", err)
		}
		a.Type = typ
	}
	return a
}

func postForm(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func as(r *http.Request, a *model.Account) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), auth.PrincipalFor(a)))
}

func withCookies(r *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}
