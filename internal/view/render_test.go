package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
)

func TestNewRendererParsesPages(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	for _, name := range []string{
		"index", "errors/error",
		"account/login", "account/register", "account/management", "account/update", "account/admin",
		"cart/view",
		"message/inbox", "message/view", "message/send",
		"inventory/classification", "inventory/detail", "inventory/management",
	} {
		if !r.Has(name) {
			t.Errorf("missing page %q", name)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusNotFound, "errors/error", &Page{
		Title:   "404",
		Nav:     Nav([]model.Classification{{ID: 1, Name: "Custom"}}),
		Theme:   ThemeDark,
		Account: &auth.Principal{AccountID: 1, FirstName: "Ada"},
		Flashes: []session.Flash{{Kind: session.KindNotice, Message: "Please log in."}},
		Data:    map[string]any{"Message": "Unfortunately, we don't have that page in stock."},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>404 | CSE Motors</title>",
		`<a href="/inv/type/1"`,
		"Welcome Ada",
		`<div class="flash notice">Please log in.</div>`,
		"we don&#39;t have that page in stock.",
		`class="theme-dark"`,
		"Light mode",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderCart(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	cart := model.Cart{{Name: "Model T", Image: "/images/placeholder.png", Price: 19999.99, Quantity: 1}}
	rec := httptest.NewRecorder()
	err = r.Render(rec, http.StatusOK, "cart/view", &Page{
		Title: "Your Cart",
		Data:  map[string]any{"Cart": cart, "Total": "19999.99"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `<span id="cart-total">19999.99</span>`) {
		t.Errorf("total missing from body: %s", rec.Body.String())
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, http.StatusOK, "nope", &Page{}); err == nil {
		t.Fatal("expected error for unknown page")
	}
	if rec.Body.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}
