package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
)

const placeholderImage = "/images/placeholder.png"

type CartHandler struct {
	*Base
	carts *store.CartStore
}

func NewCartHandler(base *Base, cs *store.CartStore) *CartHandler {
	return &CartHandler{Base: base, carts: cs}
}

// Add puts one unit of the posted item in the session's cart and returns to
// the referring page.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) error {
	name := strings.TrimSpace(r.FormValue("name"))
	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if name == "" || err != nil || price < 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return redirect(w, r, back(r), session.KindError, "Missing item name or price.")
	}

	image := strings.TrimSpace(r.FormValue("image"))
	if image == "" {
		image = placeholderImage
	}

	sess := session.FromContext(r.Context())
	item := model.CartItem{Name: name, Image: image, Price: price}
	if _, err := h.carts.Add(r.Context(), sess.ID(), item); err != nil {
		h.logger.Error("add to cart", "error", err, "item", name)
		return redirect(w, r, back(r), session.KindError, "There was a problem adding the item to the cart.")
	}
	return redirect(w, r, back(r), session.KindSuccess, fmt.Sprintf("%s added to cart.", name))
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) error {
	cart, err := h.carts.List(r.Context(), session.FromContext(r.Context()).ID())
	if err != nil {
		return err
	}
	data := map[string]any{
		"Cart":  cart,
		"Total": fmt.Sprintf("%.2f", cart.Total()),
	}
	return h.render(w, r, http.StatusOK, "cart/view", "Your Cart", data)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) error {
	if err := h.carts.Clear(r.Context(), session.FromContext(r.Context()).ID()); err != nil {
		return err
	}
	return redirect(w, r, "/cart/view", session.KindInfo, "Cart cleared.")
}
