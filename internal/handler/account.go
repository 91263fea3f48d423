package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
)

const emailExistsMessage = "Email exists. Please log in or use different email"

type AccountHandler struct {
	*Base
	accounts *store.AccountStore
	messages *store.MessageStore
	tokens   *auth.TokenIssuer
}

func NewAccountHandler(base *Base, as *store.AccountStore, ms *store.MessageStore, tokens *auth.TokenIssuer) *AccountHandler {
	return &AccountHandler{Base: base, accounts: as, messages: ms, tokens: tokens}
}

func (h *AccountHandler) LoginPage(w http.ResponseWriter, r *http.Request) error {
	return h.renderLogin(w, r, http.StatusOK, "")
}

func (h *AccountHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string, errs ...string) error {
	return h.render(w, r, status, "account/login", "Login", map[string]any{"Email": email}, errs...)
}

// Login verifies the credentials and sets the jwt cookie. No cookie is
// written on any failure path.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) error {
	email := strings.TrimSpace(r.FormValue("account_email"))
	password := r.FormValue("account_password")

	var v validator
	v.email(email)
	v.required(password, "Password is required.")
	if !v.valid() {
		return h.renderLogin(w, r, http.StatusBadRequest, email, v.errs...)
	}

	sess := session.FromContext(r.Context())
	account, err := h.accounts.GetByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		sess.AddFlash(session.KindNotice, "Login process failed.")
		return h.renderLogin(w, r, http.StatusInternalServerError, email)
	}
	if account == nil {
		sess.AddFlash(session.KindNotice, "Please check your credentials and try again.")
		return h.renderLogin(w, r, http.StatusBadRequest, email)
	}
	if !auth.CheckPassword(account.Password, password) {
		sess.AddFlash(session.KindNotice, "Incorrect password.")
		return h.renderLogin(w, r, http.StatusBadRequest, email)
	}

	account.Password = ""
	if err := h.tokens.SetCookie(w, account); err != nil {
		h.logger.Error("issue token", "error", err, "account_id", account.ID)
		sess.AddFlash(session.KindNotice, "Login process failed.")
		return h.renderLogin(w, r, http.StatusInternalServerError, email)
	}
	http.Redirect(w, r, "/account", http.StatusSeeOther)
	return nil
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	h.tokens.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}

func (h *AccountHandler) RegisterPage(w http.ResponseWriter, r *http.Request) error {
	return h.renderRegister(w, r, http.StatusOK, "", "", "")
}

func (h *AccountHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, first, last, email string, errs ...string) error {
	data := map[string]any{"FirstName": first, "LastName": last, "Email": email}
	return h.render(w, r, status, "account/register", "Register", data, errs...)
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) error {
	first := strings.TrimSpace(r.FormValue("account_firstname"))
	last := strings.TrimSpace(r.FormValue("account_lastname"))
	email := strings.TrimSpace(r.FormValue("account_email"))
	password := r.FormValue("account_password")

	var v validator
	v.required(first, "Please provide a first name.")
	v.required(last, "Please provide a last name.")
	v.email(email)
	v.password(password)
	if !v.valid() {
		return h.renderRegister(w, r, http.StatusBadRequest, first, last, email, v.errs...)
	}

	sess := session.FromContext(r.Context())
	fail := func(err error) error {
		h.logger.Error("register account", "error", err)
		sess.AddFlash(session.KindNotice, "An error occurred during registration.")
		return h.renderRegister(w, r, http.StatusInternalServerError, first, last, email)
	}

	exists, err := h.accounts.CheckExistingEmail(r.Context(), email, "")
	if err != nil {
		return fail(err)
	}
	if exists {
		return h.renderRegister(w, r, http.StatusBadRequest, first, last, email, emailExistsMessage)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fail(err)
	}
	if _, err := h.accounts.Register(r.Context(), first, last, email, hash); err != nil {
		return fail(err)
	}

	return redirect(w, r, "/account/login", session.KindNotice,
		fmt.Sprintf("Congratulations, %s. You're registered. Please log in.", first))
}

// Management is the account landing page with the unread message count.
func (h *AccountHandler) Management(w http.ResponseWriter, r *http.Request) error {
	status := http.StatusOK
	unread, err := h.messages.CountUnread(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		h.logger.Error("count unread messages", "error", err)
		status = http.StatusInternalServerError
	}
	return h.render(w, r, status, "account/management", "Account Management", map[string]any{"Unread": unread})
}

// target resolves which account a request acts on. An empty raw id means
// the caller's own account; any other account needs an Admin. When the
// returned account is nil the request has already been answered.
func (h *AccountHandler) target(w http.ResponseWriter, r *http.Request, raw string) (*model.Account, error) {
	self := auth.AccountID(r.Context())
	id := self
	if raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, redirect(w, r, "/account", session.KindNotice, "Account not found.")
		}
		id = parsed
	}
	if id != self && !auth.IsAdmin(r.Context()) {
		return nil, redirect(w, r, "/account", session.KindNotice, "Access denied. Admins only.")
	}

	account, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("load account", "error", err, "account_id", id)
		return nil, redirect(w, r, "/account", session.KindNotice, "Unable to load update form.")
	}
	if account == nil {
		return nil, redirect(w, r, "/account", session.KindNotice, "Account not found.")
	}
	return account, nil
}

func (h *AccountHandler) renderUpdate(w http.ResponseWriter, r *http.Request, status int, id int64, first, last, email string, errs ...string) error {
	data := map[string]any{"AccountID": id, "FirstName": first, "LastName": last, "Email": email}
	return h.render(w, r, status, "account/update", "Update Account", data, errs...)
}

// UpdatePage serves both /account/update and /account/update/{account_id}.
func (h *AccountHandler) UpdatePage(w http.ResponseWriter, r *http.Request) error {
	account, err := h.target(w, r, r.PathValue("account_id"))
	if account == nil {
		return err
	}
	return h.renderUpdate(w, r, http.StatusOK, account.ID, account.FirstName, account.LastName, account.Email)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) error {
	current, err := h.target(w, r, strings.TrimSpace(r.FormValue("account_id")))
	if current == nil {
		return err
	}

	first := strings.TrimSpace(r.FormValue("account_firstname"))
	last := strings.TrimSpace(r.FormValue("account_lastname"))
	email := strings.TrimSpace(r.FormValue("account_email"))

	var v validator
	v.required(first, "Please provide a first name.")
	v.required(last, "Please provide a last name.")
	v.email(email)
	if !v.valid() {
		return h.renderUpdate(w, r, http.StatusBadRequest, current.ID, first, last, email, v.errs...)
	}

	sess := session.FromContext(r.Context())
	fail := func(err error) error {
		h.logger.Error("update account", "error", err, "account_id", current.ID)
		sess.AddFlash(session.KindNotice, "Update failed.")
		return h.renderUpdate(w, r, http.StatusInternalServerError, current.ID, first, last, email)
	}

	exists, err := h.accounts.CheckExistingEmail(r.Context(), email, current.Email)
	if err != nil {
		return fail(err)
	}
	if exists {
		return h.renderUpdate(w, r, http.StatusBadRequest, current.ID, first, last, email, emailExistsMessage)
	}

	updated, err := h.accounts.Update(r.Context(), current.ID, first, last, email)
	if err != nil {
		return fail(err)
	}
	if updated == nil {
		return fail(fmt.Errorf("account %d disappeared", current.ID))
	}

	if updated.ID == auth.AccountID(r.Context()) {
		updated.Password = ""
		if err := h.tokens.SetCookie(w, updated); err != nil {
			return fail(err)
		}
	}
	return redirect(w, r, "/account", session.KindSuccess, "Account updated successfully.")
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) error {
	current, err := h.target(w, r, strings.TrimSpace(r.FormValue("account_id")))
	if current == nil {
		return err
	}

	password := r.FormValue("account_password")
	var v validator
	v.password(password)
	if !v.valid() {
		return h.renderUpdate(w, r, http.StatusBadRequest, current.ID, current.FirstName, current.LastName, current.Email, v.errs...)
	}

	sess := session.FromContext(r.Context())
	hash, err := auth.HashPassword(password)
	if err == nil {
		var changed bool
		changed, err = h.accounts.UpdatePassword(r.Context(), current.ID, hash)
		if err == nil && changed {
			return redirect(w, r, "/account", session.KindSuccess, "Password updated successfully.")
		}
	}

	h.logger.Error("update password", "error", err, "account_id", current.ID)
	sess.AddFlash(session.KindNotice, "Password update failed.")
	return h.renderUpdate(w, r, http.StatusInternalServerError, current.ID, current.FirstName, current.LastName, current.Email)
}

// AdminList shows every account to an Admin.
func (h *AccountHandler) AdminList(w http.ResponseWriter, r *http.Request) error {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		return err
	}
	return h.render(w, r, http.StatusOK, "account/admin", "Account Administration", map[string]any{"Accounts": accounts})
}
