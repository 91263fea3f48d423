package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/csemotors/internal/auth"
	"github.com/dukerupert/csemotors/internal/model"
	"github.com/dukerupert/csemotors/internal/session"
	"github.com/dukerupert/csemotors/internal/store"
	"github.com/dukerupert/csemotors/internal/view"
	"github.com/dukerupert/csemotors/internal/websocket"
)

const inboxPath = "/message"

// Notifier pushes a message to an account's live connections.
type Notifier interface {
	Notify(accountID int64, msg websocket.Message)
}

type MessageHandler struct {
	*Base
	messages *store.MessageStore
	accounts *store.AccountStore
	hub      Notifier
}

func NewMessageHandler(base *Base, ms *store.MessageStore, as *store.AccountStore, hub Notifier) *MessageHandler {
	return &MessageHandler{Base: base, messages: ms, accounts: as, hub: hub}
}

// notifyUnread sends the account's current unread count to its open pages.
func (h *MessageHandler) notifyUnread(ctx context.Context, accountID int64) {
	if h.hub == nil {
		return
	}
	n, err := h.messages.CountUnread(ctx, accountID)
	if err != nil {
		h.logger.Error("count unread messages", "error", err, "account_id", accountID)
		return
	}
	h.hub.Notify(accountID, websocket.UnreadMessage(n))
}

func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) error {
	return h.list(w, r, false)
}

func (h *MessageHandler) Archive(w http.ResponseWriter, r *http.Request) error {
	return h.list(w, r, true)
}

func (h *MessageHandler) list(w http.ResponseWriter, r *http.Request, archived bool) error {
	p, _ := auth.FromContext(r.Context())
	messages, err := h.messages.ListTo(r.Context(), p.AccountID, archived)
	if err != nil {
		return err
	}

	archivedCount := len(messages)
	title := fmt.Sprintf("%s %s Archived Messages", p.FirstName, p.LastName)
	if !archived {
		archivedCount, err = h.messages.CountTo(r.Context(), p.AccountID, true)
		if err != nil {
			return err
		}
		title = fmt.Sprintf("%s %s Inbox", p.FirstName, p.LastName)
	}

	data := map[string]any{
		"Inbox":         view.Inbox(messages),
		"Archived":      archived,
		"ArchivedCount": archivedCount,
	}
	return h.render(w, r, http.StatusOK, "message/inbox", title, data)
}

// owned loads the message named by the id path value when it was sent to
// the caller. Otherwise the request is answered with a redirect to the
// inbox and the returned message is nil.
func (h *MessageHandler) owned(w http.ResponseWriter, r *http.Request) (*model.Message, error) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		return nil, redirect(w, r, inboxPath, session.KindNotice, "Message not found.")
	}
	m, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if m == nil || m.To != auth.AccountID(r.Context()) {
		return nil, redirect(w, r, inboxPath, session.KindNotice, "Message not found.")
	}
	return m, nil
}

// View shows one message and marks it read the first time it is opened.
func (h *MessageHandler) View(w http.ResponseWriter, r *http.Request) error {
	m, err := h.owned(w, r)
	if m == nil {
		return err
	}
	if !m.Read {
		if m.Read, err = h.messages.ToggleRead(r.Context(), m.ID); err != nil {
			return err
		}
		h.notifyUnread(r.Context(), m.To)
	}
	return h.render(w, r, http.StatusOK, "message/view", m.Subject, map[string]any{"Message": m})
}

func (h *MessageHandler) renderSend(w http.ResponseWriter, r *http.Request, status int, to int64, subject, body string, errs ...string) error {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		return err
	}
	data := map[string]any{
		"Recipients": view.RecipientList(accounts, to),
		"Subject":    subject,
		"Body":       body,
	}
	return h.render(w, r, status, "message/send", "New Message", data, errs...)
}

// SendPage shows the compose form. ?to= preselects a recipient and ?reply=
// prefills a reply to one of the caller's messages.
func (h *MessageHandler) SendPage(w http.ResponseWriter, r *http.Request) error {
	to, _ := strconv.ParseInt(r.URL.Query().Get("to"), 10, 64)
	var subject string

	if replyID, err := strconv.ParseInt(r.URL.Query().Get("reply"), 10, 64); err == nil {
		m, err := h.messages.GetByID(r.Context(), replyID)
		if err != nil {
			return err
		}
		if m != nil && m.To == auth.AccountID(r.Context()) {
			to = m.From
			subject = m.Subject
			if !strings.HasPrefix(subject, "RE: ") {
				subject = "RE: " + subject
			}
		}
	}
	return h.renderSend(w, r, http.StatusOK, to, subject, "")
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) error {
	subject := strings.TrimSpace(r.FormValue("message_subject"))
	body := strings.TrimSpace(r.FormValue("message_body"))
	to, toErr := strconv.ParseInt(r.FormValue("message_to"), 10, 64)

	var v validator
	v.check(toErr == nil, "Please select a recipient.")
	v.required(subject, "Please provide a subject.")
	v.required(body, "Please provide a message.")
	if v.valid() {
		recipient, err := h.accounts.GetByID(r.Context(), to)
		if err != nil {
			return err
		}
		v.check(recipient != nil, "Please select a valid recipient.")
	}
	if !v.valid() {
		return h.renderSend(w, r, http.StatusBadRequest, to, subject, body, v.errs...)
	}

	_, err := h.messages.Send(r.Context(), store.SendInput{
		Subject: subject,
		Body:    body,
		To:      to,
		From:    auth.AccountID(r.Context()),
	})
	if err != nil {
		h.logger.Error("send message", "error", err)
		session.FromContext(r.Context()).AddFlash(session.KindNotice, "Sorry, the message could not be sent.")
		return h.renderSend(w, r, http.StatusInternalServerError, to, subject, body)
	}

	h.notifyUnread(r.Context(), to)
	return redirect(w, r, inboxPath, session.KindSuccess, "Message sent.")
}

func (h *MessageHandler) ToggleRead(w http.ResponseWriter, r *http.Request) error {
	m, err := h.owned(w, r)
	if m == nil {
		return err
	}
	read, err := h.messages.ToggleRead(r.Context(), m.ID)
	if err != nil {
		return err
	}
	h.notifyUnread(r.Context(), m.To)

	msg := "Message marked as unread."
	if read {
		msg = "Message marked as read."
	}
	return redirect(w, r, inboxPath, session.KindSuccess, msg)
}

func (h *MessageHandler) ToggleArchived(w http.ResponseWriter, r *http.Request) error {
	m, err := h.owned(w, r)
	if m == nil {
		return err
	}
	archived, err := h.messages.ToggleArchived(r.Context(), m.ID)
	if err != nil {
		return err
	}
	h.notifyUnread(r.Context(), m.To)

	msg := "Message restored to inbox."
	if archived {
		msg = "Message archived."
	}
	return redirect(w, r, inboxPath, session.KindSuccess, msg)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	m, err := h.owned(w, r)
	if m == nil {
		return err
	}
	if err := h.messages.Delete(r.Context(), m.ID); err != nil {
		return err
	}
	h.notifyUnread(r.Context(), m.To)
	return redirect(w, r, inboxPath, session.KindSuccess, "Message deleted.")
}
