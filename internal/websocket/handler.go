package websocket

import (
	"context"
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/csemotors/internal/auth"
)

// UnreadCounter reports an account's unread inbox count.
type UnreadCounter interface {
	CountUnread(ctx context.Context, accountID int64) (int, error)
}

// HandleWebSocket upgrades a logged-in request and streams unread-count
// updates for the account. The current count is sent on connect.
func HandleWebSocket(hub *Hub, counter UnreadCounter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, p.AccountID)
		if n, err := counter.CountUnread(r.Context(), p.AccountID); err == nil {
			client.queue(UnreadMessage(n))
		} else {
			logger.Error("failed to count unread messages", "error", err, "account_id", p.AccountID)
		}
		client.Run(r.Context())
	}
}
