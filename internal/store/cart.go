package store

import (
	"context"
	"time"

	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
)

// CartStore keeps cart lines keyed by session id.
type CartStore struct {
	db *database.DB
}

func NewCartStore(db *database.DB) *CartStore {
	return &CartStore{db: db}
}

// Add puts item in the session's cart. A line with the same name has its
// quantity incremented instead of a second line being added. It returns the
// line's resulting quantity.
func (s *CartStore) Add(ctx context.Context, sessionID string, item model.CartItem) (int, error) {
	var qty int
	err := s.db.WithTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		return tx.QueryRowContext(ctx,
			`INSERT INTO cart_item (session_id, item_name, item_image, item_price, item_quantity)
			VALUES (?, ?, ?, ?, 1)
			ON CONFLICT (session_id, item_name)
			DO UPDATE SET item_quantity = cart_item.item_quantity + 1
			RETURNING item_quantity`,
			sessionID, item.Name, item.Image, item.Price,
		).Scan(&qty)
	})
	if err != nil {
		return 0, dataErr("add cart item", err)
	}
	return qty, nil
}

// List returns the session's cart lines in the order they were first added.
func (s *CartStore) List(ctx context.Context, sessionID string) (model.Cart, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_name, item_image, item_price, item_quantity
		FROM cart_item WHERE session_id = ? ORDER BY cart_item_id`,
		sessionID,
	)
	if err != nil {
		return nil, dataErr("list cart", err)
	}
	defer rows.Close()

	var cart model.Cart
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.Name, &item.Image, &item.Price, &item.Quantity); err != nil {
			return nil, dataErr("scan cart item", err)
		}
		cart = append(cart, item)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list cart", err)
	}
	return cart, nil
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_item WHERE session_id = ?`, sessionID); err != nil {
		return dataErr("clear cart", err)
	}
	return nil
}

// DeleteOrphans removes lines whose session no longer exists or has expired.
func (s *CartStore) DeleteOrphans(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_item WHERE session_id NOT IN (
			SELECT session_id FROM session WHERE expires_at > ?
		)`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, dataErr("delete orphan cart items", err)
	}
	return result.RowsAffected()
}
