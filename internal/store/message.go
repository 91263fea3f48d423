package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
)

type MessageStore struct {
	db *database.DB
}

func NewMessageStore(db *database.DB) *MessageStore {
	return &MessageStore{db: db}
}

type SendInput struct {
	Subject string
	Body    string
	To      int64
	From    int64
}

const messageCols = `m.message_id, m.message_subject, m.message_body, m.message_created,
	m.message_to, m.message_from, m.message_read, m.message_archived,
	a.account_firstname, a.account_lastname, a.account_type`

const messageFrom = ` FROM message m JOIN account a ON a.account_id = m.message_from`

func scanMessage(scanner interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	err := scanner.Scan(
		&m.ID, &m.Subject, &m.Body, &m.Created,
		&m.To, &m.From, &m.Read, &m.Archived,
		&m.FromFirstName, &m.FromLastName, &m.FromType,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListTo returns the messages addressed to accountID with the given archived
// flag, newest first.
func (s *MessageStore) ListTo(ctx context.Context, accountID int64, archived bool) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageCols+messageFrom+`
		WHERE m.message_to = ? AND m.message_archived = ?
		ORDER BY m.message_created DESC, m.message_id DESC`,
		accountID, archived,
	)
	if err != nil {
		return nil, dataErr("list messages", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, dataErr("scan message", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list messages", err)
	}
	return messages, nil
}

func (s *MessageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageCols+messageFrom+` WHERE m.message_id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("get message", err)
	}
	return m, nil
}

func (s *MessageStore) Send(ctx context.Context, in SendInput) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO message (message_subject, message_body, message_created, message_to, message_from)
		VALUES (?, ?, ?, ?, ?)
		RETURNING message_id`,
		in.Subject, in.Body, time.Now().UTC(), in.To, in.From,
	).Scan(&id)
	if err != nil {
		return 0, dataErr("send message", err)
	}
	return id, nil
}

func (s *MessageStore) CountTo(ctx context.Context, accountID int64, archived bool) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE message_to = ? AND message_archived = ?`,
		accountID, archived,
	).Scan(&n)
	if err != nil {
		return 0, dataErr("count messages", err)
	}
	return n, nil
}

// CountUnread counts unread messages still in the inbox.
func (s *MessageStore) CountUnread(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE message_to = ? AND message_read = ? AND message_archived = ?`,
		accountID, false, false,
	).Scan(&n)
	if err != nil {
		return 0, dataErr("count unread messages", err)
	}
	return n, nil
}

func (s *MessageStore) ToggleRead(ctx context.Context, id int64) (bool, error) {
	return s.toggle(ctx, "toggle read", `UPDATE message SET message_read = NOT message_read
		WHERE message_id = ? RETURNING message_read`, id)
}

func (s *MessageStore) ToggleArchived(ctx context.Context, id int64) (bool, error) {
	return s.toggle(ctx, "toggle archived", `UPDATE message SET message_archived = NOT message_archived
		WHERE message_id = ? RETURNING message_archived`, id)
}

func (s *MessageStore) toggle(ctx context.Context, op, query string, id int64) (bool, error) {
	var v bool
	err := s.db.QueryRowContext(ctx, query, id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, dataErr(op, err)
	}
	return v, nil
}

func (s *MessageStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM message WHERE message_id = ?`, id)
	if err != nil {
		return dataErr("delete message", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dataErr("delete message", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
