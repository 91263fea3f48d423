package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
)

type AccountStore struct {
	db *database.DB
}

func NewAccountStore(db *database.DB) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(scanner interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	err := scanner.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Password, &a.Type)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const accountCols = `account_id, account_firstname, account_lastname, account_email, account_password, account_type`

// Register inserts a Client account and returns it without the password.
func (s *AccountStore) Register(ctx context.Context, firstname, lastname, email, passwordHash string) (*model.Account, error) {
	var a model.Account
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
		VALUES (?, ?, ?, ?, ?)
		RETURNING account_id, account_firstname, account_lastname, account_email, account_type`,
		firstname, lastname, email, passwordHash, string(model.AccountClient),
	).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Type)
	if err != nil {
		return nil, dataErr("register account", err)
	}
	return &a, nil
}

// CheckExistingEmail reports whether email belongs to an account. A
// non-empty excludeEmail is ignored in the comparison so an account can
// keep its own address on update.
func (s *AccountStore) CheckExistingEmail(ctx context.Context, email, excludeEmail string) (bool, error) {
	query := `SELECT COUNT(*) FROM account WHERE account_email = ?`
	args := []any{email}
	if excludeEmail != "" {
		query += ` AND account_email <> ?`
		args = append(args, excludeEmail)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, dataErr("check existing email", err)
	}
	return n > 0, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM account WHERE account_email = ?`, email)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("get account by email", err)
	}
	return a, nil
}

func (s *AccountStore) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM account WHERE account_id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("get account", err)
	}
	return a, nil
}

// Update changes the name and email fields. It returns nil when no account
// has the id.
func (s *AccountStore) Update(ctx context.Context, id int64, firstname, lastname, email string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE account SET account_firstname = ?, account_lastname = ?, account_email = ?
		WHERE account_id = ?
		RETURNING `+accountCols,
		firstname, lastname, email, id,
	)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dataErr("update account", err)
	}
	return a, nil
}

func (s *AccountStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE account SET account_password = ? WHERE account_id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return false, dataErr("update password", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, dataErr("update password", err)
	}
	return n > 0, nil
}

// List returns every account ordered by last name.
func (s *AccountStore) List(ctx context.Context) ([]model.AccountSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT account_id, account_firstname, account_lastname FROM account ORDER BY account_lastname ASC, account_id ASC`,
	)
	if err != nil {
		return nil, dataErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []model.AccountSummary
	for rows.Next() {
		var a model.AccountSummary
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, dataErr("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dataErr("list accounts", err)
	}
	return accounts, nil
}
