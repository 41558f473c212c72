package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, username, role, balance, created_at, updated_at`

// AccountRepository implements the AccountRepository interface on the users table
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepository creates an account repository bound to a transaction
func newAccountRepository(q queryable) *AccountRepository {
	return &AccountRepository{q: q}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Role,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetForUpdate retrieves an account and locks its row until the transaction ends
func (r *AccountRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return account, nil
}

// ListAdminsForUpdate locks every admin account in id order
func (r *AccountRepository) ListAdminsForUpdate(ctx context.Context) ([]*entities.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users
		WHERE role = $1
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, entities.UserRoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin accounts: %w", err)
	}
	defer rows.Close()

	var admins []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin account: %w", err)
		}
		admins = append(admins, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admin accounts: %w", err)
	}

	return admins, nil
}

// Create creates a new account with an opening balance
func (r *AccountRepository) Create(ctx context.Context, username string, role entities.UserRole, balance int64) (*entities.Account, error) {
	query := `
		INSERT INTO users (username, role, balance)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, username, role, balance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", username, err)
	}
	return account, nil
}

// Credit adds amount to an account and returns the updated row
func (r *AccountRepository) Credit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit account %d: %w", id, err)
	}
	return account, nil
}

// Debit subtracts amount from an account only if the balance covers it.
// Returns nil without error when it does not.
func (r *AccountRepository) Debit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to debit account %d: %w", id, err)
	}
	return account, nil
}
