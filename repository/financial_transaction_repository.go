package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const financialTransactionColumns = `id, user_id, balance_before, balance_after, change_amount,
	transaction_type, metadata, related_id, related_type, created_at`

// FinancialTransactionRepository implements the FinancialTransactionRepository interface
type FinancialTransactionRepository struct {
	q queryable
}

// NewFinancialTransactionRepository creates a new financial transaction repository
func NewFinancialTransactionRepository(db *database.DB) *FinancialTransactionRepository {
	return &FinancialTransactionRepository{q: db.Pool}
}

func newFinancialTransactionRepository(q queryable) *FinancialTransactionRepository {
	return &FinancialTransactionRepository{q: q}
}

// Record stores one balance change
func (r *FinancialTransactionRepository) Record(ctx context.Context, tx *entities.FinancialTransaction) error {
	metadata := tx.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO financial_transactions
		(user_id, balance_before, balance_after, change_amount, transaction_type, metadata, related_id, related_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		tx.AccountID,
		tx.BalanceBefore,
		tx.BalanceAfter,
		tx.ChangeAmount,
		tx.TransactionType,
		metadataJSON,
		tx.RelatedID,
		tx.RelatedType,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record financial transaction for account %d: %w", tx.AccountID, err)
	}

	return nil
}

// ListByAccount returns the most recent transactions of an account, newest first
func (r *FinancialTransactionRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.FinancialTransaction, error) {
	query := `
		SELECT ` + financialTransactionColumns + `
		FROM financial_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %d: %w", accountID, err)
	}
	return collectFinancialTransactions(rows)
}

// ListByRelated returns every transaction made for one entity, in insert order
func (r *FinancialTransactionRepository) ListByRelated(ctx context.Context, relatedType entities.RelatedType, relatedID int64) ([]*entities.FinancialTransaction, error) {
	query := `
		SELECT ` + financialTransactionColumns + `
		FROM financial_transactions
		WHERE related_type = $1 AND related_id = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, relatedType, relatedID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for %s %d: %w", relatedType, relatedID, err)
	}
	return collectFinancialTransactions(rows)
}

func collectFinancialTransactions(rows pgx.Rows) ([]*entities.FinancialTransaction, error) {
	defer rows.Close()

	var transactions []*entities.FinancialTransaction
	for rows.Next() {
		var tx entities.FinancialTransaction
		var metadataJSON []byte
		err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.ChangeAmount,
			&tx.TransactionType,
			&metadataJSON,
			&tx.RelatedID,
			&tx.RelatedType,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial transaction: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating financial transactions: %w", err)
	}

	return transactions, nil
}
