package entities

import "time"

// RelatedType names the kind of entity a financial transaction was made for
type RelatedType string

const (
	RelatedTypeTournament    RelatedType = "tournament"
	RelatedTypeTeam          RelatedType = "team"
	RelatedTypeUpdateRequest RelatedType = "update_request"
)

// FinancialTransaction records a single change to one account balance
type FinancialTransaction struct {
	ID              int64                  `db:"id"`
	AccountID       int64                  `db:"account_id"`
	BalanceBefore   int64                  `db:"balance_before"`
	BalanceAfter    int64                  `db:"balance_after"`
	ChangeAmount    int64                  `db:"change_amount"`
	TransactionType TransactionType        `db:"transaction_type"`
	Metadata        map[string]interface{} `db:"metadata"`
	RelatedID       *int64                 `db:"related_id"`
	RelatedType     *RelatedType           `db:"related_type"`
	CreatedAt       time.Time              `db:"created_at"`
}

// IsDebit returns true if the transaction reduced the balance
func (ft *FinancialTransaction) IsDebit() bool {
	return ft.ChangeAmount < 0
}
