package services

import (
	"context"
	"fmt"
	"sort"

	"hoopsleague/domain/entities"
	"hoopsleague/domain/interfaces"
	"hoopsleague/domain/utils"

	log "github.com/sirupsen/logrus"
)

// TransferRef describes why money moves. It is copied onto the financial
// transaction recorded for each side of the movement.
type TransferRef struct {
	DebitType   entities.TransactionType
	CreditType  entities.TransactionType
	RelatedID   int64
	RelatedType entities.RelatedType
	Metadata    map[string]interface{}
}

func (r TransferRef) record(accountID, before, after int64, txType entities.TransactionType) *entities.FinancialTransaction {
	metadata := make(map[string]interface{}, len(r.Metadata))
	for k, v := range r.Metadata {
		metadata[k] = v
	}

	record := &entities.FinancialTransaction{
		AccountID:       accountID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: txType,
		Metadata:        metadata,
	}
	if r.RelatedID != 0 {
		relatedID := r.RelatedID
		relatedType := r.RelatedType
		record.RelatedID = &relatedID
		record.RelatedType = &relatedType
	}
	return record
}

// PoolSettlement describes how an amount was spread over the admin pool.
// Remainder is the part of Amount that floor division left undistributed.
type PoolSettlement struct {
	Amount      int64
	Share       int64
	Distributed int64
	Remainder   int64
	AccountIDs  []int64
}

// Ledger is the only component allowed to change account balances.
// It never opens or commits a transaction; callers pass their unit of work.
type Ledger struct{}

// NewLedger creates a new ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Transfer moves amount from one account to another
func (l *Ledger) Transfer(ctx context.Context, uow interfaces.UnitOfWork, fromID, toID int64, amount int64, ref TransferRef) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if fromID == toID {
		return &ValidationError{Field: "to_account", Reason: "cannot transfer to the same account"}
	}

	// Lock both rows in id order
	lowID, highID := fromID, toID
	if lowID > highID {
		lowID, highID = highID, lowID
	}
	low, err := l.lockAccount(ctx, uow, lowID)
	if err != nil {
		return err
	}
	high, err := l.lockAccount(ctx, uow, highID)
	if err != nil {
		return err
	}

	from, to := low, high
	if from.ID != fromID {
		from, to = high, low
	}

	if !from.HasSufficientBalance(amount) {
		return newInsufficientFundsError(string(from.Role), from.ID, amount, from.Balance)
	}

	if _, err := l.debit(ctx, uow, from, amount, ref.DebitType, ref); err != nil {
		return err
	}
	if _, err := l.credit(ctx, uow, to.ID, amount, ref.CreditType, ref); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"fromAccount": from.ID,
		"toAccount":   to.ID,
		"amount":      amount,
	}).Info("Transferred funds")
	return nil
}

// SplitCredit credits amount/len(accounts), rounded down, to every account in id order.
// The remainder is not credited anywhere; it is reported in the settlement.
func (l *Ledger) SplitCredit(ctx context.Context, uow interfaces.UnitOfWork, amount int64, accounts []*entities.Account, ref TransferRef) (*PoolSettlement, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if len(accounts) == 0 {
		return nil, &ValidationError{Field: "accounts", Reason: "no accounts to credit"}
	}

	ordered := sortAccountsByID(accounts)
	settlement := newPoolSettlement(amount, ordered)
	if settlement.Share == 0 {
		log.WithFields(log.Fields{
			"amount":   amount,
			"accounts": len(ordered),
		}).Warn("Amount too small to split, nothing credited")
		return settlement, nil
	}

	for _, account := range ordered {
		if _, err := l.credit(ctx, uow, account.ID, settlement.Share, ref.CreditType, ref); err != nil {
			return nil, err
		}
	}

	return settlement, nil
}

// ChargeToPool charges a fee from the payer to the admin pool. The payer must
// cover the full fee, but is only debited what the pool actually receives, so
// the floor-division remainder stays with the payer.
func (l *Ledger) ChargeToPool(ctx context.Context, uow interfaces.UnitOfWork, payerID int64, amount int64, ref TransferRef) (*PoolSettlement, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	// Lock order: payer first, then admins by id
	payer, err := l.lockAccount(ctx, uow, payerID)
	if err != nil {
		return nil, err
	}
	admins, err := l.lockAdminPool(ctx, uow)
	if err != nil {
		return nil, err
	}

	if !payer.HasSufficientBalance(amount) {
		return nil, newInsufficientFundsError(string(payer.Role), payer.ID, amount, payer.Balance)
	}

	settlement := newPoolSettlement(amount, admins)
	if settlement.Distributed > 0 {
		if _, err := l.debit(ctx, uow, payer, settlement.Distributed, ref.DebitType, ref); err != nil {
			return nil, err
		}
		for _, admin := range admins {
			if _, err := l.credit(ctx, uow, admin.ID, settlement.Share, ref.CreditType, ref); err != nil {
				return nil, err
			}
		}
	}

	log.WithFields(log.Fields{
		"payer":       payer.ID,
		"amount":      amount,
		"distributed": settlement.Distributed,
		"share":       settlement.Share,
		"admins":      len(admins),
	}).Info("Charged fee to admin pool")
	return settlement, nil
}

// RefundFromPool pays amount back from the admin pool to the recipient. Each
// admin is debited amount/n rounded down and the recipient receives the sum.
func (l *Ledger) RefundFromPool(ctx context.Context, uow interfaces.UnitOfWork, recipientID int64, amount int64, ref TransferRef) (*PoolSettlement, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	recipient, err := l.lockAccount(ctx, uow, recipientID)
	if err != nil {
		return nil, err
	}
	admins, err := l.lockAdminPool(ctx, uow)
	if err != nil {
		return nil, err
	}

	var combined int64
	for _, admin := range admins {
		combined += admin.Balance
	}
	if combined < amount {
		return nil, newInsufficientFundsError(PayerAdminPool, 0, amount, combined)
	}

	settlement := newPoolSettlement(amount, admins)

	// Every admin must cover their share before anything is written
	for _, admin := range admins {
		if !admin.HasSufficientBalance(settlement.Share) {
			return nil, newInsufficientFundsError(PayerAdminPool, admin.ID, settlement.Share, admin.Balance)
		}
	}

	if settlement.Distributed > 0 {
		for _, admin := range admins {
			if _, err := l.debit(ctx, uow, admin, settlement.Share, ref.DebitType, ref); err != nil {
				return nil, err
			}
		}
		if _, err := l.credit(ctx, uow, recipient.ID, settlement.Distributed, ref.CreditType, ref); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"recipient":   recipient.ID,
		"amount":      amount,
		"distributed": settlement.Distributed,
		"admins":      len(admins),
	}).Info("Refunded from admin pool")
	return settlement, nil
}

func (l *Ledger) lockAccount(ctx context.Context, uow interfaces.UnitOfWork, id int64) (*entities.Account, error) {
	account, err := uow.AccountRepository().GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	if account == nil {
		return nil, &NotFoundError{Entity: "account", ID: id}
	}
	return account, nil
}

func (l *Ledger) lockAdminPool(ctx context.Context, uow interfaces.UnitOfWork) ([]*entities.Account, error) {
	admins, err := uow.AccountRepository().ListAdminsForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock admin accounts: %w", err)
	}
	if len(admins) == 0 {
		return nil, &ValidationError{Field: "admin_pool", Reason: "no admin accounts exist"}
	}
	return sortAccountsByID(admins), nil
}

func (l *Ledger) debit(ctx context.Context, uow interfaces.UnitOfWork, account *entities.Account, amount int64, txType entities.TransactionType, ref TransferRef) (*entities.Account, error) {
	updated, err := uow.AccountRepository().Debit(ctx, account.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit account %d: %w", account.ID, err)
	}
	if updated == nil {
		return nil, newInsufficientFundsError(string(account.Role), account.ID, amount, account.Balance)
	}

	record := ref.record(updated.ID, updated.Balance+amount, updated.Balance, txType)
	if err := utils.RecordBalanceChange(ctx, uow.FinancialTransactionRepository(), uow.EventBus(), record); err != nil {
		return nil, err
	}
	return updated, nil
}

func (l *Ledger) credit(ctx context.Context, uow interfaces.UnitOfWork, accountID int64, amount int64, txType entities.TransactionType, ref TransferRef) (*entities.Account, error) {
	updated, err := uow.AccountRepository().Credit(ctx, accountID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit account %d: %w", accountID, err)
	}
	if updated == nil {
		return nil, &NotFoundError{Entity: "account", ID: accountID}
	}

	record := ref.record(updated.ID, updated.Balance-amount, updated.Balance, txType)
	if err := utils.RecordBalanceChange(ctx, uow.FinancialTransactionRepository(), uow.EventBus(), record); err != nil {
		return nil, err
	}
	return updated, nil
}

func newPoolSettlement(amount int64, accounts []*entities.Account) *PoolSettlement {
	n := int64(len(accounts))
	share := amount / n
	ids := make([]int64, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}
	return &PoolSettlement{
		Amount:      amount,
		Share:       share,
		Distributed: share * n,
		Remainder:   amount - share*n,
		AccountIDs:  ids,
	}
}

func sortAccountsByID(accounts []*entities.Account) []*entities.Account {
	ordered := make([]*entities.Account, len(accounts))
	copy(ordered, accounts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
