package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hoopsleague/domain/entities"
)

// FakeAccountRepository keeps balances in memory so tests can check totals
type FakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[int64]*entities.Account
	nextID   int64
	// Locked lists account ids in the order they were locked
	Locked []int64
}

// NewFakeAccountRepository creates a fake seeded with copies of accounts
func NewFakeAccountRepository(accounts ...*entities.Account) *FakeAccountRepository {
	f := &FakeAccountRepository{accounts: make(map[int64]*entities.Account)}
	for _, account := range accounts {
		copied := *account
		f.accounts[account.ID] = &copied
		if account.ID > f.nextID {
			f.nextID = account.ID
		}
	}
	return f
}

// Balance returns the current balance of an account
func (f *FakeAccountRepository) Balance(id int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		return account.Balance
	}
	return 0
}

// Total returns the sum of every balance
func (f *FakeAccountRepository) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total int64
	for _, account := range f.accounts {
		total += account.Balance
	}
	return total
}

func (f *FakeAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (f *FakeAccountRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := f.GetByID(ctx, id)
	if account != nil {
		f.mu.Lock()
		f.Locked = append(f.Locked, id)
		f.mu.Unlock()
	}
	return account, err
}

func (f *FakeAccountRepository) ListAdminsForUpdate(ctx context.Context) ([]*entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var admins []*entities.Account
	for _, account := range f.accounts {
		if account.IsAdmin() {
			copied := *account
			admins = append(admins, &copied)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	for _, admin := range admins {
		f.Locked = append(f.Locked, admin.ID)
	}
	return admins, nil
}

func (f *FakeAccountRepository) Create(ctx context.Context, username string, role entities.UserRole, balance int64) (*entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	now := time.Now()
	account := &entities.Account{ID: f.nextID, Username: username, Role: role, Balance: balance, CreatedAt: now, UpdatedAt: now}
	f.accounts[account.ID] = account
	copied := *account
	return &copied, nil
}

func (f *FakeAccountRepository) Credit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	account.Balance += amount
	copied := *account
	return &copied, nil
}

func (f *FakeAccountRepository) Debit(ctx context.Context, id int64, amount int64) (*entities.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d not found", id)
	}
	if account.Balance < amount {
		return nil, nil
	}
	account.Balance -= amount
	copied := *account
	return &copied, nil
}
