package entities

import "time"

// UserRole identifies what a user is allowed to do in the league
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleSponsor UserRole = "sponsor"
	UserRoleCoach   UserRole = "coach"
	UserRoleAthlete UserRole = "athlete"
)

// Account is a user together with the balance it holds, in minor currency units
type Account struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Role      UserRole  `db:"role"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasSufficientBalance checks if the account can cover an amount
func (a *Account) HasSufficientBalance(amount int64) bool {
	return a.Balance >= amount
}

// Shortage returns how much the account is missing to cover an amount
func (a *Account) Shortage(amount int64) int64 {
	if a.Balance >= amount {
		return 0
	}
	return amount - a.Balance
}

// IsAdmin reports whether the account belongs to the admin pool
func (a *Account) IsAdmin() bool {
	return a.Role == UserRoleAdmin
}
