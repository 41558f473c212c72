package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the ledger
const (
	// Fees paid into the admin pool
	TransactionTypeTeamCreationFee         TransactionType = "team_creation_fee"
	TransactionTypeTournamentCreationFee   TransactionType = "tournament_creation_fee"
	TransactionTypeTournamentFeeAdjustment TransactionType = "tournament_fee_adjustment"

	// Admin pool side of a fee or refund
	TransactionTypeAdminFeeShare  TransactionType = "admin_fee_share"
	TransactionTypeAdminFeeRefund TransactionType = "admin_fee_refund"

	// Refunds paid back out of the admin pool
	TransactionTypeTournamentFeeRefund TransactionType = "tournament_fee_refund"

	// Plain account-to-account transfers
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// IsFeeType returns true if the transaction type is a fee charged to a sponsor or coach
func (tt TransactionType) IsFeeType() bool {
	return tt == TransactionTypeTeamCreationFee ||
		tt == TransactionTypeTournamentCreationFee ||
		tt == TransactionTypeTournamentFeeAdjustment
}

// IsAdminPoolType returns true if the transaction type moves money on an admin account
func (tt TransactionType) IsAdminPoolType() bool {
	return tt == TransactionTypeAdminFeeShare ||
		tt == TransactionTypeAdminFeeRefund
}

// IsTransferType returns true if the transaction type represents a transfer
func (tt TransactionType) IsTransferType() bool {
	return tt == TransactionTypeTransferIn ||
		tt == TransactionTypeTransferOut
}
