package entities

import "time"

// ApprovalStatus is the review state shared by teams, registrations and update requests
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsDecision returns true for the statuses an admin can decide on
func (s ApprovalStatus) IsDecision() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// Team is a coach's squad
type Team struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	CoachID         int64          `db:"coach_id"`
	Status          ApprovalStatus `db:"status"`
	EntryFee        int64          `db:"entry_fee"`
	RejectionReason *string        `db:"rejection_reason"`
	ApprovedAt      *time.Time     `db:"approved_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// IsPending returns true while the team awaits review
func (t *Team) IsPending() bool {
	return t.Status == ApprovalStatusPending
}

// TeamRegistration links a team to a tournament
type TeamRegistration struct {
	ID              int64          `db:"id"`
	TournamentID    int64          `db:"tournament_id"`
	TeamID          int64          `db:"team_id"`
	GroupName       string         `db:"group_name"`
	Status          ApprovalStatus `db:"status"`
	RejectionReason *string        `db:"rejection_reason"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// IsPending returns true while the registration awaits review
func (r *TeamRegistration) IsPending() bool {
	return r.Status == ApprovalStatusPending
}
