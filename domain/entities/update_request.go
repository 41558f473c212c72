package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TournamentUpdateRequest is a sponsor's proposal to change a tournament
type TournamentUpdateRequest struct {
	ID              int64           `db:"id"`
	TournamentID    int64           `db:"tournament_id"`
	RequestedBy     int64           `db:"requested_by"`
	ProposedChanges json.RawMessage `db:"proposed_changes"`
	Status          ApprovalStatus  `db:"status"`
	RejectionReason *string         `db:"rejection_reason"`
	ReviewedBy      *int64          `db:"reviewed_by"`
	ReviewedAt      *time.Time      `db:"reviewed_at"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsPending returns true while the request awaits review
func (r *TournamentUpdateRequest) IsPending() bool {
	return r.Status == ApprovalStatusPending
}

// TournamentPatch lists every tournament field a sponsor may change.
// A nil field is left untouched.
type TournamentPatch struct {
	Name                 *string    `json:"name,omitempty"`
	Description          *string    `json:"description,omitempty"`
	Venue                *string    `json:"venue,omitempty"`
	MaxTeams             *int       `json:"max_teams,omitempty"`
	TotalPrizeMoney      *int64     `json:"total_prize_money,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
}

// DecodeTournamentPatch parses stored proposed changes. Unknown fields are rejected.
func DecodeTournamentPatch(raw json.RawMessage) (*TournamentPatch, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("proposed changes are empty")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var patch TournamentPatch
	if err := dec.Decode(&patch); err != nil {
		return nil, fmt.Errorf("invalid proposed changes: %w", err)
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("proposed changes do not modify any field")
	}
	return &patch, nil
}

// IsEmpty returns true if the patch changes nothing
func (p *TournamentPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Venue == nil &&
		p.MaxTeams == nil &&
		p.TotalPrizeMoney == nil &&
		p.RegistrationDeadline == nil &&
		p.StartDate == nil &&
		p.EndDate == nil
}

// ChangesPrizeMoney returns true if the patch sets a different prize pool
func (p *TournamentPatch) ChangesPrizeMoney(current int64) bool {
	return p.TotalPrizeMoney != nil && *p.TotalPrizeMoney != current
}

// ApplyTo copies every set field onto the tournament
func (p *TournamentPatch) ApplyTo(t *Tournament) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Venue != nil {
		t.Venue = *p.Venue
	}
	if p.MaxTeams != nil {
		t.MaxTeams = *p.MaxTeams
	}
	if p.TotalPrizeMoney != nil {
		t.TotalPrizeMoney = *p.TotalPrizeMoney
	}
	if p.RegistrationDeadline != nil {
		t.RegistrationDeadline = *p.RegistrationDeadline
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
}
