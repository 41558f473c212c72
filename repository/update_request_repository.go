package repository

import (
	"context"
	"errors"
	"fmt"

	"hoopsleague/database"
	"hoopsleague/domain/entities"

	"github.com/jackc/pgx/v5"
)

const updateRequestColumns = `id, tournament_id, requested_by, proposed_changes, status,
	rejection_reason, reviewed_by, reviewed_at, created_at`

// UpdateRequestRepository implements the UpdateRequestRepository interface
type UpdateRequestRepository struct {
	q queryable
}

// NewUpdateRequestRepository creates a new update request repository
func NewUpdateRequestRepository(db *database.DB) *UpdateRequestRepository {
	return &UpdateRequestRepository{q: db.Pool}
}

func newUpdateRequestRepository(q queryable) *UpdateRequestRepository {
	return &UpdateRequestRepository{q: q}
}

func scanUpdateRequest(row pgx.Row) (*entities.TournamentUpdateRequest, error) {
	var req entities.TournamentUpdateRequest
	var changes []byte
	err := row.Scan(
		&req.ID,
		&req.TournamentID,
		&req.RequestedBy,
		&changes,
		&req.Status,
		&req.RejectionReason,
		&req.ReviewedBy,
		&req.ReviewedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.ProposedChanges = changes
	return &req, nil
}

// GetByID retrieves an update request by id
func (r *UpdateRequestRepository) GetByID(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error) {
	req, err := scanUpdateRequest(r.q.QueryRow(ctx, `SELECT `+updateRequestColumns+` FROM tournament_update_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get update request %d: %w", id, err)
	}
	return req, nil
}

// GetForUpdate retrieves an update request and locks its row
func (r *UpdateRequestRepository) GetForUpdate(ctx context.Context, id int64) (*entities.TournamentUpdateRequest, error) {
	req, err := scanUpdateRequest(r.q.QueryRow(ctx, `SELECT `+updateRequestColumns+` FROM tournament_update_requests WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock update request %d: %w", id, err)
	}
	return req, nil
}

// Create stores a pending update request. The proposed changes are validated
// when the request is reviewed.
func (r *UpdateRequestRepository) Create(ctx context.Context, req *entities.TournamentUpdateRequest) error {
	if req.Status == "" {
		req.Status = entities.ApprovalStatusPending
	}

	query := `
		INSERT INTO tournament_update_requests (tournament_id, requested_by, proposed_changes, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, req.TournamentID, req.RequestedBy, []byte(req.ProposedChanges), req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create update request for tournament %d: %w", req.TournamentID, err)
	}
	return nil
}

// Update writes the review outcome of a request
func (r *UpdateRequestRepository) Update(ctx context.Context, req *entities.TournamentUpdateRequest) error {
	query := `
		UPDATE tournament_update_requests
		SET status = $2, rejection_reason = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, req.ID, req.Status, req.RejectionReason, req.ReviewedBy, req.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to update request %d: %w", req.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update request %d not found", req.ID)
	}
	return nil
}
