package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/elev8sports/elev8-api/internal/store"
)

// ErrNotFound is returned when a record does not exist or is not visible
// to the requesting user.
var ErrNotFound = errors.New("not found")

// ChildRepository handles child profile data access. Every query is scoped
// to the owning parent; ownership checks live here, not in handlers.
type ChildRepository struct {
	db *store.Database
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *store.Database) *ChildRepository {
	return &ChildRepository{db: db}
}

// Create inserts a new child profile
func (r *ChildRepository) Create(ctx context.Context, child *store.Child) error {
	query := `
		INSERT INTO children (child_id, parent_id, first_name, last_name, date_of_birth, sport, positions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		child.ChildID, child.ParentID, child.FirstName, child.LastName,
		child.DateOfBirth, child.Sport, child.Positions,
	).Scan(&child.CreatedAt, &child.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting child: %w", err)
	}
	return nil
}

// GetOwned finds a child by ID, restricted to the given parent.
func (r *ChildRepository) GetOwned(ctx context.Context, childID, parentID string) (*store.Child, error) {
	query := `
		SELECT child_id, parent_id, first_name, last_name, date_of_birth, sport, positions, created_at, updated_at
		FROM children
		WHERE child_id = $1 AND parent_id = $2
	`

	child := &store.Child{}
	err := r.db.DB().QueryRowContext(ctx, query, childID, parentID).Scan(
		&child.ChildID, &child.ParentID, &child.FirstName, &child.LastName,
		&child.DateOfBirth, &child.Sport, &child.Positions,
		&child.CreatedAt, &child.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying child: %w", err)
	}

	return child, nil
}

// GetByID finds a child by ID regardless of owner.
func (r *ChildRepository) GetByID(ctx context.Context, childID string) (*store.Child, error) {
	query := `
		SELECT child_id, parent_id, first_name, last_name, date_of_birth, sport, positions, created_at, updated_at
		FROM children
		WHERE child_id = $1
	`

	child := &store.Child{}
	err := r.db.DB().QueryRowContext(ctx, query, childID).Scan(
		&child.ChildID, &child.ParentID, &child.FirstName, &child.LastName,
		&child.DateOfBirth, &child.Sport, &child.Positions,
		&child.CreatedAt, &child.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying child: %w", err)
	}

	return child, nil
}

// ListByParent returns all children owned by a parent
func (r *ChildRepository) ListByParent(ctx context.Context, parentID string) ([]*store.Child, error) {
	query := `
		SELECT child_id, parent_id, first_name, last_name, date_of_birth, sport, positions, created_at, updated_at
		FROM children
		WHERE parent_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.DB().QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children: %w", err)
	}
	defer rows.Close()

	children := make([]*store.Child, 0)
	for rows.Next() {
		child := &store.Child{}
		err := rows.Scan(
			&child.ChildID, &child.ParentID, &child.FirstName, &child.LastName,
			&child.DateOfBirth, &child.Sport, &child.Positions,
			&child.CreatedAt, &child.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning child: %w", err)
		}
		children = append(children, child)
	}

	return children, rows.Err()
}

// Update modifies an owned child profile. Returns ErrNotFound when the
// child does not exist or belongs to someone else.
func (r *ChildRepository) Update(ctx context.Context, child *store.Child) error {
	query := `
		UPDATE children
		SET first_name = $3, last_name = $4, date_of_birth = $5, sport = $6, positions = $7, updated_at = NOW()
		WHERE child_id = $1 AND parent_id = $2
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		child.ChildID, child.ParentID, child.FirstName, child.LastName,
		child.DateOfBirth, child.Sport, child.Positions,
	)
	if err != nil {
		return fmt.Errorf("updating child: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating child: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("child %s: %w", child.ChildID, ErrNotFound)
	}

	return nil
}

// Delete removes an owned child profile and, via cascade, its imports and stats.
func (r *ChildRepository) Delete(ctx context.Context, childID, parentID string) error {
	result, err := r.db.DB().ExecContext(ctx,
		`DELETE FROM children WHERE child_id = $1 AND parent_id = $2`, childID, parentID)
	if err != nil {
		return fmt.Errorf("deleting child: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting child: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("child %s: %w", childID, ErrNotFound)
	}

	return nil
}
