package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"friend-service/internal/models"
)

// AttributeRepository abstracts persistence of friend attributes.
type AttributeRepository interface {
	Create(ctx context.Context, ownerID string, label string) (models.Attribute, error)
	Get(ctx context.Context, id int64) (models.Attribute, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Attribute, error)
}

// AttributeRepo is a sqlx implementation of AttributeRepository.
type AttributeRepo struct {
	db *sqlx.DB
}

// NewAttributeRepo constructs an AttributeRepo.
func NewAttributeRepo(db *sqlx.DB) *AttributeRepo {
	return &AttributeRepo{db: db}
}

// Create stores a new attribute.
func (r *AttributeRepo) Create(ctx context.Context, ownerID string, label string) (models.Attribute, error) {
	var attr models.Attribute
	err := r.db.GetContext(ctx, &attr, `INSERT INTO friend_attributes (owner_id, label) VALUES ($1, $2)
        RETURNING id, owner_id, label, created_at`, ownerID, label)
	return attr, err
}

// Get fetches a single attribute.
func (r *AttributeRepo) Get(ctx context.Context, id int64) (models.Attribute, error) {
	var attr models.Attribute
	err := r.db.GetContext(ctx, &attr, `SELECT id, owner_id, label, created_at FROM friend_attributes WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Attribute{}, ErrAttributeNotFound
	}
	return attr, err
}

// Delete removes an attribute. Relationship lists keep the id.
func (r *AttributeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friend_attributes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAttributeNotFound
	}
	return nil
}

// ListByOwner returns the owner's attributes in creation order.
func (r *AttributeRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Attribute, error) {
	var attrs []models.Attribute
	err := r.db.SelectContext(ctx, &attrs, `SELECT id, owner_id, label, created_at FROM friend_attributes WHERE owner_id=$1 ORDER BY id ASC`, ownerID)
	return attrs, err
}
