package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"friend-service/internal/models"
)

const relationshipColumns = `id, initiator_id, recipient_id, status, initiator_attributes, recipient_attributes, created_at, updated_at`

// RelationshipRepository abstracts persistence of friend relationships.
type RelationshipRepository interface {
	FindBetween(ctx context.Context, userID string, otherID string) ([]models.Relationship, error)
	Get(ctx context.Context, id int64) (models.Relationship, error)
	ListForUser(ctx context.Context, userID string, status models.RelationshipStatus) ([]models.Relationship, error)
	ListPending(ctx context.Context, userID string, role models.Side) ([]models.Relationship, error)
	Create(ctx context.Context, initiatorID string, recipientID string) (models.Relationship, error)
	Accept(ctx context.Context, rel models.Relationship) (models.Chat, bool, error)
	Delete(ctx context.Context, id int64) error
	DeletePair(ctx context.Context, userID string, otherID string) error
	SetAttributes(ctx context.Context, id int64, side models.Side, attributeIDs []int64) error
}

// RelationshipRepo is a sqlx implementation of RelationshipRepository.
type RelationshipRepo struct {
	db *sqlx.DB
}

// NewRelationshipRepo constructs a RelationshipRepo.
func NewRelationshipRepo(db *sqlx.DB) *RelationshipRepo {
	return &RelationshipRepo{db: db}
}

// FindBetween returns the rows linking the two users in either direction.
func (r *RelationshipRepo) FindBetween(ctx context.Context, userID string, otherID string) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.db.SelectContext(ctx, &rels, `SELECT `+relationshipColumns+` FROM relationships
        WHERE (initiator_id=$1 AND recipient_id=$2) OR (initiator_id=$2 AND recipient_id=$1)
        ORDER BY id ASC`, userID, otherID)
	return rels, err
}

// Get fetches a relationship by id.
func (r *RelationshipRepo) Get(ctx context.Context, id int64) (models.Relationship, error) {
	var rel models.Relationship
	err := r.db.GetContext(ctx, &rel, `SELECT `+relationshipColumns+` FROM relationships WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Relationship{}, ErrRelationshipNotFound
	}
	return rel, err
}

// ListForUser returns every row with the given status the user takes part in.
func (r *RelationshipRepo) ListForUser(ctx context.Context, userID string, status models.RelationshipStatus) ([]models.Relationship, error) {
	var rels []models.Relationship
	err := r.db.SelectContext(ctx, &rels, `SELECT `+relationshipColumns+` FROM relationships
        WHERE (initiator_id=$1 OR recipient_id=$1) AND status=$2
        ORDER BY id ASC`, userID, status)
	return rels, err
}

// ListPending returns pending rows where the user holds the given role.
func (r *RelationshipRepo) ListPending(ctx context.Context, userID string, role models.Side) ([]models.Relationship, error) {
	column := "recipient_id"
	if role == models.SideInitiator {
		column = "initiator_id"
	}
	var rels []models.Relationship
	query := fmt.Sprintf(`SELECT %s FROM relationships WHERE %s=$1 AND status=$2 ORDER BY created_at DESC, id DESC`, relationshipColumns, column)
	err := r.db.SelectContext(ctx, &rels, query, userID, models.StatusPending)
	return rels, err
}

// Create inserts a pending relationship.
func (r *RelationshipRepo) Create(ctx context.Context, initiatorID string, recipientID string) (models.Relationship, error) {
	var rel models.Relationship
	err := r.db.GetContext(ctx, &rel, `INSERT INTO relationships (initiator_id, recipient_id, status)
        VALUES ($1, $2, $3) RETURNING `+relationshipColumns, initiatorID, recipientID, models.StatusPending)
	if isUniqueViolation(err) {
		return models.Relationship{}, ErrDuplicatePair
	}
	return rel, err
}

// Accept moves a pending row to accepted and opens the pair's chat in the
// same transaction. It reports false, and changes nothing, when the row was
// not pending anymore.
func (r *RelationshipRepo) Accept(ctx context.Context, rel models.Relationship) (chat models.Chat, accepted bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, false, err
	}
	defer func() {
		if err != nil || !accepted {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `UPDATE relationships SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		models.StatusAccepted, rel.ID, models.StatusPending)
	if err != nil {
		return models.Chat{}, false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return models.Chat{}, false, err
	}
	if count != 1 {
		return models.Chat{}, false, nil
	}

	chat, err = createOrGetChat(ctx, tx, rel.InitiatorID, rel.RecipientID)
	if err != nil {
		return models.Chat{}, false, err
	}
	accepted = true
	if err = tx.Commit(); err != nil {
		return models.Chat{}, false, err
	}
	return chat, true, nil
}

// Delete removes a relationship row.
func (r *RelationshipRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRelationshipNotFound
	}
	return nil
}

// DeletePair removes the rows linking the two users in both directions.
func (r *RelationshipRepo) DeletePair(ctx context.Context, userID string, otherID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM relationships
        WHERE (initiator_id=$1 AND recipient_id=$2) OR (initiator_id=$2 AND recipient_id=$1)`, userID, otherID)
	return err
}

// SetAttributes overwrites one slot's attribute list.
func (r *RelationshipRepo) SetAttributes(ctx context.Context, id int64, side models.Side, attributeIDs []int64) error {
	column := "recipient_attributes"
	if side == models.SideInitiator {
		column = "initiator_attributes"
	}
	if attributeIDs == nil {
		attributeIDs = []int64{}
	}
	query := fmt.Sprintf(`UPDATE relationships SET %s=$1, updated_at=NOW() WHERE id=$2`, column)
	res, err := r.db.ExecContext(ctx, query, pq.Int64Array(attributeIDs), id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrRelationshipNotFound
	}
	return nil
}
