package social

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"friend-service/internal/models"
	"friend-service/internal/repositories"
)

// MaxLabelLength bounds attribute labels, in runes.
const MaxLabelLength = 64

const (
	opCreateAttribute = "attribute.create"
	opDeleteAttribute = "attribute.delete"
	opAssign          = "attribute.assign"
)

// CreateAttribute adds a label to the owner's vocabulary.
func (s *Service) CreateAttribute(ctx context.Context, ownerID, label string) (attr models.Attribute, err error) {
	ctx, span := s.start(ctx, "CreateAttribute")
	defer func() { s.finish(ctx, span, opCreateAttribute, ownerID, "", err) }()

	label = strings.TrimSpace(label)
	if ownerID == "" {
		return models.Attribute{}, errors.Wrap(ErrInvalidInput, "owner id is required")
	}
	if label == "" {
		return models.Attribute{}, errors.Wrap(ErrInvalidInput, "label must not be empty")
	}
	if utf8.RuneCountInString(label) > MaxLabelLength {
		return models.Attribute{}, errors.Wrapf(ErrInvalidInput, "label longer than %d characters", MaxLabelLength)
	}

	attr, err = s.attributes.Create(ctx, ownerID, label)
	if err != nil {
		return models.Attribute{}, storeError(err, "create attribute")
	}
	return attr, nil
}

// DeleteAttribute removes one of the owner's labels. Relationship lists that
// reference it are left alone and render the id instead of the label.
func (s *Service) DeleteAttribute(ctx context.Context, ownerID string, attributeID int64) (err error) {
	ctx, span := s.start(ctx, "DeleteAttribute")
	defer func() { s.finish(ctx, span, opDeleteAttribute, ownerID, "", err) }()

	attr, err := s.attributes.Get(ctx, attributeID)
	if errors.Is(err, repositories.ErrAttributeNotFound) {
		return errors.Wrapf(ErrNotFound, "attribute %d", attributeID)
	}
	if err != nil {
		return storeError(err, "get attribute")
	}
	if attr.OwnerID != ownerID {
		return errors.Wrapf(ErrUnauthorized, "attribute %d belongs to another user", attributeID)
	}

	err = s.attributes.Delete(ctx, attributeID)
	if errors.Is(err, repositories.ErrAttributeNotFound) {
		return errors.Wrapf(ErrNotFound, "attribute %d", attributeID)
	}
	if err != nil {
		return storeError(err, "delete attribute")
	}
	return nil
}

// AssignAttributes overwrites the attribute list in one slot of a
// relationship. The caller must be the user that owns the slot; callers
// resolve their slot with Relationship.SlotFor.
func (s *Service) AssignAttributes(ctx context.Context, callerID string, relationshipID int64, side models.Side, attributeIDs []int64) (err error) {
	ctx, span := s.start(ctx, "AssignAttributes")
	defer func() { s.finish(ctx, span, opAssign, callerID, "", err) }()

	if !side.Valid() {
		return errors.Wrapf(ErrInvalidInput, "unknown side %q", side)
	}
	ids, err := normalizeIDs(attributeIDs)
	if err != nil {
		return err
	}

	rel, err := s.relationships.Get(ctx, relationshipID)
	if errors.Is(err, repositories.ErrRelationshipNotFound) {
		return errors.Wrapf(ErrNotFound, "relationship %d", relationshipID)
	}
	if err != nil {
		return storeError(err, "get relationship")
	}
	if rel.SideUser(side) != callerID {
		return errors.Wrapf(ErrUnauthorized, "%s slot of relationship %d belongs to another user", side, relationshipID)
	}

	err = s.relationships.SetAttributes(ctx, relationshipID, side, ids)
	if errors.Is(err, repositories.ErrRelationshipNotFound) {
		return errors.Wrapf(ErrNotFound, "relationship %d", relationshipID)
	}
	if err != nil {
		return storeError(err, "set attributes")
	}
	return nil
}

// AssignOwnAttributes overwrites the caller's own slot of a relationship.
func (s *Service) AssignOwnAttributes(ctx context.Context, callerID string, relationshipID int64, attributeIDs []int64) error {
	rel, err := s.relationships.Get(ctx, relationshipID)
	if errors.Is(err, repositories.ErrRelationshipNotFound) {
		return errors.Wrapf(ErrNotFound, "relationship %d", relationshipID)
	}
	if err != nil {
		return storeError(err, "get relationship")
	}
	side, ok := rel.SlotFor(callerID)
	if !ok {
		return errors.Wrapf(ErrUnauthorized, "relationship %d does not involve the caller", relationshipID)
	}
	return s.AssignAttributes(ctx, callerID, relationshipID, side, attributeIDs)
}

// ListOwnAttributes returns the owner's labels in creation order.
func (s *Service) ListOwnAttributes(ctx context.Context, ownerID string) ([]models.Attribute, error) {
	attrs, err := s.attributes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(err, "list attributes")
	}
	return attrs, nil
}

// normalizeIDs drops duplicates, keeping the first occurrence.
func normalizeIDs(ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, errors.Wrapf(ErrInvalidInput, "invalid attribute id %d", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
