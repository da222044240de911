package social

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"friend-service/internal/models"
	"friend-service/internal/repositories"
)

// FriendStatus is the relationship state as seen from one of the parties.
type FriendStatus string

const (
	FriendStatusNone      FriendStatus = "none"
	FriendStatusRequested FriendStatus = "requested"
	FriendStatusIncoming  FriendStatus = "incoming"
	FriendStatusFriends   FriendStatus = "friends"
)

const (
	opSendRequest   = "relationship.request"
	opCancelRequest = "relationship.cancel"
	opApprove       = "relationship.approve"
	opReject        = "relationship.reject"
	opUnfriend      = "relationship.unfriend"
)

func validatePair(userID, otherID string) error {
	if userID == "" || otherID == "" {
		return errors.Wrap(ErrInvalidInput, "user id is required")
	}
	if userID == otherID {
		return errors.Wrap(ErrInvalidInput, "cannot relate a user to themselves")
	}
	return nil
}

// pairRow returns the row linking the pair, or nil when they have none. When
// legacy duplicates exist an accepted row wins over pending ones, then the
// lowest id.
func (s *Service) pairRow(ctx context.Context, userID, otherID string) (*models.Relationship, error) {
	rows, err := s.relationships.FindBetween(ctx, userID, otherID)
	if err != nil {
		return nil, storeError(err, "find relationship")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	chosen := 0
	for i, row := range rows {
		if row.Status == models.StatusAccepted {
			chosen = i
			break
		}
	}
	if len(rows) > 1 {
		log.Printf("relationship: %d rows for pair %s/%s, using id=%d", len(rows), userID, otherID, rows[chosen].ID)
	}
	return &rows[chosen], nil
}

func (s *Service) getUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, errors.Wrapf(ErrNotFound, "user %s", userID)
	}
	if err != nil {
		return models.User{}, storeError(err, "get user")
	}
	return user, nil
}

// SendRequest creates a pending relationship from initiator to recipient.
// It is only valid while the pair has no relationship in either direction.
func (s *Service) SendRequest(ctx context.Context, initiatorID, recipientID string) (rel models.Relationship, err error) {
	ctx, span := s.start(ctx, "SendRequest")
	defer func() { s.finish(ctx, span, opSendRequest, initiatorID, recipientID, err) }()

	if err := validatePair(initiatorID, recipientID); err != nil {
		return models.Relationship{}, err
	}
	initiator, err := s.getUser(ctx, initiatorID)
	if err != nil {
		return models.Relationship{}, err
	}
	if initiator.BannedAt(s.now()) {
		return models.Relationship{}, errors.Wrapf(ErrUnauthorized, "user %s is banned", initiatorID)
	}
	if _, err := s.getUser(ctx, recipientID); err != nil {
		return models.Relationship{}, err
	}

	existing, err := s.pairRow(ctx, initiatorID, recipientID)
	if err != nil {
		return models.Relationship{}, err
	}
	if existing != nil {
		return models.Relationship{}, errors.Wrapf(ErrInvalidTransition, "relationship %d already %s", existing.ID, existing.Status)
	}

	rel, err = s.relationships.Create(ctx, initiatorID, recipientID)
	if errors.Is(err, repositories.ErrDuplicatePair) {
		return models.Relationship{}, errors.Wrap(ErrInvalidTransition, "relationship created concurrently")
	}
	if err != nil {
		return models.Relationship{}, storeError(err, "create relationship")
	}

	s.deliver(ctx, RequestIntent(s.appName, initiator.Profile(), recipientID))
	return rel, nil
}

// CancelRequest withdraws a pending request. Only the initiator may cancel.
func (s *Service) CancelRequest(ctx context.Context, initiatorID, recipientID string) (err error) {
	ctx, span := s.start(ctx, "CancelRequest")
	defer func() { s.finish(ctx, span, opCancelRequest, initiatorID, recipientID, err) }()

	rel, err := s.pendingRow(ctx, initiatorID, recipientID)
	if err != nil {
		return err
	}
	if rel.InitiatorID != initiatorID {
		return errors.Wrap(ErrUnauthorized, "only the initiator can cancel a request")
	}
	return s.deleteRow(ctx, rel.ID)
}

// Approve accepts a pending request. Only the recipient may approve. The
// private chat of the pair is opened together with the accept.
func (s *Service) Approve(ctx context.Context, recipientID, initiatorID string) (chat models.Chat, err error) {
	ctx, span := s.start(ctx, "Approve")
	defer func() { s.finish(ctx, span, opApprove, recipientID, initiatorID, err) }()

	rel, err := s.pendingRow(ctx, recipientID, initiatorID)
	if err != nil {
		return models.Chat{}, err
	}
	if rel.RecipientID != recipientID {
		return models.Chat{}, errors.Wrap(ErrUnauthorized, "only the recipient can approve a request")
	}

	chat, accepted, err := s.relationships.Accept(ctx, *rel)
	if err != nil {
		return models.Chat{}, storeError(err, "accept relationship")
	}
	if !accepted {
		return models.Chat{}, errors.Wrapf(ErrInvalidTransition, "relationship %d is no longer pending", rel.ID)
	}

	profiles, err := s.lookupProfiles(ctx, []string{recipientID})
	if err != nil {
		log.Printf("approve: skipping notification, profile lookup failed: %v", err)
		return chat, nil
	}
	approver, ok := profiles[recipientID]
	if !ok {
		approver = models.Profile{ID: recipientID}
	}
	s.deliver(ctx, ApprovedIntent(s.appName, approver, initiatorID))
	return chat, nil
}

// Reject declines a pending request. Only the recipient may reject.
func (s *Service) Reject(ctx context.Context, recipientID, initiatorID string) (err error) {
	ctx, span := s.start(ctx, "Reject")
	defer func() { s.finish(ctx, span, opReject, recipientID, initiatorID, err) }()

	rel, err := s.pendingRow(ctx, recipientID, initiatorID)
	if err != nil {
		return err
	}
	if rel.RecipientID != recipientID {
		return errors.Wrap(ErrUnauthorized, "only the recipient can reject a request")
	}
	return s.deleteRow(ctx, rel.ID)
}

// Unfriend ends an accepted relationship. Either party may call it. Rows in
// both directions are removed.
func (s *Service) Unfriend(ctx context.Context, userID, otherID string) (err error) {
	ctx, span := s.start(ctx, "Unfriend")
	defer func() { s.finish(ctx, span, opUnfriend, userID, otherID, err) }()

	if err := validatePair(userID, otherID); err != nil {
		return err
	}
	rel, err := s.pairRow(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if rel == nil || rel.Status != models.StatusAccepted {
		return errors.Wrap(ErrInvalidTransition, "users are not friends")
	}
	if err := s.relationships.DeletePair(ctx, userID, otherID); err != nil {
		return storeError(err, "delete relationship")
	}
	return nil
}

// ChatWith returns the private chat of two friends, opening it if needed.
func (s *Service) ChatWith(ctx context.Context, userID, otherID string) (models.Chat, error) {
	if err := validatePair(userID, otherID); err != nil {
		return models.Chat{}, err
	}
	rel, err := s.pairRow(ctx, userID, otherID)
	if err != nil {
		return models.Chat{}, err
	}
	if rel == nil || rel.Status != models.StatusAccepted {
		return models.Chat{}, errors.Wrap(ErrInvalidTransition, "users are not friends")
	}
	chat, err := s.chats.CreateOrGetChat(ctx, userID, otherID)
	if err != nil {
		return models.Chat{}, storeError(err, "open chat")
	}
	return chat, nil
}

// Status reports the relationship between viewer and other from the viewer's
// side, along with the row when one exists.
func (s *Service) Status(ctx context.Context, viewerID, otherID string) (FriendStatus, *models.Relationship, error) {
	if err := validatePair(viewerID, otherID); err != nil {
		return "", nil, err
	}
	rel, err := s.pairRow(ctx, viewerID, otherID)
	if err != nil {
		return "", nil, err
	}
	switch {
	case rel == nil:
		return FriendStatusNone, nil, nil
	case rel.Status == models.StatusAccepted:
		return FriendStatusFriends, rel, nil
	case rel.InitiatorID == viewerID:
		return FriendStatusRequested, rel, nil
	default:
		return FriendStatusIncoming, rel, nil
	}
}

// IncomingRequests lists pending requests the user received, newest first.
func (s *Service) IncomingRequests(ctx context.Context, userID string) ([]models.RequestView, error) {
	return s.requests(ctx, userID, models.SideRecipient)
}

// OutgoingRequests lists pending requests the user sent, newest first.
func (s *Service) OutgoingRequests(ctx context.Context, userID string) ([]models.RequestView, error) {
	return s.requests(ctx, userID, models.SideInitiator)
}

func (s *Service) requests(ctx context.Context, userID string, role models.Side) ([]models.RequestView, error) {
	rels, err := s.relationships.ListPending(ctx, userID, role)
	if err != nil {
		return nil, storeError(err, "list requests")
	}
	others := make([]string, 0, len(rels))
	for _, rel := range rels {
		others = append(others, rel.OtherParty(userID))
	}
	profiles, err := s.lookupProfiles(ctx, others)
	if err != nil {
		return nil, err
	}

	views := make([]models.RequestView, 0, len(rels))
	for _, rel := range rels {
		other := rel.OtherParty(userID)
		p := profiles[other]
		views = append(views, models.RequestView{
			RelationshipID: rel.ID,
			UserID:         other,
			DisplayName:    p.DisplayName,
			AvatarURL:      p.AvatarURL,
			CreatedAt:      rel.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) pendingRow(ctx context.Context, userID, otherID string) (*models.Relationship, error) {
	if err := validatePair(userID, otherID); err != nil {
		return nil, err
	}
	rel, err := s.pairRow(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if rel == nil || rel.Status != models.StatusPending {
		return nil, errors.Wrap(ErrInvalidTransition, "no pending request")
	}
	return rel, nil
}

func (s *Service) deleteRow(ctx context.Context, id int64) error {
	err := s.relationships.Delete(ctx, id)
	if errors.Is(err, repositories.ErrRelationshipNotFound) {
		return errors.Wrapf(ErrInvalidTransition, "relationship %d already removed", id)
	}
	if err != nil {
		return storeError(err, "delete relationship")
	}
	return nil
}
