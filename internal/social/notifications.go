package social

import (
	"context"
	"fmt"

	"friend-service/internal/models"
)

const opAnnounceEvent = "event.announce"

func displayName(p models.Profile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return "Someone"
}

// RequestIntent is the push sent to the recipient of a friend request.
func RequestIntent(title string, initiator models.Profile, recipientID string) models.NotificationIntent {
	return models.NotificationIntent{
		TargetUserID: recipientID,
		Title:        title,
		Body:         fmt.Sprintf("%s sent you a friend request.", displayName(initiator)),
		Data:         models.NotificationData{SenderUserID: initiator.ID, Type: models.NotificationRequest},
	}
}

// ApprovedIntent is the push sent to the initiator once the request is
// approved.
func ApprovedIntent(title string, approver models.Profile, initiatorID string) models.NotificationIntent {
	return models.NotificationIntent{
		TargetUserID: initiatorID,
		Title:        title,
		Body:         fmt.Sprintf("%s accepted your friend request.", displayName(approver)),
		Data:         models.NotificationData{SenderUserID: approver.ID, Type: models.NotificationApproved},
	}
}

// NewEventIntents returns one push per accepted friend of the poster whose
// poster-side attribute list shares an id with selected. An empty selection
// notifies nobody.
func NewEventIntents(title string, poster models.Profile, relationships []models.Relationship, selected []int64) []models.NotificationIntent {
	var intents []models.NotificationIntent
	for _, rel := range relationships {
		if rel.Status != models.StatusAccepted || !rel.Involves(poster.ID) {
			continue
		}
		if !intersects(rel.AttributesOf(poster.ID), selected) {
			continue
		}
		intents = append(intents, models.NotificationIntent{
			TargetUserID: rel.OtherParty(poster.ID),
			Title:        title,
			Body:         fmt.Sprintf("%s created a new event!", displayName(poster)),
			Data:         models.NotificationData{SenderUserID: poster.ID, Type: models.NotificationNewEvent},
		})
	}
	return intents
}

// AnnounceEvent notifies the poster's friends tagged with any of the selected
// attributes that a new event was created. It returns the intents handed to
// delivery.
func (s *Service) AnnounceEvent(ctx context.Context, posterID string, selected []int64) (intents []models.NotificationIntent, err error) {
	ctx, span := s.start(ctx, "AnnounceEvent")
	defer func() { s.finish(ctx, span, opAnnounceEvent, posterID, "", err) }()

	poster, err := s.getUser(ctx, posterID)
	if err != nil {
		return nil, err
	}
	rels, err := s.relationships.ListForUser(ctx, posterID, models.StatusAccepted)
	if err != nil {
		return nil, storeError(err, "list friends")
	}

	intents = NewEventIntents(s.appName, poster.Profile(), rels, selected)
	for _, intent := range intents {
		s.deliver(ctx, intent)
	}
	return intents, nil
}
