// Package notify delivers notification intents as push messages.
package notify

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"friend-service/internal/models"
	"friend-service/internal/rabbitmq"
	"friend-service/internal/repositories"
	"friend-service/internal/telemetry"
)

// PushMessage is the message handed to the push gateway worker.
type PushMessage struct {
	To    string                  `json:"to"`
	Sound string                  `json:"sound"`
	Title string                  `json:"title"`
	Body  string                  `json:"body"`
	Data  models.NotificationData `json:"data"`
}

// Sender resolves the target's push token and publishes the message on the
// push routing key. Users without a token are skipped.
type Sender struct {
	users      repositories.UserRepository
	publisher  rabbitmq.Publisher
	routingKey string
}

func NewSender(users repositories.UserRepository, publisher rabbitmq.Publisher, routingKey string) *Sender {
	return &Sender{users: users, publisher: publisher, routingKey: routingKey}
}

func (s *Sender) Send(ctx context.Context, intent models.NotificationIntent) error {
	user, err := s.users.GetUser(ctx, intent.TargetUserID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		log.Printf("notify: skip type=%s target=%s: user not found", intent.Data.Type, intent.TargetUserID)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "load push token")
	}
	if user.PushToken == "" {
		log.Printf("notify: skip type=%s target=%s: no push token", intent.Data.Type, intent.TargetUserID)
		return nil
	}

	msg := PushMessage{
		To:    user.PushToken,
		Sound: "default",
		Title: intent.Title,
		Body:  intent.Body,
		Data:  intent.Data,
	}
	headers := map[string]string{
		"x-request-id":        telemetry.RequestIDFromContext(ctx),
		"x-notification-type": string(intent.Data.Type),
		"x-target-user-id":    intent.TargetUserID,
	}
	if err := s.publisher.Publish(ctx, s.routingKey, msg, headers); err != nil {
		return errors.Wrap(err, "publish push message")
	}
	return nil
}
