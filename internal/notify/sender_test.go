package notify

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"friend-service/internal/mocks"
	"friend-service/internal/models"
	"friend-service/internal/repositories"
	"friend-service/internal/telemetry"
)

const target = "b0000000-0000-0000-0000-00000000000b"

func requestIntent() models.NotificationIntent {
	return models.NotificationIntent{
		TargetUserID: target,
		Title:        "BROADER",
		Body:         "alice sent you a friend request.",
		Data:         models.NotificationData{SenderUserID: "a", Type: models.NotificationRequest},
	}
}

func TestSendPublishesPushMessage(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	sender := NewSender(users, publisher, "notifications.push")
	ctx := telemetry.WithRequestID(context.Background(), "req-1")

	users.On("GetUser", mock.Anything, target).Return(models.User{ID: target, PushToken: "ExponentPushToken[x]"}, nil).Once()
	publisher.On("Publish", mock.Anything, "notifications.push", PushMessage{
		To:    "ExponentPushToken[x]",
		Sound: "default",
		Title: "BROADER",
		Body:  "alice sent you a friend request.",
		Data:  models.NotificationData{SenderUserID: "a", Type: models.NotificationRequest},
	}, mock.MatchedBy(func(headers map[string]string) bool {
		return headers["x-request-id"] == "req-1" && headers["x-notification-type"] == "request"
	})).Return(nil).Once()

	require.NoError(t, sender.Send(ctx, requestIntent()))

	users.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSendSkipsUserWithoutToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	sender := NewSender(users, publisher, "notifications.push")

	users.On("GetUser", mock.Anything, target).Return(models.User{ID: target}, nil).Once()

	require.NoError(t, sender.Send(context.Background(), requestIntent()))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendSkipsUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	sender := NewSender(users, publisher, "notifications.push")

	users.On("GetUser", mock.Anything, target).Return(nil, repositories.ErrUserNotFound).Once()

	require.NoError(t, sender.Send(context.Background(), requestIntent()))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendReturnsPublishError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	sender := NewSender(users, publisher, "notifications.push")

	users.On("GetUser", mock.Anything, target).Return(models.User{ID: target, PushToken: "tok"}, nil).Once()
	publisher.On("Publish", mock.Anything, "notifications.push", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	err := sender.Send(context.Background(), requestIntent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestSendReturnsStoreError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	publisher := new(mocks.PublisherMock)
	sender := NewSender(users, publisher, "notifications.push")

	users.On("GetUser", mock.Anything, target).Return(nil, errors.New("db down")).Once()

	assert.Error(t, sender.Send(context.Background(), requestIntent()))
}
