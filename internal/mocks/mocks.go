package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"friend-service/internal/models"
	"friend-service/internal/repositories"
	"friend-service/internal/social"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []string) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) SetPushToken(ctx context.Context, userID string, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *UserRepositoryMock) SetBannedUntil(ctx context.Context, userID string, until time.Time) error {
	args := m.Called(ctx, userID, until)
	return args.Error(0)
}

func (m *UserRepositoryMock) EnsureUser(ctx context.Context, userID string, username string) (bool, error) {
	args := m.Called(ctx, userID, username)
	return args.Bool(0), args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)

// FriendServiceMock stands in for social.Service in handler tests.
type FriendServiceMock struct {
	mock.Mock
}

func (m *FriendServiceMock) Status(ctx context.Context, viewerID, otherID string) (social.FriendStatus, *models.Relationship, error) {
	args := m.Called(ctx, viewerID, otherID)
	var rel *models.Relationship
	if val := args.Get(1); val != nil {
		rel = val.(*models.Relationship)
	}
	return args.Get(0).(social.FriendStatus), rel, args.Error(2)
}

func (m *FriendServiceMock) SendRequest(ctx context.Context, initiatorID, recipientID string) (models.Relationship, error) {
	args := m.Called(ctx, initiatorID, recipientID)
	var rel models.Relationship
	if val := args.Get(0); val != nil {
		rel = val.(models.Relationship)
	}
	return rel, args.Error(1)
}

func (m *FriendServiceMock) CancelRequest(ctx context.Context, initiatorID, recipientID string) error {
	args := m.Called(ctx, initiatorID, recipientID)
	return args.Error(0)
}

func (m *FriendServiceMock) Approve(ctx context.Context, recipientID, initiatorID string) (models.Chat, error) {
	args := m.Called(ctx, recipientID, initiatorID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *FriendServiceMock) Reject(ctx context.Context, recipientID, initiatorID string) error {
	args := m.Called(ctx, recipientID, initiatorID)
	return args.Error(0)
}

func (m *FriendServiceMock) Unfriend(ctx context.Context, userID, otherID string) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *FriendServiceMock) ChatWith(ctx context.Context, userID, otherID string) (models.Chat, error) {
	args := m.Called(ctx, userID, otherID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *FriendServiceMock) IncomingRequests(ctx context.Context, userID string) ([]models.RequestView, error) {
	args := m.Called(ctx, userID)
	var views []models.RequestView
	if val := args.Get(0); val != nil {
		views = val.([]models.RequestView)
	}
	return views, args.Error(1)
}

func (m *FriendServiceMock) OutgoingRequests(ctx context.Context, userID string) ([]models.RequestView, error) {
	args := m.Called(ctx, userID)
	var views []models.RequestView
	if val := args.Get(0); val != nil {
		views = val.([]models.RequestView)
	}
	return views, args.Error(1)
}

func (m *FriendServiceMock) Friends(ctx context.Context, viewerID string, selection []int64) ([]models.FriendView, error) {
	args := m.Called(ctx, viewerID, selection)
	var views []models.FriendView
	if val := args.Get(0); val != nil {
		views = val.([]models.FriendView)
	}
	return views, args.Error(1)
}

func (m *FriendServiceMock) CreateAttribute(ctx context.Context, ownerID, label string) (models.Attribute, error) {
	args := m.Called(ctx, ownerID, label)
	var attr models.Attribute
	if val := args.Get(0); val != nil {
		attr = val.(models.Attribute)
	}
	return attr, args.Error(1)
}

func (m *FriendServiceMock) DeleteAttribute(ctx context.Context, ownerID string, attributeID int64) error {
	args := m.Called(ctx, ownerID, attributeID)
	return args.Error(0)
}

func (m *FriendServiceMock) ListOwnAttributes(ctx context.Context, ownerID string) ([]models.Attribute, error) {
	args := m.Called(ctx, ownerID)
	var attrs []models.Attribute
	if val := args.Get(0); val != nil {
		attrs = val.([]models.Attribute)
	}
	return attrs, args.Error(1)
}

func (m *FriendServiceMock) AssignOwnAttributes(ctx context.Context, callerID string, relationshipID int64, attributeIDs []int64) error {
	args := m.Called(ctx, callerID, relationshipID, attributeIDs)
	return args.Error(0)
}

func (m *FriendServiceMock) AnnounceEvent(ctx context.Context, posterID string, selected []int64) ([]models.NotificationIntent, error) {
	args := m.Called(ctx, posterID, selected)
	var intents []models.NotificationIntent
	if val := args.Get(0); val != nil {
		intents = val.([]models.NotificationIntent)
	}
	return intents, args.Error(1)
}

func (m *FriendServiceMock) BanUser(ctx context.Context, adminID, targetID string, duration social.BanDuration) (time.Time, error) {
	args := m.Called(ctx, adminID, targetID, duration)
	var until time.Time
	if val := args.Get(0); val != nil {
		until = val.(time.Time)
	}
	return until, args.Error(1)
}

func (m *FriendServiceMock) RegisterPushToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *FriendServiceMock) ReportUser(ctx context.Context, reporterID, reportedID, reason string) (models.Report, error) {
	args := m.Called(ctx, reporterID, reportedID, reason)
	var report models.Report
	if val := args.Get(0); val != nil {
		report = val.(models.Report)
	}
	return report, args.Error(1)
}

func (m *FriendServiceMock) ListOpenReports(ctx context.Context, adminID string) ([]models.OpenReport, error) {
	args := m.Called(ctx, adminID)
	var reports []models.OpenReport
	if val := args.Get(0); val != nil {
		reports = val.([]models.OpenReport)
	}
	return reports, args.Error(1)
}

func (m *FriendServiceMock) ConfirmReport(ctx context.Context, adminID string, reportID int64) error {
	args := m.Called(ctx, adminID, reportID)
	return args.Error(0)
}

func (m *FriendServiceMock) EnsureUser(ctx context.Context, userID, username string) error {
	args := m.Called(ctx, userID, username)
	return args.Error(0)
}
