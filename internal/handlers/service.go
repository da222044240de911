package handlers

import (
	"context"
	"time"

	"friend-service/internal/models"
	"friend-service/internal/social"
)

// FriendService is the part of social.Service the HTTP layer uses.
type FriendService interface {
	Status(ctx context.Context, viewerID, otherID string) (social.FriendStatus, *models.Relationship, error)
	SendRequest(ctx context.Context, initiatorID, recipientID string) (models.Relationship, error)
	CancelRequest(ctx context.Context, initiatorID, recipientID string) error
	Approve(ctx context.Context, recipientID, initiatorID string) (models.Chat, error)
	Reject(ctx context.Context, recipientID, initiatorID string) error
	Unfriend(ctx context.Context, userID, otherID string) error
	ChatWith(ctx context.Context, userID, otherID string) (models.Chat, error)
	IncomingRequests(ctx context.Context, userID string) ([]models.RequestView, error)
	OutgoingRequests(ctx context.Context, userID string) ([]models.RequestView, error)

	Friends(ctx context.Context, viewerID string, selection []int64) ([]models.FriendView, error)
	CreateAttribute(ctx context.Context, ownerID, label string) (models.Attribute, error)
	DeleteAttribute(ctx context.Context, ownerID string, attributeID int64) error
	ListOwnAttributes(ctx context.Context, ownerID string) ([]models.Attribute, error)
	AssignOwnAttributes(ctx context.Context, callerID string, relationshipID int64, attributeIDs []int64) error

	AnnounceEvent(ctx context.Context, posterID string, selected []int64) ([]models.NotificationIntent, error)
	BanUser(ctx context.Context, adminID, targetID string, duration social.BanDuration) (time.Time, error)
	RegisterPushToken(ctx context.Context, userID, token string) error

	ReportUser(ctx context.Context, reporterID, reportedID, reason string) (models.Report, error)
	ListOpenReports(ctx context.Context, adminID string) ([]models.OpenReport, error)
	ConfirmReport(ctx context.Context, adminID string, reportID int64) error
}

// UserProvisioner creates directory rows for authenticated users.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, userID, username string) error
}

var (
	_ FriendService   = (*social.Service)(nil)
	_ UserProvisioner = (*social.Service)(nil)
)
