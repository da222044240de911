package models

// NotificationType identifies why a push notification is sent.
type NotificationType string

const (
	NotificationRequest  NotificationType = "request"
	NotificationApproved NotificationType = "approved"
	NotificationNewEvent NotificationType = "new_event"
)

// NotificationData is the payload the client uses to route a tapped push.
type NotificationData struct {
	SenderUserID string           `json:"senderUserId"`
	Type         NotificationType `json:"type"`
}

// NotificationIntent describes a push to send. The target is a user id; the
// push address is resolved at delivery time.
type NotificationIntent struct {
	TargetUserID string           `json:"target_user_id"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	Data         NotificationData `json:"data"`
}
