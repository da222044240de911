package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the friend graph API on an authenticated group.
func RegisterRoutes(group *gin.RouterGroup, service FriendService) {
	relationships := NewRelationshipHandler(service)
	attributes := NewAttributeHandler(service)
	events := NewEventHandler(service)
	account := NewAccountHandler(service)
	reports := NewReportHandler(service)

	group.GET("/users/:id/relationship", relationships.Status)
	group.POST("/users/:id/request", relationships.SendRequest)
	group.DELETE("/users/:id/request", relationships.CancelRequest)
	group.POST("/users/:id/approve", relationships.Approve)
	group.POST("/users/:id/reject", relationships.Reject)
	group.DELETE("/users/:id/friend", relationships.Unfriend)
	group.GET("/users/:id/chat", relationships.Chat)
	group.GET("/requests/incoming", relationships.IncomingRequests)
	group.GET("/requests/outgoing", relationships.OutgoingRequests)

	group.GET("/friends", attributes.ListFriends)
	group.GET("/attributes", attributes.ListAttributes)
	group.POST("/attributes", attributes.CreateAttribute)
	group.DELETE("/attributes/:attribute_id", attributes.DeleteAttribute)
	group.PUT("/relationships/:relationship_id/attributes", attributes.AssignAttributes)

	group.POST("/events/announce", events.Announce)
	group.PUT("/me/push-token", account.RegisterPushToken)
	group.POST("/admin/users/:id/ban", account.BanUser)

	group.POST("/users/:id/report", reports.Report)
	group.GET("/admin/reports", reports.ListOpen)
	group.POST("/admin/reports/:report_id/confirm", reports.Confirm)
}
