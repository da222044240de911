package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ReportHandler lets users report each other and admins review the reports.
type ReportHandler struct {
	service FriendService
}

// NewReportHandler builds a ReportHandler.
func NewReportHandler(service FriendService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Report files a complaint about the user in the path.
func (h *ReportHandler) Report(c *gin.Context) {
	reportedID, ok := userParam(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidInput(err.Error()))
		return
	}
	report, err := h.service.ReportUser(requestContext(c), userIDFromContext(c), reportedID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListOpen returns the unconfirmed reports. Admin only.
func (h *ReportHandler) ListOpen(c *gin.Context) {
	reports, err := h.service.ListOpenReports(requestContext(c), userIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Confirm marks the report in the path as handled. Admin only.
func (h *ReportHandler) Confirm(c *gin.Context) {
	reportID, err := strconv.ParseInt(c.Param("report_id"), 10, 64)
	if err != nil || reportID <= 0 {
		writeError(c, invalidInput("invalid report id"))
		return
	}
	if err := h.service.ConfirmReport(requestContext(c), userIDFromContext(c), reportID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
