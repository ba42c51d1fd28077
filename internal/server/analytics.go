package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/analytics"
)

type analyticsEventRequest struct {
	ClientID  string `json:"client_id"`
	EventName string `json:"event_name"`
}

// handleSendAnalyticsEvent relays a public-site analytics event to Google
// Analytics. The endpoint is unauthenticated on purpose: it exists so the
// marketing pages can report events without embedding the API secret.
func (s *Server) handleSendAnalyticsEvent(c *gin.Context) {
	var req analyticsEventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ClientID == "" || req.EventName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: client_id or event_name"})
		return
	}

	event := analytics.Event{ClientID: req.ClientID, Name: req.EventName}
	if err := s.analytics.Send(c.Request.Context(), event); err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to forward analytics event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event sent to GA4 successfully"})
}
