package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
)

// Triage states a request can move through.
var requestStatuses = map[string]struct{}{
	"new":         {},
	"responded":   {},
	"job created": {},
}

func (s *Server) registerRequestRoutes(group *gin.RouterGroup) {
	group.GET("", s.handleListRequests)
	group.GET("/:id", s.handleGetRequest)
	group.PATCH("/:id/status", s.handleUpdateRequestStatus)
	group.PATCH("/:id/assign", s.handleAssignRequest)
}

func (s *Server) handleListRequests(c *gin.Context) {
	page, search := pagination(c)

	requests, total, err := s.repo.ListRequests(c.Request.Context(), page, defaultPageSize, search)
	if err != nil {
		s.repoError(c, err)
		return
	}
	if requests == nil {
		requests = []models.TableRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"data": requests, "totalCount": total})
}

func (s *Server) handleGetRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	request, err := s.repo.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleUpdateRequestStatus(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if _, valid := requestStatuses[req.Status]; !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := s.repo.UpdateRequestStatus(c.Request.Context(), requestID, req.Status); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

type assignRequest struct {
	ContractorID  *int64     `json:"contractor_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

// handleAssignRequest records the contractor and date for a job. A null
// contractor_id clears the assignment.
func (s *Server) handleAssignRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed assignment"})
		return
	}

	err := s.repo.AssignRequestContractor(c.Request.Context(), requestID, req.ContractorID, req.ScheduledDate)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "assignment saved"})
}
