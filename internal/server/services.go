package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
)

func (s *Server) registerServiceRoutes(group *gin.RouterGroup) {
	group.GET("", s.handleListServices)
	group.POST("", s.handleCreateService)
	group.DELETE("/:id", s.handleDeleteService)
}

func (s *Server) handleListServices(c *gin.Context) {
	services, err := s.repo.ListServices(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}

	c.JSON(http.StatusOK, services)
}

type serviceRequest struct {
	ServiceName string   `json:"service_name" binding:"required"`
	TableSizeFt *float64 `json:"table_size_ft"`
}

func (s *Server) handleCreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service name is required"})
		return
	}

	stored, err := s.repo.CreateService(c.Request.Context(), req.ServiceName, req.TableSizeFt)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

// handleDeleteService removes a catalog entry. Entries still priced by a
// contractor answer 409 instead of cascading.
func (s *Server) handleDeleteService(c *gin.Context) {
	serviceID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := s.repo.DeleteService(c.Request.Context(), serviceID); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}
