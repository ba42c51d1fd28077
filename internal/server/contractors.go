package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/repository"
)

func (s *Server) registerContractorRoutes(group *gin.RouterGroup) {
	group.GET("", s.handleListContractors)
	group.POST("", s.handleCreateContractor)
	group.PUT("/:id", s.handleUpdateContractor)
	group.DELETE("/:id", s.handleDeleteContractor)
	group.PUT("/:id/prices/:serviceId", s.handleUpsertContractorPrice)
}

// idParam parses a numeric path parameter, answering 400 itself on garbage.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}

	return id, true
}

// repoError maps repository sentinels onto HTTP statuses. Anything unmapped
// is logged and answered as a 500.
func (s *Server) repoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, repository.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "still referenced by other records"})
	default:
		s.log.ErrorContext(c.Request.Context(), "Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (s *Server) handleListContractors(c *gin.Context) {
	contractors, err := s.repo.ListContractors(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if contractors == nil {
		contractors = []models.Contractor{}
	}

	c.JSON(http.StatusOK, contractors)
}

func (s *Server) handleCreateContractor(c *gin.Context) {
	var contractor models.Contractor
	if err := c.ShouldBindJSON(&contractor); err != nil || contractor.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contractor name is required"})
		return
	}

	stored, err := s.repo.CreateContractor(c.Request.Context(), contractor)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (s *Server) handleUpdateContractor(c *gin.Context) {
	contractorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var contractor models.Contractor
	if err := c.ShouldBindJSON(&contractor); err != nil || contractor.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contractor name is required"})
		return
	}

	stored, err := s.repo.UpdateContractor(c.Request.Context(), contractorID, contractor)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (s *Server) handleDeleteContractor(c *gin.Context) {
	contractorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := s.repo.SoftDeleteContractor(c.Request.Context(), contractorID); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "contractor deleted"})
}

type contractorPriceRequest struct {
	Price        float64  `json:"price"`
	SubPrice     *float64 `json:"sub_price"`
	MaterialCost *float64 `json:"material_cost"`
}

func (s *Server) handleUpsertContractorPrice(c *gin.Context) {
	contractorID, ok := idParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := idParam(c, "serviceId")
	if !ok {
		return
	}

	var req contractorPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}

	err := s.repo.UpsertContractorPrice(c.Request.Context(),
		contractorID, serviceID, req.Price, req.SubPrice, req.MaterialCost)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "price saved"})
}
