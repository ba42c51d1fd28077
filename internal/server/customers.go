package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
)

const defaultPageSize = 20

func (s *Server) registerCustomerRoutes(group *gin.RouterGroup) {
	group.GET("", s.handleListCustomers)
	group.POST("", s.handleCreateCustomer)
	group.GET("/:id", s.handleGetCustomer)
	group.PUT("/:id", s.handleUpdateCustomer)
	group.DELETE("/:id", s.handleDeleteCustomer)

	group.GET("/:id/notes", s.handleListCustomerNotes)
	group.POST("/:id/notes", s.handleAddCustomerNote)
	group.PUT("/:id/notes/:noteId", s.handleUpdateCustomerNote)
	group.DELETE("/:id/notes/:noteId", s.handleDeleteCustomerNote)
}

// pagination reads ?page= and ?search= with the dashboard's defaults.
func pagination(c *gin.Context) (page int, search string) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	return page, c.Query("search")
}

func (s *Server) handleListCustomers(c *gin.Context) {
	page, search := pagination(c)

	customers, total, err := s.repo.ListCustomers(c.Request.Context(), page, defaultPageSize, search)
	if err != nil {
		s.repoError(c, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}

	c.JSON(http.StatusOK, gin.H{"data": customers, "totalCount": total})
}

func (s *Server) handleGetCustomer(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	customer, err := s.repo.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (s *Server) handleCreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil || customer.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer email is required"})
		return
	}

	stored, err := s.repo.CreateCustomer(c.Request.Context(), customer)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (s *Server) handleUpdateCustomer(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil || customer.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer email is required"})
		return
	}

	stored, err := s.repo.UpdateCustomer(c.Request.Context(), customerID, customer)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (s *Server) handleDeleteCustomer(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := s.repo.SoftDeleteCustomer(c.Request.Context(), customerID); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

func (s *Server) handleListCustomerNotes(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	notes, err := s.repo.ListCustomerNotes(c.Request.Context(), customerID)
	if err != nil {
		s.repoError(c, err)
		return
	}
	if notes == nil {
		notes = []models.CustomerNote{}
	}

	c.JSON(http.StatusOK, notes)
}

type noteRequest struct {
	Note string `json:"note" binding:"required"`
}

func (s *Server) handleAddCustomerNote(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note text is required"})
		return
	}

	stored, err := s.repo.AddCustomerNote(c.Request.Context(), customerID, req.Note)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (s *Server) handleUpdateCustomerNote(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := idParam(c, "noteId")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "note text is required"})
		return
	}

	stored, err := s.repo.UpdateCustomerNote(c.Request.Context(), customerID, noteID, req.Note)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (s *Server) handleDeleteCustomerNote(c *gin.Context) {
	customerID, ok := idParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := idParam(c, "noteId")
	if !ok {
		return
	}

	if err := s.repo.DeleteCustomerNote(c.Request.Context(), customerID, noteID); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
