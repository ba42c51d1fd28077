package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/repository"
)

func (s *Server) registerLeadRoutes(api *gin.RouterGroup) {
	contacts := api.Group("/contacts")
	contacts.GET("", s.handleListContacts)
	contacts.GET("/:id", s.handleGetContact)
	contacts.PATCH("/:id/status", s.handleUpdateContactStatus)

	api.GET("/selling", s.handleListSellingLeads)
	api.PATCH("/selling/:id/status", s.handleUpdateSellingStatus)
	api.GET("/buying", s.handleListBuyingLeads)

	inquiries := api.Group("/inquiries")
	inquiries.GET("", s.handleListTableInquiries)
	inquiries.PATCH("/:id/status", s.handleUpdateInquiryStatus)

	api.GET("/leads", s.handleListLeads)
	api.GET("/leads/statuses", s.handleListLeadStatuses)
}

func (s *Server) handleListContacts(c *gin.Context) {
	contacts, err := s.repo.ListContacts(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	c.JSON(http.StatusOK, contacts)
}

func (s *Server) handleGetContact(c *gin.Context) {
	contactID, ok := idParam(c, "id")
	if !ok {
		return
	}

	contact, err := s.repo.GetContact(c.Request.Context(), contactID)
	if err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (s *Server) handleUpdateContactStatus(c *gin.Context) {
	contactID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := s.repo.UpdateContactStatus(c.Request.Context(), contactID, req.Status); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (s *Server) handleListSellingLeads(c *gin.Context) {
	leads, err := s.repo.ListSellingLeads(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if leads == nil {
		leads = []models.SellingLead{}
	}

	c.JSON(http.StatusOK, leads)
}

func (s *Server) handleUpdateSellingStatus(c *gin.Context) {
	leadID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := s.repo.UpdateSellingLeadStatus(c.Request.Context(), leadID, req.Status); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (s *Server) handleListBuyingLeads(c *gin.Context) {
	leads, err := s.repo.ListBuyingLeads(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if leads == nil {
		leads = []models.BuyingLead{}
	}

	c.JSON(http.StatusOK, leads)
}

func (s *Server) handleListTableInquiries(c *gin.Context) {
	inquiries, err := s.repo.ListTableInquiries(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if inquiries == nil {
		inquiries = []models.TableInquiry{}
	}

	c.JSON(http.StatusOK, inquiries)
}

func (s *Server) handleUpdateInquiryStatus(c *gin.Context) {
	inquiryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := s.repo.UpdateTableInquiryStatus(c.Request.Context(), inquiryID, req.Status); err != nil {
		s.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// handleListLeads serves the combined feed of service requests and contact
// submissions the dashboard's landing page shows. Supports ?page, ?search,
// and ?statuses (comma list).
func (s *Server) handleListLeads(c *gin.Context) {
	page, search := pagination(c)

	var statuses []string
	for _, status := range strings.Split(c.Query("statuses"), ",") {
		if status = strings.TrimSpace(status); status != "" {
			statuses = append(statuses, status)
		}
	}

	filter := repository.LeadFilter{
		Search:   search,
		Statuses: statuses,
		Page:     page,
		PageSize: defaultPageSize,
	}

	leads, total, err := s.repo.ListLeads(c.Request.Context(), filter)
	if err != nil {
		s.repoError(c, err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	totalPages := (total + defaultPageSize - 1) / defaultPageSize

	c.JSON(http.StatusOK, gin.H{
		"page":       page,
		"totalPages": totalPages,
		"pageSize":   defaultPageSize,
		"totalCount": total,
		"data":       leads,
	})
}

func (s *Server) handleListLeadStatuses(c *gin.Context) {
	statuses, err := s.repo.ListLeadStatuses(c.Request.Context())
	if err != nil {
		s.repoError(c, err)
		return
	}
	if statuses == nil {
		statuses = []string{}
	}

	c.JSON(http.StatusOK, statuses)
}
