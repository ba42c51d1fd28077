package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/pooltablesquad/backoffice/internal/pricing"
)

func (s *Server) registerCalculatorRoutes(group *gin.RouterGroup) {
	group.POST("/distance", s.handleDistance)
	group.POST("/suggest", s.handleSuggest)
	group.GET("/full-pricing-sheet/:contractorId", s.handlePricingSheet)
}

type distanceRequest struct {
	ContractorID    int64  `json:"contractorId"`
	PrimaryAddress  string `json:"primaryAddress"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// handleDistance quotes both travel legs and the mileage surcharge for a job.
func (s *Server) handleDistance(c *gin.Context) {
	var req distanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ContractorID == 0 || req.PrimaryAddress == "" {
		s.metrics.CalculatorRequests.WithLabelValues("distance", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contractor ID and primary address are required."})
		return
	}

	quote, err := s.calc.QuoteDistance(c.Request.Context(), req.ContractorID, req.PrimaryAddress, req.DeliveryAddress)
	switch {
	case errors.Is(err, pricing.ErrContractorNotFound):
		s.metrics.CalculatorRequests.WithLabelValues("distance", "not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Contractor not found."})
		return
	case errors.Is(err, pricing.ErrUnroutableAddress):
		s.metrics.CalculatorRequests.WithLabelValues("distance", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not geocode contractor or primary job address."})
		return
	case err != nil:
		s.log.ErrorContext(c.Request.Context(), "Failed to compute mileage quote", "error", err)
		s.metrics.CalculatorRequests.WithLabelValues("distance", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred during calculation."})
		return
	}

	s.metrics.CalculatorRequests.WithLabelValues("distance", "ok").Inc()
	c.JSON(http.StatusOK, quote)
}

type suggestRequest struct {
	PrimaryAddress  string `json:"primaryAddress"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// handleSuggest names the closest contractor for a job, or flags it for
// manual review.
func (s *Server) handleSuggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PrimaryAddress == "" {
		s.metrics.CalculatorRequests.WithLabelValues("suggest", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Primary address is required."})
		return
	}

	suggestion, err := s.calc.Suggest(c.Request.Context(), req.PrimaryAddress, req.DeliveryAddress)
	switch {
	case errors.Is(err, pricing.ErrUnroutableAddress):
		s.metrics.CalculatorRequests.WithLabelValues("suggest", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not geocode primary address."})
		return
	case err != nil:
		s.log.ErrorContext(c.Request.Context(), "Failed to compute assignment suggestion", "error", err)
		s.metrics.CalculatorRequests.WithLabelValues("suggest", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred during suggestion."})
		return
	}

	s.metrics.CalculatorRequests.WithLabelValues("suggest", "ok").Inc()
	c.JSON(http.StatusOK, suggestion)
}

// handlePricingSheet returns a contractor's full price list. An unknown
// contractor produces an empty sheet rather than a 404; the dashboard renders
// it as "no prices set".
func (s *Server) handlePricingSheet(c *gin.Context) {
	contractorID, err := strconv.ParseInt(c.Param("contractorId"), 10, 64)
	if err != nil {
		s.metrics.CalculatorRequests.WithLabelValues("pricing_sheet", "bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contractor ID is required."})
		return
	}

	sheet, err := s.repo.FullPricingSheet(c.Request.Context(), contractorID)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "Failed to load pricing sheet", "error", err)
		s.metrics.CalculatorRequests.WithLabelValues("pricing_sheet", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred while fetching the pricing sheet."})
		return
	}
	if sheet == nil {
		sheet = []models.PriceRow{}
	}

	s.metrics.CalculatorRequests.WithLabelValues("pricing_sheet", "ok").Inc()
	c.JSON(http.StatusOK, sheet)
}
