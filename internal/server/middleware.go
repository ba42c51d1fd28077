package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// verifyWebhookSecret rejects webhook calls that do not carry the shared
// secret. The form provider can only append query parameters, so the secret
// is accepted both as ?secret= and as the X-Webhook-Secret header. An empty
// configured secret matches nothing: an unconfigured gate stays closed.
func (s *Server) verifyWebhookSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.Query("secret")
		if secret == "" {
			secret = c.GetHeader("X-Webhook-Secret")
		}
		if s.cfg.WebhookSecret == "" || strings.TrimSpace(secret) != s.cfg.WebhookSecret {
			s.log.WarnContext(c.Request.Context(), "Rejected webhook with invalid secret",
				"path", c.FullPath(), "remote", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid webhook secret"})
			return
		}
		c.Next()
	}
}

// observability logs each handled request and feeds the duration histogram.
func (s *Server) observability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		s.metrics.HTTPSeconds.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		s.log.InfoContext(c.Request.Context(), "Handled request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed.String(),
		)
	}
}
