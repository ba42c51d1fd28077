package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard session endpoints and the middleware guarding
// the protected API routes.
type Handler struct {
	log    *slog.Logger
	store  UserStore
	secret string
	secure bool
	now    func() time.Time
}

// NewHandler wires the auth endpoints. secure controls the cookie's Secure
// flag and should be true everywhere except local development.
func NewHandler(log *slog.Logger, store UserStore, secret string, secure bool) *Handler {
	return &Handler{log: log, store: store, secret: secret, secure: secure, now: time.Now}
}

// Register mounts the session endpoints on the given route group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/register", h.HandleRegister)
	group.POST("/login", h.HandleLogin)
	group.POST("/logout", h.HandleLogout)
	group.GET("/check", h.Middleware(), h.HandleCheck)
}

type credentials struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(TokenTTL.Seconds()), "/", "", h.secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", h.secure, true)
}

// HandleRegister creates a dashboard login and starts a session.
func (h *Handler) HandleRegister(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ctx := c.Request.Context()

	existing, err := h.store.GetStaffUserByEmail(ctx, creds.Email)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to look up staff user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	userID, err := h.store.CreateStaffUser(ctx, creds.Email, hash)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to create staff user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	token, err := IssueToken(h.secret, userID, h.now())
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// HandleLogin verifies credentials and starts a session. Unknown accounts and
// wrong passwords produce the same response.
func (h *Handler) HandleLogin(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.store.GetStaffUserByEmail(ctx, creds.Email)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to look up staff user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if user == nil || !CheckPassword(user.PasswordHash, creds.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := IssueToken(h.secret, user.ID, h.now())
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to issue session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully"})
}

// HandleLogout wipes the session cookie.
func (h *Handler) HandleLogout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// HandleCheck reports whether the caller holds a valid session. The
// middleware has already done the work by the time this runs.
func (h *Handler) HandleCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"loggedIn": true})
}

// userIDKey is the gin context key the middleware stores the caller under.
const userIDKey = "auth_user_id"

// Middleware guards dashboard routes. A missing cookie is 401, an invalid or
// expired one is 403; both clear the cookie so the browser stops resending it.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			h.clearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		userID, err := VerifyToken(h.secret, token)
		if err != nil {
			h.clearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated staff user id set by Middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)

	return id, ok
}
