package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/middleware"
	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

const sessionCookieMaxAge = 3600 // seconds, matches the token TTL

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// @Summary      Register a new user
// @Description  Creates an account from username and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.CredentialsRequest  true  "Credentials"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide all credentials"})
		return
	}

	_, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		log.Printf("[auth][register][ok] username=%q", req.Username)
		c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully"})
	case errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		respondStoreError(c, "[auth][register]", err)
	}
}

// @Summary      Log in
// @Description  Verifies credentials and sets the session cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.CredentialsRequest  true  "Credentials"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide all credentials"})
		return
	}
	log.Printf("[auth][login] attempt username=%q", req.Username)

	user, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		// httpOnly + SameSite=None: the cookie is a cross-site bearer
		// credential for the browser UI
		c.SetSameSite(http.SameSiteNoneMode)
		c.SetCookie(middleware.SessionCookieName, token, sessionCookieMaxAge, "/", "", true, true)
		log.Printf("[auth][login][ok] userID=%d", user.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
	case errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidCredentials):
		log.Printf("[auth][login][deny] username=%q", req.Username)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password"})
	default:
		respondStoreError(c, "[auth][login]", err)
	}
}

// Logout clears the cookie only. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// User returns the authenticated principal's username.
func (h *AuthHandler) User(c *gin.Context) {
	_, username := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// Protected is a session-check probe for the UI.
func (h *AuthHandler) Protected(c *gin.Context) {
	_, username := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "You have access to this protected route!",
		"username": username,
	})
}
