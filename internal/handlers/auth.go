package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/play-builder/layer-x-forum/internal/db"
	"github.com/play-builder/layer-x-forum/internal/middleware"
	"github.com/play-builder/layer-x-forum/internal/services"
)

const tokenCookieMaxAge = 60 * 60 * 24 * 7 // 7 days, matches the JWT expiry

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler() *AuthHandler {
	mail := services.NewMailService()
	return &AuthHandler{
		auth: services.NewAuthService(db.DB, mail, middleware.JWTSecret()),
	}
}

func secureCookies() bool {
	return os.Getenv("GIN_MODE") == "release"
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.auth.Register(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration complete. Check your email to verify your account.",
		"user":    gin.H{"username": user.Username, "email": user.Email},
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var in struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.auth.VerifyEmail(in.Token); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.auth.ResendVerification(in.Email); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, token, err := h.auth.Login(in.Username, in.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, tokenCookieMaxAge, "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", "", -1, "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.auth.ForgotPassword(in.Email); err != nil {
		writeServiceError(c, err)
		return
	}
	// Same answer whether the address exists or not.
	c.JSON(http.StatusOK, gin.H{"message": "If that address is registered, a reset link has been sent."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Token           string `json:"token"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.auth.ResetPassword(in.Token, in.Password, in.ConfirmPassword); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.auth.ChangePassword(user, in.CurrentPassword, in.NewPassword, in.ConfirmPassword); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
