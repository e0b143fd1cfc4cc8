package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangabook/internal/http-api/dto"
	"mangabook/internal/http-api/middleware"
	"mangabook/internal/http-api/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.GET("/me", h.Me)
	rg.POST("/reset-password", h.ResetPassword)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.SecurityWord)
	switch {
	case errors.Is(err, service.ErrNameInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	case errors.Is(err, service.ErrEmailInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	case errors.Is(err, service.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during registration. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, User: dto.FromUser(user)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.EmailOrUsername, req.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User does not exist"})
		return
	case errors.Is(err, service.ErrUserDeactivated):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: dto.FromUser(user)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	token := c.GetHeader(middleware.TokenHeader)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.FromUser(user)})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.EmailOrUsername, req.SecurityWord, req.NewPassword, req.ConfirmPassword)
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User does not exist"})
		return
	case errors.Is(err, service.ErrWrongSecurityWord):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect security word"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error resetting password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
