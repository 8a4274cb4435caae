package handlers

import (
	"marketplace-server/internal/models"
	"marketplace-server/internal/service"
	"marketplace-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// RegisterUserRequest represents the request body for user registration.
type RegisterUserRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
}

// RegisterProRequest represents the request body for pro registration.
type RegisterProRequest struct {
	ProName      string `json:"proName" binding:"required"`
	BusinessName string `json:"businessName"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	PhoneNumber  string `json:"phoneNumber"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser handles user registration.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if !utils.BindAndValidate(c, &req) {
		return // Error response handled by BindAndValidate
	}

	result, err := h.Auth.RegisterUser(c.Request.Context(), service.RegisterUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		utils.HandleError(c, "register user", err)
		return
	}
	utils.Created(c, "User registered successfully", result)
}

// RegisterPro handles pro registration.
func (h *AuthHandler) RegisterPro(c *gin.Context) {
	var req RegisterProRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Auth.RegisterPro(c.Request.Context(), service.RegisterProInput{
		Name:         req.ProName,
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     req.Password,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		utils.HandleError(c, "register pro", err)
		return
	}
	utils.Created(c, "Pro registered successfully", result)
}

func (h *AuthHandler) login(c *gin.Context, kind models.ParticipantKind) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), kind, req.Email, req.Password)
	if err != nil {
		utils.HandleError(c, "login", err)
		return
	}
	utils.Success(c, "Login successful", result)
}

// LoginUser handles user login.
func (h *AuthHandler) LoginUser(c *gin.Context) { h.login(c, models.KindUser) }

// LoginPro handles pro login.
func (h *AuthHandler) LoginPro(c *gin.Context) { h.login(c, models.KindPro) }

// GetProfile returns the authenticated caller's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}

	profile, err := h.Auth.Profile(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, "get profile", err)
		return
	}
	utils.Success(c, "Profile retrieved successfully", profile)
}
