package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/auth"
	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/response"
	"github.com/gravadigital/urna-api/internal/services"
)

// AuthHandler serves admin login, the OTP flow and federated sign-in.
type AuthHandler struct {
	voterService *services.VoterService
	otp          *auth.OTPManager
	identity     auth.IdentityVerifier
	issuer       *auth.TokenIssuer
	config       *config.Config
	log          *log.Logger
}

func NewAuthHandler(voterService *services.VoterService, otp *auth.OTPManager, identity auth.IdentityVerifier, issuer *auth.TokenIssuer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		voterService: voterService,
		otp:          otp,
		identity:     identity,
		issuer:       issuer,
		config:       cfg,
		log:          logger.Handler("auth_handler"),
	}
}

type AdminLoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	if err := auth.VerifyAdminSecret(h.config.Auth.AdminSecretHash, req.Secret); err != nil {
		h.log.Warn("admin login rejected", "remote_addr", c.ClientIP())
		response.UnauthorizedError(c, "Invalid admin secret")
		return
	}

	token, err := h.issuer.IssueAdmin()
	if err != nil {
		h.log.Error("failed to issue admin token", "error", err)
		response.InternalServerError(c, "Failed to create session")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Admin session created", gin.H{
		"token": token,
	})
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendOTP handles POST /api/auth/otp/send
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	// Sólo votantes registrados reciben un código
	v, err := h.voterService.GetByPhone(req.Phone)
	if err != nil {
		if common.IsNotFound(err) {
			response.NotFoundError(c, "Phone number is not registered")
			return
		}
		response.FromError(c, err)
		return
	}

	challengeID, err := h.otp.Send(v.Phone)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "OTP code sent", gin.H{
		"challenge_id": challengeID,
	})
}

type VerifyOTPRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// VerifyOTP handles POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	phone, err := h.otp.Verify(req.ChallengeID, req.Code)
	if err != nil {
		response.UnauthorizedError(c, "OTP verification failed")
		return
	}

	token, err := h.issuer.IssueVoter(phone)
	if err != nil {
		h.log.Error("failed to issue voter token", "error", err)
		response.InternalServerError(c, "Failed to create session")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter session created", gin.H{
		"token": token,
		"phone": phone,
	})
}

type TokenLoginRequest struct {
	IdentityToken string `json:"identity_token" binding:"required"`
}

// TokenLogin handles POST /api/auth/token. The identity gateway's token
// asserts an email; the email must belong to a registered voter.
func (h *AuthHandler) TokenLogin(c *gin.Context) {
	var req TokenLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	email, err := h.identity.VerifyEmail(req.IdentityToken)
	if err != nil {
		h.log.Warn("identity token rejected", "error", err)
		response.UnauthorizedError(c, "Invalid identity token")
		return
	}

	v, err := h.voterService.GetByEmail(email)
	if err != nil {
		if common.IsNotFound(err) {
			response.UnauthorizedError(c, "Email is not registered to vote")
			return
		}
		response.FromError(c, err)
		return
	}

	token, err := h.issuer.IssueVoter(v.Phone)
	if err != nil {
		h.log.Error("failed to issue voter token", "error", err)
		response.InternalServerError(c, "Failed to create session")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter session created", gin.H{
		"token": token,
		"phone": v.Phone,
	})
}

type CheckVoterRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// CheckVoter handles POST /api/voters/check
func (h *AuthHandler) CheckVoter(c *gin.Context) {
	var req CheckVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	_, err := h.voterService.GetByPhone(req.Phone)
	if err != nil {
		if common.IsNotFound(err) {
			response.SuccessResponse(c, http.StatusOK, "Voter lookup completed", gin.H{
				"registered": false,
			})
			return
		}
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter lookup completed", gin.H{
		"registered": true,
	})
}
