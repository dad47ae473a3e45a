package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/middleware"
	"github.com/gravadigital/urna-api/internal/response"
	"github.com/gravadigital/urna-api/internal/services"
)

// VoterHandler serves voter-roll administration and the voter portal.
type VoterHandler struct {
	voterService    *services.VoterService
	ballotService   *services.BallotService
	electionService *services.ElectionService
	config          *config.Config
	log             *log.Logger
}

func NewVoterHandler(voterService *services.VoterService, ballotService *services.BallotService, electionService *services.ElectionService, cfg *config.Config) *VoterHandler {
	return &VoterHandler{
		voterService:    voterService,
		ballotService:   ballotService,
		electionService: electionService,
		config:          cfg,
		log:             logger.Handler("voter_handler"),
	}
}

// Add handles POST /api/admin/voters
func (h *VoterHandler) Add(c *gin.Context) {
	var req services.RegisterVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	v, err := h.voterService.Register(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Voter registered", v)
}

// List handles GET /api/admin/voters
func (h *VoterHandler) List(c *gin.Context) {
	voters, err := h.voterService.GetAll()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voters retrieved", gin.H{
		"voters": voters,
		"count":  len(voters),
	})
}

// Update handles PUT /api/admin/voters/:phone
func (h *VoterHandler) Update(c *gin.Context) {
	var req services.UpdateVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	v, err := h.voterService.Update(c.Param("phone"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter updated", v)
}

// Delete handles DELETE /api/admin/voters/:phone
func (h *VoterHandler) Delete(c *gin.Context) {
	phone := c.Param("phone")
	if err := h.voterService.Delete(phone); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter deleted", gin.H{
		"phone": phone,
	})
}

// Import handles POST /api/admin/voters/import. The uploaded file is a CSV
// with a header row naming at least name and phone.
func (h *VoterHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > h.config.Upload.MaxFileSize {
		response.BadRequestError(c, "File size exceeds the upload limit")
		return
	}

	report, err := h.voterService.ImportCSV(file)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.log.Info("voter import handled", "filename", header.Filename,
		"imported", report.Imported, "failed", report.Failed)
	response.SuccessResponse(c, http.StatusOK, "Voter import finished", report)
}

// Me handles GET /api/me for the authenticated voter.
func (h *VoterHandler) Me(c *gin.Context) {
	phone := middleware.VoterPhone(c)

	v, err := h.voterService.GetByPhone(phone)
	if err != nil {
		response.FromError(c, err)
		return
	}

	hasVoted, err := h.ballotService.HasVoted(phone)
	if err != nil {
		response.FromError(c, err)
		return
	}

	current, err := h.electionService.Current()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Voter profile retrieved", gin.H{
		"voter":     v,
		"has_voted": hasVoted,
		"election":  current,
	})
}

// UploadPhoto handles POST /api/me/photo
func (h *VoterHandler) UploadPhoto(c *gin.Context) {
	phone := middleware.VoterPhone(c)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		response.BadRequestError(c, "No photo provided")
		return
	}
	defer file.Close()

	if header.Size > h.config.Upload.MaxFileSize {
		response.BadRequestError(c, "Photo size exceeds the upload limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		response.BadRequestError(c, "Photo must be a JPG or PNG file")
		return
	}

	if err := os.MkdirAll(h.config.Upload.Dir, 0755); err != nil {
		h.log.Error("failed to create uploads directory", "error", err)
		response.InternalServerError(c, "Failed to store photo")
		return
	}

	filename := fmt.Sprintf("%s_%d%s", strings.TrimPrefix(phone, "+"), time.Now().Unix(), ext)
	if err := c.SaveUploadedFile(header, filepath.Join(h.config.Upload.Dir, filename)); err != nil {
		h.log.Error("failed to save photo", "error", err)
		response.InternalServerError(c, "Failed to store photo")
		return
	}

	if err := h.voterService.UpdatePhoto(phone, filename); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Photo updated", gin.H{
		"photo": filename,
	})
}
