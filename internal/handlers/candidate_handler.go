package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/response"
	"github.com/gravadigital/urna-api/internal/services"
)

// CandidateHandler serves candidate administration and the public listing
// shown on the ballot.
type CandidateHandler struct {
	candidateService *services.CandidateService
	electionService  *services.ElectionService
	log              *log.Logger
}

func NewCandidateHandler(candidateService *services.CandidateService, electionService *services.ElectionService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
		electionService:  electionService,
		log:              logger.Handler("candidate_handler"),
	}
}

// Add handles POST /api/admin/candidates
func (h *CandidateHandler) Add(c *gin.Context) {
	var req services.AddCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	cand, err := h.candidateService.Add(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Candidate added", cand)
}

// List handles GET /api/admin/candidates
func (h *CandidateHandler) List(c *gin.Context) {
	candidates, err := h.candidateService.GetAll()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Candidates retrieved", gin.H{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// Delete handles DELETE /api/admin/candidates/:candidate_id
func (h *CandidateHandler) Delete(c *gin.Context) {
	id := c.Param("candidate_id")
	if err := h.candidateService.Delete(id); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Candidate deleted", gin.H{
		"candidate_id": id,
	})
}

// Ballot handles GET /api/candidates. The ballot is only available while
// an election is running.
func (h *CandidateHandler) Ballot(c *gin.Context) {
	active, err := h.electionService.Current()
	if err != nil {
		response.FromError(c, err)
		return
	}
	if active == nil {
		response.NotFoundError(c, "No active election")
		return
	}

	candidates, err := h.candidateService.GetAll()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Ballot retrieved", gin.H{
		"election":   active,
		"candidates": candidates,
	})
}
