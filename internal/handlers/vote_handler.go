package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/middleware"
	"github.com/gravadigital/urna-api/internal/response"
	"github.com/gravadigital/urna-api/internal/services"
)

// VoteHandler serves vote casting and the public results view.
type VoteHandler struct {
	ballotService  *services.BallotService
	resultsService *services.ResultsService
	log            *log.Logger
}

func NewVoteHandler(ballotService *services.BallotService, resultsService *services.ResultsService) *VoteHandler {
	return &VoteHandler{
		ballotService:  ballotService,
		resultsService: resultsService,
		log:            logger.Handler("vote_handler"),
	}
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
}

// Cast handles POST /api/votes. The voter identity comes from the session
// token, never from the payload.
func (h *VoteHandler) Cast(c *gin.Context) {
	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	vote, err := h.ballotService.CastVote(middleware.VoterPhone(c), req.CandidateID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Vote recorded", gin.H{
		"vote_id":      vote.ID,
		"candidate_id": vote.CandidateID,
		"election_id":  vote.ElectionID,
		"timestamp":    vote.Timestamp,
	})
}

// Status handles GET /api/votes/status for the authenticated voter.
func (h *VoteHandler) Status(c *gin.Context) {
	hasVoted, err := h.ballotService.HasVoted(middleware.VoterPhone(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Vote status retrieved", gin.H{
		"has_voted": hasVoted,
	})
}

// Results handles GET /api/results and GET /api/admin/results: the tally
// of the active election, or of the most recently ended one.
func (h *VoteHandler) Results(c *gin.Context) {
	results, err := h.resultsService.Compute("")
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Results computed", results)
}
