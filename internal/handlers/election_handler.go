package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/response"
	"github.com/gravadigital/urna-api/internal/services"
)

// ElectionHandler serves the admin election lifecycle plus the public
// current/last lookups.
type ElectionHandler struct {
	electionService *services.ElectionService
	resultsService  *services.ResultsService
	log             *log.Logger
}

func NewElectionHandler(electionService *services.ElectionService, resultsService *services.ResultsService) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
		resultsService:  resultsService,
		log:             logger.Handler("election_handler"),
	}
}

// Create handles POST /api/admin/elections
func (h *ElectionHandler) Create(c *gin.Context) {
	var req services.CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload")
		return
	}

	e, err := h.electionService.Create(req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Election created", e)
}

// GetAll handles GET /api/admin/elections
func (h *ElectionHandler) GetAll(c *gin.Context) {
	elections, err := h.electionService.All()
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Elections retrieved", gin.H{
		"elections": elections,
		"count":     len(elections),
	})
}

// GetByID handles GET /api/admin/elections/:election_id
func (h *ElectionHandler) GetByID(c *gin.Context) {
	e, err := h.electionService.GetByID(c.Param("election_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election retrieved", e)
}

// Start handles POST /api/admin/elections/:election_id/start
func (h *ElectionHandler) Start(c *gin.Context) {
	e, err := h.electionService.Start(c.Param("election_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election started", e)
}

// Stop handles POST /api/admin/elections/:election_id/stop and
// POST /api/admin/elections/stop (stop whichever is active).
func (h *ElectionHandler) Stop(c *gin.Context) {
	e, err := h.electionService.Stop(c.Param("election_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election stopped", e)
}

// Delete handles DELETE /api/admin/elections/:election_id
func (h *ElectionHandler) Delete(c *gin.Context) {
	id := c.Param("election_id")
	if err := h.electionService.Delete(id); err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Election deleted", gin.H{
		"election_id": id,
	})
}

// Current handles GET /api/elections/current
func (h *ElectionHandler) Current(c *gin.Context) {
	e, err := h.electionService.Current()
	if err != nil {
		response.FromError(c, err)
		return
	}
	if e == nil {
		response.NotFoundError(c, "No active election")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Active election retrieved", e)
}

// Last handles GET /api/elections/last
func (h *ElectionHandler) Last(c *gin.Context) {
	e, err := h.electionService.LastEnded()
	if err != nil {
		response.FromError(c, err)
		return
	}
	if e == nil {
		response.NotFoundError(c, "No ended election")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Last ended election retrieved", e)
}

// ResultsByID handles GET /api/admin/elections/:election_id/results
func (h *ElectionHandler) ResultsByID(c *gin.Context) {
	results, err := h.resultsService.Compute(c.Param("election_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Results computed", results)
}
