package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/urna-api/internal/auth"
	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/handlers"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/middleware"
	"github.com/gravadigital/urna-api/internal/services"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	store      postgres.RepositoryContainer
}

// New creates a new server instance
func New(cfg *config.Config, store postgres.RepositoryContainer) *Server {
	return &Server{
		config: cfg,
		store:  store,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	// Configurar Gin
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	// Middleware básico
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	origins := strings.Split(s.config.CORS.AllowOrigins, ",")
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Inicializar servicios
	electionService := services.NewElectionService(s.store)
	ballotService := services.NewBallotService(s.store)
	resultsService := services.NewResultsService(s.store)
	voterService := services.NewVoterService(s.store, s.config.Voters.DefaultCountryCode)
	candidateService := services.NewCandidateService(s.store)

	// Inicializar autenticación
	issuer := auth.NewTokenIssuer(s.config.Auth.JWTSecret, s.config.Auth.SessionTTL)
	otp := auth.NewOTPManager(auth.LogSender{}, s.config.Auth.OTPTTL, s.config.Auth.OTPMaxAttempts)
	identity := auth.NewHS256IdentityVerifier(s.config.Auth.IdentitySecret)

	// Inicializar handlers
	authHandler := handlers.NewAuthHandler(voterService, otp, identity, issuer, s.config)
	electionHandler := handlers.NewElectionHandler(electionService, resultsService)
	candidateHandler := handlers.NewCandidateHandler(candidateService, electionService)
	voterHandler := handlers.NewVoterHandler(voterService, ballotService, electionService, s.config)
	voteHandler := handlers.NewVoteHandler(ballotService, resultsService)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Urna API is running",
			"status":  "healthy",
		})
	})

	// Fotos subidas se sirven estáticamente
	router.Static("/uploads", s.config.Upload.Dir)

	s.setupAPIRoutes(router, issuer, authHandler, electionHandler, candidateHandler, voterHandler, voteHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	issuer *auth.TokenIssuer,
	authHandler *handlers.AuthHandler,
	electionHandler *handlers.ElectionHandler,
	candidateHandler *handlers.CandidateHandler,
	voterHandler *handlers.VoterHandler,
	voteHandler *handlers.VoteHandler,
) {
	api := router.Group("/api")
	{
		// Public auth and lookups
		api.POST("/admin/login", authHandler.AdminLogin)
		api.POST("/auth/otp/send", authHandler.SendOTP)
		api.POST("/auth/otp/verify", authHandler.VerifyOTP)
		api.POST("/auth/token", authHandler.TokenLogin)
		api.POST("/voters/check", authHandler.CheckVoter)

		api.GET("/elections/current", electionHandler.Current)
		api.GET("/elections/last", electionHandler.Last)
		api.GET("/candidates", candidateHandler.Ballot)
		api.GET("/results", voteHandler.Results)

		// Admin surface
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(issuer))
		{
			admin.POST("/elections", electionHandler.Create)
			admin.GET("/elections", electionHandler.GetAll)
			admin.GET("/elections/:election_id", electionHandler.GetByID)
			admin.POST("/elections/stop", electionHandler.Stop)
			admin.POST("/elections/:election_id/start", electionHandler.Start)
			admin.POST("/elections/:election_id/stop", electionHandler.Stop)
			admin.DELETE("/elections/:election_id", electionHandler.Delete)
			admin.GET("/elections/:election_id/results", electionHandler.ResultsByID)
			admin.GET("/results", voteHandler.Results)

			admin.POST("/candidates", candidateHandler.Add)
			admin.GET("/candidates", candidateHandler.List)
			admin.DELETE("/candidates/:candidate_id", candidateHandler.Delete)

			admin.POST("/voters", voterHandler.Add)
			admin.GET("/voters", voterHandler.List)
			admin.PUT("/voters/:phone", voterHandler.Update)
			admin.DELETE("/voters/:phone", voterHandler.Delete)
			admin.POST("/voters/import", voterHandler.Import)
		}

		// Voter portal
		voter := api.Group("")
		voter.Use(middleware.RequireVoter(issuer))
		{
			voter.GET("/me", voterHandler.Me)
			voter.POST("/me/photo", voterHandler.UploadPhoto)
			voter.POST("/votes", voteHandler.Cast)
			voter.GET("/votes/status", voteHandler.Status)
		}
	}
}
