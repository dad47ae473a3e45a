package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gravadigital/urna-api/internal/auth"
	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/middleware"
	"github.com/gravadigital/urna-api/internal/services"
	"github.com/gravadigital/urna-api/internal/storage/migrations"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// recordingSender captures OTP codes so tests can replay them.
type recordingSender struct {
	phone string
	code  string
}

func (r *recordingSender) Send(phone, code string) error {
	r.phone = phone
	r.code = code
	return nil
}

// testEnv is a full API surface over an in-memory store.
type testEnv struct {
	router     *gin.Engine
	store      *postgres.Container
	sender     *recordingSender
	issuer     *auth.TokenIssuer
	elections  *services.ElectionService
	candidates *services.CandidateService
	voters     *services.VoterService
	ballots    *services.BallotService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(migrations.AllModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := postgres.NewContainerWithDB(db)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-session-secret"
	cfg.Auth.IdentitySecret = "test-identity-secret"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Auth.OTPTTL = 5 * time.Minute
	cfg.Auth.OTPMaxAttempts = 3
	cfg.Voters.DefaultCountryCode = "+91"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxFileSize = 1 << 20

	hash, err := auth.HashAdminSecret("test-admin-secret")
	require.NoError(t, err)
	cfg.Auth.AdminSecretHash = hash

	electionService := services.NewElectionService(store)
	ballotService := services.NewBallotService(store)
	resultsService := services.NewResultsService(store)
	voterService := services.NewVoterService(store, cfg.Voters.DefaultCountryCode)
	candidateService := services.NewCandidateService(store)

	sender := &recordingSender{}
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	otp := auth.NewOTPManager(sender, cfg.Auth.OTPTTL, cfg.Auth.OTPMaxAttempts)
	identity := auth.NewHS256IdentityVerifier(cfg.Auth.IdentitySecret)

	authHandler := NewAuthHandler(voterService, otp, identity, issuer, cfg)
	electionHandler := NewElectionHandler(electionService, resultsService)
	candidateHandler := NewCandidateHandler(candidateService, electionService)
	voterHandler := NewVoterHandler(voterService, ballotService, electionService, cfg)
	voteHandler := NewVoteHandler(ballotService, resultsService)

	router := gin.New()
	api := router.Group("/api")

	api.POST("/admin/login", authHandler.AdminLogin)
	api.POST("/auth/otp/send", authHandler.SendOTP)
	api.POST("/auth/otp/verify", authHandler.VerifyOTP)
	api.POST("/auth/token", authHandler.TokenLogin)
	api.POST("/voters/check", authHandler.CheckVoter)

	api.GET("/elections/current", electionHandler.Current)
	api.GET("/elections/last", electionHandler.Last)
	api.GET("/candidates", candidateHandler.Ballot)
	api.GET("/results", voteHandler.Results)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(issuer))
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

	voter := api.Group("")
	voter.Use(middleware.RequireVoter(issuer))
	voter.GET("/me", voterHandler.Me)
	voter.POST("/me/photo", voterHandler.UploadPhoto)
	voter.POST("/votes", voteHandler.Cast)
	voter.GET("/votes/status", voteHandler.Status)

	return &testEnv{
		router:     router,
		store:      store,
		sender:     sender,
		issuer:     issuer,
		elections:  electionService,
		candidates: candidateService,
		voters:     voterService,
		ballots:    ballotService,
	}
}

// request performs an HTTP round trip against the test router. A non-nil
// body is marshalled as JSON; a non-empty token goes in the bearer header.
func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.issuer.IssueAdmin()
	require.NoError(t, err)
	return token
}

func (e *testEnv) voterToken(t *testing.T, phone string) string {
	t.Helper()
	token, err := e.issuer.IssueVoter(phone)
	require.NoError(t, err)
	return token
}

// registerVoter puts a voter on the roll directly through the service.
func (e *testEnv) registerVoter(t *testing.T, name, phone string) string {
	t.Helper()
	v, err := e.voters.Register(services.RegisterVoterRequest{
		Name:       name,
		Phone:      phone,
		RollNumber: "21CS001",
	})
	require.NoError(t, err)
	return v.Phone
}

// startElection creates and starts an election with one candidate.
func (e *testEnv) startElection(t *testing.T, title string) (electionID, candidateID string) {
	t.Helper()

	cand, err := e.candidates.Add(services.AddCandidateRequest{Name: title + " candidate"})
	require.NoError(t, err)

	created, err := e.elections.Create(services.CreateElectionRequest{Title: title})
	require.NoError(t, err)
	_, err = e.elections.Start(created.ID)
	require.NoError(t, err)

	return created.ID, cand.ID
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// dataField digs the named field out of the response data envelope.
func dataField(t *testing.T, w *httptest.ResponseRecorder, field string) any {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data[field]
}
