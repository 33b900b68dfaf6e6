package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appcontent "github.com/mediaassoc/backend/internal/application/content"
	identityapp "github.com/mediaassoc/backend/internal/application/identity"
	membershipapp "github.com/mediaassoc/backend/internal/application/membership"
	"github.com/mediaassoc/backend/internal/domain/content"
	"github.com/mediaassoc/backend/internal/infrastructure/auth"
	"github.com/mediaassoc/backend/internal/infrastructure/config"
	"github.com/mediaassoc/backend/internal/infrastructure/persistence"
	"github.com/mediaassoc/backend/internal/interfaces/http/handler"
	"github.com/mediaassoc/backend/internal/interfaces/http/middleware"
	"github.com/mediaassoc/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@mediaassoc.test"
	adminPassword = "integration-password-1"
)

// APITestServer is the full HTTP API backed by a PostgreSQL container
type APITestServer struct {
	DB        *TestDB
	Gorm      *gorm.DB
	Engine    *gin.Engine
	Blacklist *auth.InMemoryTokenBlacklist
	Jobs      *persistence.GormArchivalJobRepository
	Retrier   *membershipapp.ArchivalRetrier
}

// NewAPITestServer wires repositories, services and routes the way the
// server binary does, minus telemetry and rate limiting.
func NewAPITestServer(t *testing.T) *APITestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	testDB := NewTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	database, err := persistence.Open(ctx, gormpostgres.Open(testDB.DSN), &config.DatabaseConfig{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	})
	require.NoError(t, err, "Failed to open application database")
	t.Cleanup(func() { _ = database.Close() })
	db := database.DB

	txManager := persistence.NewGormTxManager(db)
	jobRepo := persistence.NewGormArchivalJobRepository(db)
	archiver := membershipapp.NewArchiver(log, membershipapp.WithMaxRetries(3))
	memberService := membershipapp.NewMemberService(persistence.NewGormMemberRepository(db), txManager, archiver, nil)
	renewalService := membershipapp.NewRenewalService(persistence.NewGormRenewalRepository(db), txManager, archiver, nil)
	ledgerService := membershipapp.NewLedgerService(persistence.NewGormLedgerRepository(db), nil)
	retrier := membershipapp.NewArchivalRetrier(jobRepo, txManager, nil, membershipapp.RetrierConfig{
		BatchSize:    10,
		PollInterval: 50 * time.Millisecond,
	}, log)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-key-with-32-characters",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "mediaassoc-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(persistence.NewGormAdminUserRepository(db), jwtService, blacklist, log)
	require.NoError(t, authService.EnsureBootstrapAdmin(ctx, config.AdminConfig{
		Email:    adminEmail,
		Password: adminPassword,
		Name:     "Integration Admin",
	}))

	postService := appcontent.NewBlogPostService(persistence.NewGormBlogPostRepository(db), log)
	eventService := appcontent.NewEventService(persistence.NewGormEventRepository(db), log)

	cookie := config.CookieConfig{Name: "ma_session", Path: "/"}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.RegisterAPI(engine, router.NewRouter(engine), router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cookie),
		Members:      handler.NewMemberHandler(memberService),
		Renewals:     handler.NewRenewalHandler(renewalService),
		Ledger:       handler.NewLedgerHandler(ledgerService),
		ArchivalJobs: handler.NewArchivalJobHandler(membershipapp.NewArchivalJobService(jobRepo)),
		Uploads:      handler.NewUploadHandler(nil),
		System:       handler.NewSystemHandler("integration", map[string]handler.Pinger{"database": database}),
		Content: []router.ContentMount{
			{Path: "posts", Routes: handler.NewContentHandler[*content.BlogPost, appcontent.BlogPostRequest](postService, appcontent.ToBlogPostResponse)},
			{Path: "events", Routes: handler.NewContentHandler[*content.Event, appcontent.EventRequest](eventService, appcontent.ToEventResponse)},
		},
	}, router.Guards{
		Session: middleware.RequireSession(middleware.SessionConfig{Tokens: jwtService, Revoked: blacklist, CookieName: cookie.Name}),
	})

	return &APITestServer{
		DB:        testDB,
		Gorm:      db,
		Engine:    engine,
		Blacklist: blacklist,
		Jobs:      jobRepo,
		Retrier:   retrier,
	}
}

// Request makes an HTTP request to the test server
func (ts *APITestServer) Request(method, path string, body any, token ...string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// Login signs the bootstrap admin in and returns the access token
func (ts *APITestServer) Login(t *testing.T) string {
	t.Helper()

	w := ts.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token.AccessToken)
	return resp.Data.Token.AccessToken
}

// envelope is the generic response body
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}
