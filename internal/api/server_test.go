package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuslink/portal_service/config"
	"github.com/campuslink/portal_service/internal/domain"
	"github.com/campuslink/portal_service/internal/dto"
	"github.com/campuslink/portal_service/internal/helper"
	"github.com/campuslink/portal_service/internal/repository"
	"github.com/campuslink/portal_service/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type capturingProducer struct {
	events []dto.OtpMailEvent
}

func (p *capturingProducer) PublishMessage(key, value []byte) error {
	var event dto.OtpMailEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingProducer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, p.events, "no mail event published")
	return p.events[len(p.events)-1].Code
}

type testServer struct {
	app      *fiber.App
	producer *capturingProducer
	db       *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := config.Config{
		EmailDomain:   "@vu.edu.pk",
		AccessSecret:  "test-secret",
		AdminUsername: "admin",
		AdminEmail:    "admin@portal.local",
		AdminPassword: "adminpassword1",
	}
	require.NoError(t, SeedAdmin(db, cfg))

	producer := &capturingProducer{}
	authHelper := helper.SetupAuth(cfg.AccessSecret)

	userRepo := repository.NewUserRepository(db)
	pendingRepo := repository.NewPendingUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	otpSvc := services.NewOtpService(otpRepo, pendingRepo)
	userSvc := services.NewUserService(
		userRepo,
		pendingRepo,
		repository.NewActivationRepository(db),
		badgeRepo,
		otpSvc,
		authHelper,
		producer,
		cfg.EmailDomain,
	)
	portalSvc := services.NewPortalService(
		repository.NewUploadRepository(db),
		repository.NewDiscussionRepository(db),
		repository.NewSolutionRepository(db),
		nil,
	)
	adminSvc := services.NewAdminService(
		repository.NewAnnouncementRepository(db),
		badgeRepo,
		userRepo,
	)

	app := fiber.New()
	SetupRoutes(app, userSvc, portalSvc, adminSvc, authHelper)

	return &testServer{app: app, producer: producer, db: db}
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return res.StatusCode, decoded
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	status, body := ts.request(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "ali99",
		"fullName": "Ali Raza",
		"email":    "ali@vu.edu.pk",
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ali@vu.edu.pk", body["email"])
	assert.NotContains(t, body, "code", "the OTP must never appear in a response")

	code := ts.producer.lastCode(t)

	// wrong code first: generic 400, nothing consumed
	status, body = ts.request(t, http.MethodPost, "/api/auth/verify-otp", "", fiber.Map{
		"email": "ali@vu.edu.pk", "code": wrongCode(code),
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid or expired code", body["message"])

	status, body = ts.request(t, http.MethodPost, "/api/auth/verify-otp", "", fiber.Map{
		"email": "ali@vu.edu.pk", "code": code,
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["verified"])
	assert.Equal(t, "student", user["role"])

	status, body = ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ali@vu.edu.pk", "password": "supersecret1",
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ali@vu.edu.pk", "password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body["message"])

	status, body = ts.request(t, http.MethodGet, "/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ali99", body["username"])
	assert.NotContains(t, body, "password")

	status, _ = ts.request(t, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = ts.request(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["message"])
}

func TestUnverifiedLoginRedirectsToOtp(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	status, _ := ts.request(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "sara12",
		"fullName": "Sara Khan",
		"email":    "sara@vu.edu.pk",
		"password": "supersecret1",
	})
	require.Equal(t, http.StatusCreated, status)

	// login before verification: the pending signup has no account yet
	status, body := ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "sara@vu.edu.pk", "password": "supersecret1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// an existing but unverified account gets the distinguishable 403
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, ts.db.Create(&domain.User{
		Username: "nov1", FullName: "No Verify", Email: "nov@vu.edu.pk",
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
	}).Error)

	status, body = ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "  NOV@vu.edu.pk ", "password": "supersecret1",
	})
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, true, body["verificationRequired"])
	assert.Equal(t, "nov@vu.edu.pk", body["email"], "echoed email must be the canonical form")

	status, body = ts.request(t, http.MethodPost, "/api/auth/resend-otp", "", fiber.Map{
		"email": "sara@vu.edu.pk",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sara@vu.edu.pk", body["email"])
}

func TestForgotResetFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	status, _ := ts.request(t, http.MethodPost, "/api/auth/forgot-password", "", fiber.Map{
		"email": "ghost@vu.edu.pk",
	})
	assert.Equal(t, http.StatusNotFound, status)

	signupAndVerify(t, ts, "ali99", "ali@vu.edu.pk", "oldpassword1")

	status, _ = ts.request(t, http.MethodPost, "/api/auth/forgot-password", "", fiber.Map{
		"email": "ali@vu.edu.pk",
	})
	require.Equal(t, http.StatusOK, status)
	code := ts.producer.lastCode(t)

	status, body := ts.request(t, http.MethodPost, "/api/auth/verify-otp", "", fiber.Map{
		"email": "ali@vu.edu.pk", "code": code,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["canResetPassword"])

	status, _ = ts.request(t, http.MethodPost, "/api/auth/reset-password", "", fiber.Map{
		"email":           "ali@vu.edu.pk",
		"code":            code,
		"newPassword":     "newpassword1",
		"confirmPassword": "newpassword1",
	})
	require.Equal(t, http.StatusOK, status)

	// new password works, old one does not
	status, _ = ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ali@vu.edu.pk", "password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, status)
	status, _ = ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ali@vu.edu.pk", "password": "oldpassword1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// the code is consumed by the reset
	status, _ = ts.request(t, http.MethodPost, "/api/auth/reset-password", "", fiber.Map{
		"email":           "ali@vu.edu.pk",
		"code":            code,
		"newPassword":     "anotherpass1",
		"confirmPassword": "anotherpass1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAdminModeration(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	studentToken := signupAndVerify(t, ts, "ali99", "ali@vu.edu.pk", "supersecret1")

	// seeded admin bypasses the domain gate on login
	status, body := ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "admin@portal.local", "password": "adminpassword1",
	})
	require.Equal(t, http.StatusOK, status)
	adminToken := body["token"].(string)

	// students cannot write announcements
	status, _ = ts.request(t, http.MethodPost, "/api/announcements", studentToken, fiber.Map{
		"title": "hi", "body": "there",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.request(t, http.MethodPost, "/api/announcements", adminToken, fiber.Map{
		"title": "Exam schedule", "body": "Finals start June 10.",
	})
	require.Equal(t, http.StatusCreated, status)

	// announcements read is public
	req := httptest.NewRequest(http.MethodGet, "/api/announcements", nil)
	res, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// discussions are open to any authenticated student
	status, body = ts.request(t, http.MethodPost, "/api/discussions/", studentToken, fiber.Map{
		"title": "Midterm syllabus?", "body": "What does CS301 cover?",
	})
	require.Equal(t, http.StatusCreated, status)
	discussion := body["discussion"].(map[string]any)
	id := int(discussion["id"].(float64))
	require.Greater(t, id, 0)

	status, _ = ts.request(t, http.MethodPost, "/api/badges", adminToken, fiber.Map{
		"name": "Helper", "description": "50 answers",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func signupAndVerify(t *testing.T, ts *testServer, username, email, password string) string {
	t.Helper()

	status, _ := ts.request(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": username,
		"fullName": "Test " + username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = ts.request(t, http.MethodPost, "/api/auth/verify-otp", "", fiber.Map{
		"email": email, "code": ts.producer.lastCode(t),
	})
	require.Equal(t, http.StatusOK, status)

	status, body := ts.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	return body["token"].(string)
}

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}
