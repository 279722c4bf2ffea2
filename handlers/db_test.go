package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Handlers that talk to the database are exercised against the Postgres
// instance named by HIRELOOM_TEST_DATABASE_URL. Those tests skip when it is
// unset.
const testJWTSecret = "handlers-test-secret"

func openTestDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("HIRELOOM_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HIRELOOM_TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	database.Migrate()

	wipe := func() {
		db.Exec("TRUNCATE users, jobs, candidates, aptitude_tests, test_responses, conversations, messages")
	}
	wipe()
	t.Cleanup(func() {
		wipe()
		database.DB = prev
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	t.Setenv("JWT_SECRET", testJWTSecret)
}

// newRecruitingApp mounts the authenticated recruiter and admin endpoints the
// way the route packages do.
func newRecruitingApp(t *testing.T, aptitude *AptitudeHandler) *fiber.App {
	t.Helper()
	openTestDB(t)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", LoginUser)

	protected := []fiber.Handler{middleware.Protected(), middleware.RecruiterRequired()}
	jobs := api.Group("/jobs", protected...)
	jobs.Post("", CreateJob)
	jobs.Get("", ListJobs)
	jobs.Get("/:jobId", GetJob)
	jobs.Put("/:jobId", UpdateJob)
	jobs.Delete("/:jobId", DeleteJob)
	jobs.Get("/:jobId/candidates", ListJobCandidates)
	if aptitude != nil {
		jobs.Post("/:jobId/aptitude/generate", aptitude.GenerateQuestions)
	}

	candidates := api.Group("/candidates", protected...)
	candidates.Post("", CreateCandidate)
	candidates.Get("", ListCandidates)
	candidates.Get("/:candidateId", GetCandidate)
	candidates.Patch("/:candidateId/status", UpdateCandidateStatus)
	candidates.Delete("/:candidateId", DeleteCandidate)

	conversations := api.Group("/conversations", protected...)
	conversations.Get("", GetRecruiterConversations)
	conversations.Post("/:conversationId/messages", SendMessage)

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Put("/users/:userId/status", ToggleUserStatus)
	return app
}

func seedUser(t *testing.T, email, role, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{FullName: strings.Split(email, "@")[0], Email: email, Password: string(hash), Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := signToken(user.ID, user.Role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func send(t *testing.T, app *fiber.App, method, path, token, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []notifications.Email
	err  error
}

func (m *mailRecorder) Send(_ context.Context, msg notifications.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mailRecorder) emails() []notifications.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notifications.Email(nil), m.sent...)
}

func useMailer(t *testing.T) *mailRecorder {
	t.Helper()
	rec := &mailRecorder{}
	prev := notifications.EmailClient
	notifications.EmailClient = rec
	t.Cleanup(func() { notifications.EmailClient = prev })
	return rec
}
