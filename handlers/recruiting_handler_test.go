package handlers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobs_ScopedToRecruiter(t *testing.T) {
	app := newRecruitingApp(t, nil)
	alice := seedUser(t, "alice@example.com", models.RoleRecruiter, "password123")
	bob := seedUser(t, "bob@example.com", models.RoleRecruiter, "password123")
	aliceToken, bobToken := tokenFor(t, alice), tokenFor(t, bob)

	status, body := send(t, app, "POST", "/api/v1/jobs", aliceToken, `{"title":"Backend Engineer","skills":["Go","SQL"]}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var job models.Job
	require.NoError(t, json.Unmarshal(body, &job))
	assert.Equal(t, alice.ID, job.RecruiterID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	path := "/api/v1/jobs/" + job.ID.String()

	status, _ = send(t, app, "GET", path, bobToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = send(t, app, "PUT", path, bobToken, `{"title":"Hijacked"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = send(t, app, "DELETE", path, bobToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = send(t, app, "GET", "/api/v1/jobs", bobToken, "")
	require.Equal(t, fiber.StatusOK, status)
	var listed []models.Job
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed)

	status, body = send(t, app, "PUT", path, aliceToken, `{"title":"Senior Backend Engineer","status":"closed"}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	var stored models.Job
	require.NoError(t, database.DB.First(&stored, "id = ?", job.ID).Error)
	assert.Equal(t, "Senior Backend Engineer", stored.Title)
	assert.Equal(t, models.JobStatusClosed, stored.Status)

	status, _ = send(t, app, "GET", "/api/v1/jobs", "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCandidates_ScopedToRecruiter(t *testing.T) {
	app := newRecruitingApp(t, nil)
	alice := seedUser(t, "alice@example.com", models.RoleRecruiter, "password123")
	bob := seedUser(t, "bob@example.com", models.RoleRecruiter, "password123")
	aliceToken, bobToken := tokenFor(t, alice), tokenFor(t, bob)

	job := models.Job{RecruiterID: alice.ID, Title: "Data Analyst", Status: models.JobStatusOpen}
	require.NoError(t, database.DB.Create(&job).Error)
	payload := fmt.Sprintf(`{"full_name":"Sam Lee","email":"sam@example.com","job_id":%q}`, job.ID)

	status, _ := send(t, app, "POST", "/api/v1/candidates", bobToken, payload)
	assert.Equal(t, fiber.StatusNotFound, status, "another recruiter's job cannot be attached")

	status, body := send(t, app, "POST", "/api/v1/candidates", aliceToken, payload)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var candidate models.Candidate
	require.NoError(t, json.Unmarshal(body, &candidate))
	assert.Equal(t, models.CandidateApplied, candidate.Status)
	path := "/api/v1/candidates/" + candidate.ID.String()

	status, _ = send(t, app, "GET", path, bobToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = send(t, app, "PATCH", path+"/status", bobToken, `{"status":"hired"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = send(t, app, "DELETE", path, bobToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = send(t, app, "GET", "/api/v1/candidates", bobToken, "")
	require.Equal(t, fiber.StatusOK, status)
	var listed []models.Candidate
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Empty(t, listed)

	status, body = send(t, app, "GET", "/api/v1/candidates?page_size=-5", aliceToken, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 1)

	status, _ = send(t, app, "PATCH", path+"/status", aliceToken, `{"status":"promoted"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = send(t, app, "PATCH", path+"/status", aliceToken, `{"status":"interview"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, body = send(t, app, "GET", "/api/v1/jobs/"+job.ID.String()+"/candidates", aliceToken, "")
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.CandidateInterview, listed[0].Status)

	status, _ = send(t, app, "DELETE", "/api/v1/jobs/"+job.ID.String(), aliceToken, "")
	require.Equal(t, fiber.StatusNoContent, status)
	var stored models.Candidate
	require.NoError(t, database.DB.First(&stored, "id = ?", candidate.ID).Error)
	assert.Nil(t, stored.JobID, "deleting a job keeps its candidates")
}

func TestGenerateQuestions_DefaultCount(t *testing.T) {
	h := &AptitudeHandler{}
	app := newRecruitingApp(t, h)
	h.Tests = services.NewAptitudeService(database.NewStore(database.DB), aptitude.NewTemplateGenerator(), "template")

	alice := seedUser(t, "alice@example.com", models.RoleRecruiter, "password123")
	token := tokenFor(t, alice)
	job := models.Job{
		RecruiterID: alice.ID,
		Title:       "Backend Engineer",
		Skills:      []string{"Go", "SQL", "Docker", "Kubernetes", "Redis", "gRPC"},
		Status:      models.JobStatusOpen,
	}
	require.NoError(t, database.DB.Create(&job).Error)
	path := "/api/v1/jobs/" + job.ID.String() + "/aptitude/generate"

	var out struct {
		Questions []json.RawMessage `json:"questions"`
	}
	status, body := send(t, app, "POST", path, token, `{}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out.Questions, aptitude.DefaultQuestionCount)

	status, body = send(t, app, "POST", path, token, `{"questionCount":3,"difficulty":"hard"}`)
	require.Equal(t, fiber.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out.Questions, 3)

	status, _ = send(t, app, "POST", path, token, `{"questionCount":0}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, "POST", "/api/v1/jobs/"+uuid.NewString()+"/aptitude/generate", token, `{}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGenerateQuestionsRequest_Count(t *testing.T) {
	three := 3
	assert.Equal(t, aptitude.DefaultQuestionCount, GenerateQuestionsRequest{}.count())
	assert.Equal(t, 3, GenerateQuestionsRequest{QuestionCount: &three}.count())

	zero := 0
	assert.Error(t, validate.Struct(GenerateQuestionsRequest{QuestionCount: &zero}))
	assert.NoError(t, validate.Struct(GenerateQuestionsRequest{}))
}
