package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/anjiri1684/hireloom/aptitude"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AptitudeHandler serves the recruiter side of aptitude tests. Reports is
// nil when report storage is not configured.
type AptitudeHandler struct {
	Tests    *services.AptitudeService
	Delivery *services.DeliveryService
	Reports  *services.ReportService
}

type GenerateQuestionsRequest struct {
	Difficulty    string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionCount *int   `json:"questionCount" validate:"omitempty,gte=1,lte=50"`
}

func (r GenerateQuestionsRequest) count() int {
	if r.QuestionCount == nil {
		return aptitude.DefaultQuestionCount
	}
	return *r.QuestionCount
}

type AssignmentRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Skill              string   `json:"skill"`
	Difficulty         string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TimeLimit          int      `json:"timeLimit" validate:"gte=0"`
	Requirements       []string `json:"requirements"`
	Deliverables       []string `json:"deliverables"`
	Resources          []string `json:"resources"`
	EvaluationCriteria []string `json:"evaluationCriteria"`
}

func (r AssignmentRequest) input() aptitude.AssignmentInput {
	return aptitude.AssignmentInput{
		Title:              r.Title,
		Description:        r.Description,
		Skill:              r.Skill,
		Difficulty:         aptitude.Difficulty(r.Difficulty),
		TimeLimit:          r.TimeLimit,
		Requirements:       r.Requirements,
		Deliverables:       r.Deliverables,
		Resources:          r.Resources,
		EvaluationCriteria: r.EvaluationCriteria,
	}
}

type CreateTestRequest struct {
	Questions    []aptitude.Question `json:"questions"`
	Assignments  []AssignmentRequest `json:"assignments" validate:"dive"`
	Duration     int                 `json:"duration"`
	PassingScore *int                `json:"passingScore"`
}

type SendTestRequest struct {
	CandidateEmail string `json:"candidateEmail" validate:"required,email"`
	CandidateName  string `json:"candidateName"`
}

// parseBody decodes and validates a request body. Failures come back as a
// *fiber.Error for the app error handler.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// ownTest loads a test created by the current recruiter.
func (h *AptitudeHandler) ownTest(c *fiber.Ctx) (*aptitude.AptitudeTest, error) {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	test, err := h.Tests.GetTest(c.UserContext(), c.Params("testId"))
	if err != nil {
		return nil, err
	}
	if test.CreatedBy != recruiterID.String() && currentRole(c) != models.RoleAdmin {
		return nil, services.ErrTestNotFound
	}
	return test, nil
}

func (h *AptitudeHandler) GenerateQuestions(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	var req GenerateQuestionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	questions, err := h.Tests.GenerateQuestions(c.UserContext(), services.GenerateInput{
		JobID:         job.ID,
		Difficulty:    aptitude.Difficulty(req.Difficulty),
		QuestionCount: req.count(),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

func (h *AptitudeHandler) PreviewAssignment(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	var req AssignmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	question, err := h.Tests.PreviewAssignment(c.UserContext(), job.ID, req.input())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(question)
}

func (h *AptitudeHandler) CreateTest(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	var req CreateTestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	cfg := aptitude.DefaultTestConfig()
	if req.Duration != 0 {
		cfg.Duration = req.Duration
	}
	if req.PassingScore != nil {
		cfg.PassingScore = *req.PassingScore
	}
	assignments := make([]aptitude.AssignmentInput, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		assignments = append(assignments, a.input())
	}

	test, err := h.Tests.CreateTest(c.UserContext(), job.RecruiterID, services.CreateTestInput{
		JobID:       job.ID,
		Generated:   req.Questions,
		Assignments: assignments,
		Config:      cfg,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(test)
}

func (h *AptitudeHandler) ListTests(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	tests, err := h.Tests.ListTests(c.UserContext(), job.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tests)
}

func (h *AptitudeHandler) GetTest(c *fiber.Ctx) error {
	test, err := h.ownTest(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(test)
}

func (h *AptitudeHandler) SendTest(c *fiber.Ctx) error {
	test, err := h.ownTest(c)
	if err != nil {
		return serviceError(c, err)
	}
	var req SendTestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(req.CandidateEmail))
	result, err := h.Delivery.Send(c.UserContext(), test.ID, email, strings.TrimSpace(req.CandidateName))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Test sent to " + email,
		"link":    result.Link,
		"status":  result.Invitation.Status,
		"expires": result.Invitation.ExpiresAt,
	})
}

func (h *AptitudeHandler) ListResponses(c *fiber.Ctx) error {
	test, err := h.ownTest(c)
	if err != nil {
		return serviceError(c, err)
	}
	responses, err := h.Tests.ListResponses(c.UserContext(), test.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(responses)
}

// ExportResponses downloads every response of a test as CSV.
func (h *AptitudeHandler) ExportResponses(c *fiber.Ctx) error {
	test, err := h.ownTest(c)
	if err != nil {
		return serviceError(c, err)
	}
	responses, err := h.Tests.ListResponses(c.UserContext(), test.ID)
	if err != nil {
		return serviceError(c, err)
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)
	headers := []string{"Candidate", "Email", "Status", "Sent", "Completed", "Score", "Total", "Percentage", "Passed", "Pending Review", "Time Spent (s)", "Submit Reason", "Report"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}
	for _, r := range responses {
		completed, report := "", ""
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format("2006-01-02 15:04")
		}
		if r.ReportURL != nil {
			report = *r.ReportURL
		}
		row := []string{
			r.CandidateName,
			r.CandidateEmail,
			r.Status,
			r.SentAt.Format("2006-01-02 15:04"),
			completed,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Percentage),
			strconv.FormatBool(r.Passed),
			strconv.Itoa(r.PendingReview),
			strconv.Itoa(r.TimeSpentSeconds),
			r.SubmitReason,
			report,
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_responses.csv\"", test.ID))
	return c.Send(b.Bytes())
}

func (h *AptitudeHandler) ownResponse(c *fiber.Ctx) (*models.TestResponse, error) {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("responseId"))
	if err != nil {
		return nil, services.ErrResponseNotFound
	}
	resp, err := h.Tests.GetResponse(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if resp.Test.CreatedByID != recruiterID && currentRole(c) != models.RoleAdmin {
		return nil, services.ErrResponseNotFound
	}
	return resp, nil
}

func (h *AptitudeHandler) GetResponse(c *fiber.Ctx) error {
	resp, err := h.ownResponse(c)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AptitudeHandler) RegenerateReport(c *fiber.Ctx) error {
	if h.Reports == nil {
		return serviceError(c, services.ErrReportsDisabled)
	}
	resp, err := h.ownResponse(c)
	if err != nil {
		return serviceError(c, err)
	}
	url, err := h.Reports.Regenerate(c.UserContext(), resp.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"reportUrl": url})
}
