package handlers

import (
	"strings"

	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2"`
	Company  *string `json:"company"`
}

func GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Company != nil {
		user.Company = req.Company
	}
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(user)
}

type PipelineSummary struct {
	OpenJobs           int64            `json:"open_jobs"`
	CandidatesByStatus map[string]int64 `json:"candidates_by_status"`
	TestsCreated       int64            `json:"tests_created"`
	InvitationsPending int64            `json:"invitations_pending"`
	ResponsesCompleted int64            `json:"responses_completed"`
	ResponsesPassed    int64            `json:"responses_passed"`
}

// GetMyPipeline summarises the current recruiter's hiring funnel.
func GetMyPipeline(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	summary := PipelineSummary{CandidatesByStatus: map[string]int64{}}

	database.DB.Model(&models.Job{}).
		Where("recruiter_id = ? AND status = ?", recruiterID, models.JobStatusOpen).
		Count(&summary.OpenJobs)

	var rows []struct {
		Status string
		Count  int64
	}
	database.DB.Model(&models.Candidate{}).
		Select("status, COUNT(*) AS count").
		Where("recruiter_id = ?", recruiterID).
		Group("status").
		Scan(&rows)
	for _, r := range rows {
		summary.CandidatesByStatus[r.Status] = r.Count
	}

	database.DB.Model(&models.AptitudeTest{}).Where("created_by_id = ?", recruiterID).Count(&summary.TestsCreated)

	responses := func() *gorm.DB {
		return database.DB.Model(&models.TestResponse{}).
			Joins("JOIN aptitude_tests ON aptitude_tests.id = test_responses.test_id").
			Where("aptitude_tests.created_by_id = ?", recruiterID)
	}
	responses().Where("test_responses.status = ?", models.ResponsePending).Count(&summary.InvitationsPending)
	responses().Where("test_responses.status = ?", models.ResponseCompleted).Count(&summary.ResponsesCompleted)
	responses().Where("test_responses.status = ? AND test_responses.passed = ?", models.ResponseCompleted, true).
		Count(&summary.ResponsesPassed)

	return c.JSON(summary)
}
