package handlers

import (
	"math"
	"strings"
	"time"

	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardAnalyticsResponse struct {
	TotalRecruiters     int64   `json:"total_recruiters"`
	OpenJobs            int64   `json:"open_jobs"`
	TotalCandidates     int64   `json:"total_candidates"`
	TestsCreated        int64   `json:"tests_created"`
	InvitationsPending  int64   `json:"invitations_pending"`
	ResponsesLast30Days int64   `json:"responses_last_30_days"`
	AveragePercentage   float64 `json:"average_percentage"`
	PassRate            float64 `json:"pass_rate"`

	RecentResponses []models.TestResponse `json:"recent_responses"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleRecruiter).Count(&response.TotalRecruiters)
	database.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&response.OpenJobs)
	database.DB.Model(&models.Candidate{}).Count(&response.TotalCandidates)
	database.DB.Model(&models.AptitudeTest{}).Count(&response.TestsCreated)
	database.DB.Model(&models.TestResponse{}).Where("status = ?", models.ResponsePending).Count(&response.InvitationsPending)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.TestResponse{}).
		Where("status = ? AND completed_at > ?", models.ResponseCompleted, thirtyDaysAgo).
		Count(&response.ResponsesLast30Days)

	if response.ResponsesLast30Days > 0 {
		var passed int64
		database.DB.Model(&models.TestResponse{}).
			Where("status = ? AND completed_at > ?", models.ResponseCompleted, thirtyDaysAgo).
			Select("COALESCE(AVG(percentage), 0)").Row().Scan(&response.AveragePercentage)
		database.DB.Model(&models.TestResponse{}).
			Where("status = ? AND completed_at > ? AND passed = ?", models.ResponseCompleted, thirtyDaysAgo, true).
			Count(&passed)
		response.PassRate = math.Round(float64(passed)/float64(response.ResponsesLast30Days)*1000) / 10
	}

	database.DB.Where("status = ?", models.ResponseCompleted).
		Order("completed_at desc").Limit(5).
		Find(&response.RecentResponses)

	return c.JSON(response)
}

func GetAllUsers(c *fiber.Ctx) error {
	page := readPage(c, "limit", 10, 100)
	search := strings.TrimSpace(c.Query("search"))

	query := database.DB.Model(&models.User{})
	if search != "" {
		term := "%" + search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR company ILIKE ?", term, term, term)
	}

	var total int64
	var users []models.User
	query.Session(&gorm.Session{}).Count(&total)
	if err := query.Order("created_at desc").Offset(page.Offset()).Limit(page.Size).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total_users":  total,
			"total_pages":  int(math.Ceil(float64(total) / float64(page.Size))),
			"current_page": page.Number,
		},
	})
}

// ToggleUserStatus activates or deactivates an account. Deactivated users
// cannot log in.
func ToggleUserStatus(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if current, _ := currentUserID(c); current == userID && !req.IsActive {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot deactivate your own account"})
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}
