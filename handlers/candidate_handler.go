package handlers

import (
	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CandidateRequest struct {
	JobID     *string  `json:"job_id" validate:"omitempty,uuid"`
	FullName  string   `json:"full_name" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     *string  `json:"phone"`
	ResumeURL *string  `json:"resume_url" validate:"omitempty,url"`
	Skills    []string `json:"skills"`
	Notes     string   `json:"notes"`
}

type CandidateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=applied screening interview offer hired rejected"`
}

func ownCandidate(c *fiber.Ctx) (*models.Candidate, error) {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(c.Params("candidateId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid candidate ID")
	}
	var candidate models.Candidate
	if err := database.DB.Preload("Job").First(&candidate, "id = ? AND recruiter_id = ?", id, recruiterID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Candidate not found")
	}
	return &candidate, nil
}

// apply copies the request onto candidate; a job must belong to the same recruiter.
func (r CandidateRequest) apply(candidate *models.Candidate) error {
	candidate.JobID = nil
	if r.JobID != nil && *r.JobID != "" {
		id, _ := uuid.Parse(*r.JobID)
		var count int64
		database.DB.Model(&models.Job{}).Where("id = ? AND recruiter_id = ?", id, candidate.RecruiterID).Count(&count)
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		candidate.JobID = &id
	}
	candidate.FullName = r.FullName
	candidate.Email = r.Email
	candidate.Phone = r.Phone
	candidate.ResumeURL = r.ResumeURL
	candidate.Skills = r.Skills
	candidate.Notes = r.Notes
	return nil
}

func CreateCandidate(c *fiber.Ctx) error {
	var req CandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	candidate := models.Candidate{RecruiterID: recruiterID, Status: models.CandidateApplied}
	if err := req.apply(&candidate); err != nil {
		return err
	}
	if err := database.DB.Create(&candidate).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create candidate"})
	}
	return c.Status(fiber.StatusCreated).JSON(candidate)
}

func ListCandidates(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	scope := database.DB.Where("recruiter_id = ?", recruiterID)
	page := readPage(c, "page_size", 50, 200)
	if status := c.Query("status"); status != "" {
		scope = scope.Where("status = ?", status)
	}

	var candidates []models.Candidate
	if err := scope.Order("created_at desc").Limit(page.Size).Offset(page.Offset()).Find(&candidates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch candidates"})
	}
	return c.JSON(candidates)
}

func GetCandidate(c *fiber.Ctx) error {
	candidate, err := ownCandidate(c)
	if err != nil {
		return err
	}
	return c.JSON(candidate)
}

func UpdateCandidate(c *fiber.Ctx) error {
	candidate, err := ownCandidate(c)
	if err != nil {
		return err
	}
	var req CandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := req.apply(candidate); err != nil {
		return err
	}
	candidate.Job = nil
	if err := database.DB.Save(candidate).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update candidate"})
	}
	return c.JSON(candidate)
}

func UpdateCandidateStatus(c *fiber.Ctx) error {
	candidate, err := ownCandidate(c)
	if err != nil {
		return err
	}
	var req CandidateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := database.DB.Model(candidate).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update status"})
	}
	candidate.Status = req.Status
	return c.JSON(candidate)
}

func DeleteCandidate(c *fiber.Ctx) error {
	candidate, err := ownCandidate(c)
	if err != nil {
		return err
	}
	if err := database.DB.Delete(&models.Candidate{}, "id = ?", candidate.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete candidate"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
