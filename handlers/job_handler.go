package handlers

import (
	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Salary      string   `json:"salary"`
	Type        string   `json:"type" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	Skills      []string `json:"skills" validate:"dive,required"`
	Portals     []string `json:"portals"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft open closed"`
}

func (r JobRequest) apply(job *models.Job) {
	job.Title = r.Title
	job.Description = r.Description
	job.Location = r.Location
	job.Salary = r.Salary
	job.Type = r.Type
	job.Skills = r.Skills
	job.Portals = r.Portals
	if r.Status != "" {
		job.Status = r.Status
	}
}

// ownJob loads a job belonging to the current recruiter.
func ownJob(c *fiber.Ctx) (*models.Job, error) {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return nil, fiber.ErrUnauthorized
	}
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid job ID")
	}
	var job models.Job
	if err := database.DB.First(&job, "id = ? AND recruiter_id = ?", jobID, recruiterID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Job not found")
	}
	return &job, nil
}

func CreateJob(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	job := models.Job{RecruiterID: recruiterID, Status: models.JobStatusOpen}
	req.apply(&job)
	if err := database.DB.Create(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create job"})
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func ListJobs(c *fiber.Ctx) error {
	recruiterID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	query := database.DB.Where("recruiter_id = ?", recruiterID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var jobs []models.Job
	if err := query.Order("created_at desc").Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch jobs"})
	}
	return c.JSON(jobs)
}

func GetJob(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func UpdateJob(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	var req JobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req.apply(job)
	if err := database.DB.Save(job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update job"})
	}
	return c.JSON(job)
}

func DeleteJob(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Candidate{}).Where("job_id = ?", job.ID).Update("job_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(job).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete job"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListJobCandidates(c *fiber.Ctx) error {
	job, err := ownJob(c)
	if err != nil {
		return err
	}
	var candidates []models.Candidate
	if err := database.DB.Where("job_id = ?", job.ID).Order("created_at desc").Find(&candidates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch candidates"})
	}
	return c.JSON(candidates)
}
