package routes

import (
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/middleware"
	"github.com/gofiber/fiber/v2"
)

// RecruitingRoutes registers jobs, candidates and the recruiter side of
// aptitude tests.
func RecruitingRoutes(app *fiber.App, aptitude *handlers.AptitudeHandler) {
	api := app.Group("/api/v1")
	protected := []fiber.Handler{middleware.Protected(), middleware.RecruiterRequired()}

	jobs := api.Group("/jobs", protected...)
	jobs.Post("", handlers.CreateJob)
	jobs.Get("", handlers.ListJobs)
	jobs.Get("/:jobId", handlers.GetJob)
	jobs.Put("/:jobId", handlers.UpdateJob)
	jobs.Delete("/:jobId", handlers.DeleteJob)
	jobs.Get("/:jobId/candidates", handlers.ListJobCandidates)

	jobs.Post("/:jobId/aptitude/generate", aptitude.GenerateQuestions)
	jobs.Post("/:jobId/aptitude/assignments/preview", aptitude.PreviewAssignment)
	jobs.Post("/:jobId/aptitude/tests", aptitude.CreateTest)
	jobs.Get("/:jobId/aptitude/tests", aptitude.ListTests)

	candidates := api.Group("/candidates", protected...)
	candidates.Post("", handlers.CreateCandidate)
	candidates.Get("", handlers.ListCandidates)
	candidates.Get("/:candidateId", handlers.GetCandidate)
	candidates.Put("/:candidateId", handlers.UpdateCandidate)
	candidates.Patch("/:candidateId/status", handlers.UpdateCandidateStatus)
	candidates.Delete("/:candidateId", handlers.DeleteCandidate)

	tests := api.Group("/aptitude/tests", protected...)
	tests.Get("/:testId", aptitude.GetTest)
	tests.Post("/:testId/send", aptitude.SendTest)
	tests.Get("/:testId/responses", aptitude.ListResponses)
	tests.Get("/:testId/responses/export", aptitude.ExportResponses)

	responses := api.Group("/aptitude/responses", protected...)
	responses.Get("/:responseId", aptitude.GetResponse)
	responses.Post("/:responseId/report", aptitude.RegenerateReport)
}
