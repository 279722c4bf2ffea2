package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	config "github.com/anjiri1684/hireloom/configs"
	"github.com/anjiri1684/hireloom/metrics"
	"github.com/anjiri1684/hireloom/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AptitudeStore interface {
	NewTestID(ctx context.Context) (string, error)
	FindJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	CreateTest(ctx context.Context, test *models.AptitudeTest) error
	FindTest(ctx context.Context, id string) (*models.AptitudeTest, error)
	ListTestsForJob(ctx context.Context, jobID uuid.UUID) ([]models.AptitudeTest, error)
	ListResponses(ctx context.Context, testID string) ([]models.TestResponse, error)
	FindResponse(ctx context.Context, id uuid.UUID) (*models.TestResponse, error)
}

// NewGenerator picks the LLM generator when an API key is configured and the
// template generator otherwise. The name labels generation metrics.
func NewGenerator(cfg config.AppConfig) (aptitude.Generator, string) {
	if cfg.OpenAIAPIKey == "" {
		log.Println("⚠️ OPENAI_API_KEY not set, using template question generator.")
		return aptitude.NewTemplateGenerator(), "template"
	}
	log.Printf("✅ Using LLM question generator (%s).", cfg.OpenAIModel)
	return aptitude.NewLLMGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), "llm"
}

type AptitudeService struct {
	store         AptitudeStore
	generator     aptitude.Generator
	generatorName string
	Now           func() time.Time
}

func NewAptitudeService(store AptitudeStore, generator aptitude.Generator, generatorName string) *AptitudeService {
	return &AptitudeService{store: store, generator: generator, generatorName: generatorName, Now: time.Now}
}

type GenerateInput struct {
	JobID         uuid.UUID
	Difficulty    aptitude.Difficulty
	QuestionCount int
}

func (s *AptitudeService) job(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.store.FindJob(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	return job, nil
}

// GenerateQuestions drafts questions for a job. Nothing is persisted.
func (s *AptitudeService) GenerateQuestions(ctx context.Context, in GenerateInput) ([]aptitude.Question, error) {
	job, err := s.job(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.Generate(ctx, aptitude.GenerateRequest{
		JobTitle:       job.Title,
		JobDescription: job.Description,
		Skills:         job.Skills,
		Difficulty:     in.Difficulty,
		QuestionCount:  in.QuestionCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}
	metrics.QuestionsGenerated.WithLabelValues(s.generatorName).Add(float64(len(questions)))
	return questions, nil
}

// PreviewAssignment validates a custom assignment without storing it.
func (s *AptitudeService) PreviewAssignment(ctx context.Context, jobID uuid.UUID, in aptitude.AssignmentInput) (aptitude.Question, error) {
	job, err := s.job(ctx, jobID)
	if err != nil {
		return aptitude.Question{}, err
	}
	return aptitude.NewCustomAssignment(in, firstSkill(job.Skills), s.Now())
}

type CreateTestInput struct {
	JobID       uuid.UUID
	Generated   []aptitude.Question
	Assignments []aptitude.AssignmentInput
	Config      aptitude.TestConfig
}

func (s *AptitudeService) CreateTest(ctx context.Context, recruiterID uuid.UUID, in CreateTestInput) (*aptitude.AptitudeTest, error) {
	job, err := s.job(ctx, in.JobID)
	if err != nil {
		return nil, err
	}

	custom := make([]aptitude.Question, 0, len(in.Assignments))
	for _, a := range in.Assignments {
		q, err := aptitude.NewCustomAssignment(a, firstSkill(job.Skills), s.Now())
		if err != nil {
			return nil, err
		}
		custom = append(custom, q)
	}

	assembler := &aptitude.Assembler{
		NewID: func() (string, error) { return s.store.NewTestID(ctx) },
		Now:   s.Now,
	}
	test, err := assembler.Assemble(aptitude.JobData{
		ID:          job.ID.String(),
		Title:       job.Title,
		Description: job.Description,
		Skills:      job.Skills,
	}, in.Generated, custom, in.Config, recruiterID.String())
	if err != nil {
		return nil, err
	}

	record, err := models.AptitudeTestFromDomain(test)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTest(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to save aptitude test: %w", err)
	}
	log.Printf("✅ Created aptitude test %s for job %s with %d questions", test.ID, job.ID, len(test.Questions))
	return test, nil
}

func (s *AptitudeService) GetTest(ctx context.Context, id string) (*aptitude.AptitudeTest, error) {
	record, err := s.store.FindTest(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load aptitude test: %w", err)
	}
	return record.ToDomain(), nil
}

func (s *AptitudeService) ListTests(ctx context.Context, jobID uuid.UUID) ([]*aptitude.AptitudeTest, error) {
	records, err := s.store.ListTestsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aptitude tests: %w", err)
	}
	tests := make([]*aptitude.AptitudeTest, 0, len(records))
	for i := range records {
		tests = append(tests, records[i].ToDomain())
	}
	return tests, nil
}

func (s *AptitudeService) ListResponses(ctx context.Context, testID string) ([]models.TestResponse, error) {
	if _, err := s.GetTest(ctx, testID); err != nil {
		return nil, err
	}
	return s.store.ListResponses(ctx, testID)
}

func (s *AptitudeService) GetResponse(ctx context.Context, id uuid.UUID) (*models.TestResponse, error) {
	resp, err := s.store.FindResponse(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load test response: %w", err)
	}
	return resp, nil
}

func firstSkill(skills []string) string {
	if len(skills) == 0 {
		return ""
	}
	return skills[0]
}
