package aptitude

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type JobData struct {
	ID          string
	Title       string
	Description string
	Skills      []string
}

type TestConfig struct {
	Duration     int // minutes
	PassingScore int // percent
}

func DefaultTestConfig() TestConfig {
	return TestConfig{Duration: 30, PassingScore: 70}
}

func (c TestConfig) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidTestConfig)
	}
	if c.PassingScore < 0 || c.PassingScore > 100 {
		return fmt.Errorf("%w: passing score must be between 0 and 100", ErrInvalidTestConfig)
	}
	return nil
}

// Assembler combines generated questions and custom assignments into a test.
type Assembler struct {
	NewID func() (string, error)
	Now   func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{
		NewID: func() (string, error) { return "test_" + uuid.NewString(), nil },
		Now:   time.Now,
	}
}

// Assemble puts generated questions first, then custom assignments.
func (a *Assembler) Assemble(job JobData, generated, custom []Question, cfg TestConfig, createdBy string) (*AptitudeTest, error) {
	if len(generated)+len(custom) == 0 {
		return nil, ErrEmptyTest
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(generated)+len(custom))
	questions = append(questions, generated...)
	questions = append(questions, custom...)

	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = true
	}

	id, err := a.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate test id: %w", err)
	}

	return &AptitudeTest{
		ID:             id,
		JobID:          job.ID,
		JobTitle:       job.Title,
		JobDescription: job.Description,
		Questions:      questions,
		Duration:       cfg.Duration,
		PassingScore:   cfg.PassingScore,
		CreatedAt:      a.Now(),
		CreatedBy:      createdBy,
	}, nil
}
