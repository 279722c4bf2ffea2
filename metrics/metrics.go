package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuestionsGenerated counts questions produced per generator.
	QuestionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloom_questions_generated_total",
			Help: "Number of aptitude questions generated",
		},
		[]string{"generator"},
	)

	InvitationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloom_invitations_sent_total",
			Help: "Number of aptitude test invitations by delivery result",
		},
		[]string{"result"},
	)

	ExamsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hireloom_exams_completed_total",
			Help: "Number of completed exam sessions by submit reason",
		},
		[]string{"reason"},
	)

	ScorePercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hireloom_exam_score_percentage",
			Help:    "Distribution of exam score percentages",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ActiveExams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hireloom_active_exam_sessions",
			Help: "Exam sessions held in memory",
		},
	)
)

// Handler exposes the default registry to Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
