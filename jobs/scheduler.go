package jobs

import (
	"time"

	"github.com/anjiri1684/hireloom/services"
	"github.com/robfig/cron/v3"
)

type Deps struct {
	Delivery         *services.DeliveryService
	Sessions         *services.ExamSessionService
	SessionRetention time.Duration
}

// Register adds the recurring jobs to c. The caller starts and stops c.
func Register(c *cron.Cron, d Deps) error {
	schedule := []struct {
		spec string
		fn   func()
	}{
		{"*/5 * * * *", ExpireInvitations(d.Delivery)},
		{"0 * * * *", SendTestReminders(d.Delivery)},
		{"*/10 * * * *", PurgeExamSessions(d.Sessions, d.SessionRetention)},
	}
	for _, s := range schedule {
		if _, err := c.AddFunc(s.spec, s.fn); err != nil {
			return err
		}
	}
	return nil
}
