package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/hireloom/services"
)

func ExpireInvitations(delivery *services.DeliveryService) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := delivery.ExpireStale(ctx)
		if err != nil {
			log.Printf("🔥 Error expiring invitations: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Marked %d invitation(s) as expired.", n)
		}
	}
}

func PurgeExamSessions(sessions *services.ExamSessionService, retention time.Duration) func() {
	return func() {
		if n := sessions.Purge(retention); n > 0 {
			log.Printf("Purged %d exam session(s); %d still held.", n, sessions.Len())
		}
	}
}
