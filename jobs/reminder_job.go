package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/hireloom/services"
)

// ReminderWindow is how close to expiry a pending invitation must be before
// its single reminder goes out.
const ReminderWindow = 24 * time.Hour

func SendTestReminders(delivery *services.DeliveryService) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		sent, err := delivery.SendReminders(ctx, ReminderWindow)
		if err != nil {
			log.Printf("🔥 Error sending test reminders: %v", err)
			return
		}
		if sent > 0 {
			log.Printf("✅ Sent %d test reminder(s).", sent)
		}
	}
}
