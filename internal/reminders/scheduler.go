package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gitadaily/gita-daily-api/pkg/dateutil"
)

const appURL = "https://gitadaily.app/today"

// Mailer is the slice of the mail package the scheduler needs.
type Mailer interface {
	SendHTML(to, subject, templateName string, data interface{}) error
}

type Service struct {
	repo Repository
	mail Mailer
	// sent dedupes within a day; keyed by "userID:localDate". Reset on
	// restart, which at worst re-sends one reminder.
	sent map[string]bool
}

func NewService(repo Repository, mail Mailer) *Service {
	return &Service{
		repo: repo,
		mail: mail,
		sent: make(map[string]bool),
	}
}

// StartScheduler sweeps every minute so reminder times land close to the
// minute the user picked.
func (s *Service) StartScheduler(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	log.Println("Reminder scheduler started (1m interval)")

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scheduler stopped gracefully")
			return
		case <-ticker.C:
			s.runReminderSweep(ctx, time.Now())
		}
	}
}

// runReminderSweep mails every recipient whose local wall clock has
// passed their reminder time and who has not read today.
func (s *Service) runReminderSweep(ctx context.Context, now time.Time) {
	recipients, err := s.repo.Recipients(ctx)
	if err != nil {
		log.Printf("Failed to fetch reminder recipients: %v", err)
		return
	}

	for _, rec := range recipients {
		localDate := dateutil.LocalDate(now, rec.Timezone)
		localClock := dateutil.LocalClock(now, rec.Timezone)

		if localClock < rec.ReminderTime {
			continue
		}
		if rec.LastReadLocalDate == localDate {
			// Already read today; nothing to nudge.
			continue
		}

		key := fmt.Sprintf("%d:%s", rec.UserID, localDate)
		if s.sent[key] {
			continue
		}

		data := map[string]interface{}{
			"DisplayName":   rec.DisplayName,
			"CurrentStreak": rec.CurrentStreak,
			"AppURL":        appURL,
		}
		if err := s.mail.SendHTML(rec.Email, "Your daily verses are ready", "reminder.html", data); err != nil {
			log.Printf("Failed to send reminder to %s: %v", rec.Email, err)
			continue
		}

		s.sent[key] = true
		log.Printf("Reminder sent to %s", rec.Email)
	}
}
