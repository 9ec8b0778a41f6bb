package services

import (
	"fmt"

	"github.com/themelissanyc/melissa/app/models"
	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/logger"
	"github.com/themelissanyc/melissa/pkg/mail"
	"github.com/themelissanyc/melissa/pkg/workerpool"
)

// NotifyService tells the leasing office about new inquiries. Delivery runs
// on a small worker pool so the contact endpoint never waits on SMTP, and a
// full pool simply drops to log-only notification.
type NotifyService struct {
	pool      *workerpool.Pool
	recipient string
}

func NewNotifyService() *NotifyService {
	return &NotifyService{
		pool:      workerpool.New(4),
		recipient: config.Get("CONTACT_NOTIFY_EMAIL", ""),
	}
}

// InquiryReceived queues a notification for the saved contact.
func (s *NotifyService) InquiryReceived(contact *models.Contact) {
	c := *contact
	err := s.pool.Submit(func() { s.deliver(&c) })
	if err != nil {
		logger.Warn("inquiry notification not queued", "error", err, "contact_id", c.ID.Hex())
	}
}

func (s *NotifyService) deliver(c *models.Contact) {
	if s.recipient == "" || !mail.Enabled() {
		logger.Info("new inquiry",
			"contact_id", c.ID.Hex(),
			"name", c.FirstName+" "+c.LastName,
			"email", c.Email,
			"budget", c.BudgetRange,
		)
		return
	}

	body := fmt.Sprintf(
		"New inquiry from %s %s\n\nEmail: %s\nPhone: %s\nMove-in: %s\nBudget: %s\nBedrooms: %s\n\n%s\n",
		c.FirstName, c.LastName, c.Email, c.Phone,
		c.MoveInDate.Format("January 2, 2006"), c.BudgetRange, c.Bedrooms, c.Message,
	)

	err := mail.To(s.recipient).
		Subject("New inquiry: " + c.FirstName + " " + c.LastName).
		Text(body).
		Send()
	if err != nil {
		logger.Error("inquiry notification failed", "error", err, "contact_id", c.ID.Hex())
	}
}

// Shutdown drains queued notifications.
func (s *NotifyService) Shutdown() {
	s.pool.Shutdown()
}
