// Package jobs holds the background jobs dispatched onto the queue.
package jobs

import (
	"fmt"
	"strings"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/database"
	"github.com/storelane/storelane/pkg/mail"
	"github.com/storelane/storelane/pkg/queue"
)

// OrderConfirmationJob emails the buyer after a successful checkout. It is
// dispatched from the order-placed listener so a slow SMTP server never sits
// on the request path.
type OrderConfirmationJob struct {
	UserID      uint   `json:"userId"`
	Reference   string `json:"reference"`
	TotalAmount string `json:"totalAmount"`
}

func (j OrderConfirmationJob) Handle() error {
	var user models.User
	if err := database.DB.First(&user, j.UserID).Error; err != nil {
		return fmt.Errorf("order confirmation: load user %d: %w", j.UserID, err)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<p>Hi %s,</p>", user.Name)
	fmt.Fprintf(&body, "<p>Thanks for your order <strong>%s</strong>.</p>", j.Reference)
	fmt.Fprintf(&body, "<p>Order total: %s</p>", j.TotalAmount)
	body.WriteString("<p>We will let you know as soon as it ships.</p>")

	return mail.To(user.Email).
		Subject(fmt.Sprintf("Order confirmation %s", j.Reference)).
		Body(body.String()).
		Send()
}

// Register makes every job type known to the queue so workers can
// deserialize payloads by name. Call once at boot.
func Register() {
	queue.Register("jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}
