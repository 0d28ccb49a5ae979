package notify

import (
	"github.com/shrimpsizemoose/trekker/logger"
)

// Mailer delivers one notification email. Delivery is best effort and
// synchronous; the dispatcher decides what a failure means.
type Mailer interface {
	Send(toName, toAddress, subject, body string) error
}

// ConsoleMailer logs instead of sending. Default when email is
// disabled in config.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(toName, toAddress, subject, body string) error {
	logger.Info.Printf("Would mail %s <%s>: %s: %s", toName, toAddress, subject, body)
	return nil
}
