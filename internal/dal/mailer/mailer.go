// Package mailer implements the notification dispatcher boundary over
// SMTP.
package mailer

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML notifications via SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// MustNewMailer creates a new SMTP mailer from smtp.* config and
// SMTP_USER/SMTP_PASSWORD env credentials.
func MustNewMailer() *Mailer {
	host := viper.GetString("smtp.host")
	port := viper.GetInt("smtp.port")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")

	if host == "" || user == "" {
		panic("smtp host and SMTP_USER are required")
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

// Send delivers one HTML email and returns the assigned message id.
// The context bounds the whole dial-and-send exchange.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	messageID := fmt.Sprintf("<%s@souppp>", uuid.NewString())

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("sending mail to %s: %w", to, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("sending mail to %s: %w", to, err)
		}
	}

	return messageID, nil
}
