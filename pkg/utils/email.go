package utils

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers plain text mail.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func CreateMailer(host string, port int, username, password, fromName string) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password, from: fromName}
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", fmt.Sprintf("%s <%s>", m.from, m.username))
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	errCh := make(chan error, 1)
	go func() {
		errCh <- SendEmail(message, m.username, m.password, m.host, m.port)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func SendEmail(message *gomail.Message, sender string, password string, smtpServer string, smtpPort int) error {
	d := gomail.NewDialer(smtpServer, smtpPort, sender, password)

	return d.DialAndSend(message)
}
