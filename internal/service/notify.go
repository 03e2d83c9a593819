package service

import (
	"context"
	"fmt"
	"net/smtp"

	"parispub/internal/config"
	"parispub/internal/entities"
)

// Notifier delivers a booking confirmation over one channel.
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, data entities.ConfirmationData) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends plain-text confirmation e-mails through an SMTP relay.
type SMTPNotifier struct {
	host     string
	addr     string
	user     string
	pass     string
	from     string
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg config.SMTP) *SMTPNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPNotifier{
		host:     cfg.Host,
		addr:     cfg.Host + ":" + cfg.Port,
		user:     cfg.User,
		pass:     cfg.Pass,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Channel() string { return "email" }

func (n *SMTPNotifier) Notify(_ context.Context, data entities.ConfirmationData) error {
	subject, body := confirmationEmail(data)
	msg := "From: " + n.from + "\r\n" +
		"To: " + data.UserEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.pass, n.host)
	}
	if err := n.sendMail(n.addr, auth, n.from, []string{data.UserEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func confirmationEmail(data entities.ConfirmationData) (subject, body string) {
	subject = fmt.Sprintf("Your reservation at %s", data.RestaurantName)
	body = fmt.Sprintf("Hi %s, your table is booked on %s from %s to %s for %d people.",
		data.UserName, data.Date, data.StartTime, data.EndTime, data.PartySize)
	return subject, body
}

func confirmationSMS(data entities.ConfirmationData) string {
	return fmt.Sprintf("%s: table booked on %s from %s to %s for %d. Ref %s",
		data.RestaurantName, data.Date, data.StartTime, data.EndTime, data.PartySize, shortRef(data.BookingRef))
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
