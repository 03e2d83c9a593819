package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parispub/internal/config"
	"parispub/internal/entities"
)

type sendGridClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier sends confirmation e-mails through the SendGrid API.
type SendGridNotifier struct {
	client sendGridClient
	from   *mail.Email
}

func NewSendGridNotifier(cfg config.SendGrid, restaurantName string) *SendGridNotifier {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = restaurantName
	}
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(fromName, cfg.FromEmail),
	}
}

func (n *SendGridNotifier) Channel() string { return "email" }

func (n *SendGridNotifier) Notify(_ context.Context, data entities.ConfirmationData) error {
	subject, body := confirmationEmail(data)
	to := mail.NewEmail(data.UserName, data.UserEmail)
	message := mail.NewSingleEmail(n.from, subject, to, body, "")

	response, err := n.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", data.UserEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

type smsClient interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioNotifier sends a short confirmation SMS.
type TwilioNotifier struct {
	client smsClient
	from   string
	logger *zerolog.Logger
}

func NewTwilioNotifier(cfg config.Twilio, logger *zerolog.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return &TwilioNotifier{client: client.Api, from: cfg.FromNumber, logger: logger}
}

func (n *TwilioNotifier) Channel() string { return "sms" }

func (n *TwilioNotifier) Notify(_ context.Context, data entities.ConfirmationData) error {
	if !strings.HasPrefix(data.UserPhone, "+") && n.logger != nil {
		n.logger.Warn().Str("phone", data.UserPhone).Msg("destination number is not in E.164 format, SMS may fail")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(data.UserPhone)
	params.SetFrom(n.from)
	params.SetBody(confirmationSMS(data))

	if _, err := n.client.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// NotifiersFromConfig builds every channel that has credentials. SendGrid
// takes precedence over SMTP for e-mail.
func NotifiersFromConfig(cfg *config.Config, logger *zerolog.Logger) []Notifier {
	var notifiers []Notifier
	switch {
	case cfg.SendGrid.APIKey != "" && cfg.SendGrid.FromEmail != "":
		notifiers = append(notifiers, NewSendGridNotifier(cfg.SendGrid, cfg.RestaurantName))
	case cfg.SMTP.Host != "" && cfg.SMTP.User != "":
		notifiers = append(notifiers, NewSMTPNotifier(cfg.SMTP))
	}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" && cfg.Twilio.FromNumber != "" {
		notifiers = append(notifiers, NewTwilioNotifier(cfg.Twilio, logger))
	}
	return notifiers
}
