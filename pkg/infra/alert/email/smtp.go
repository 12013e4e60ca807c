package email

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

type smtpSender struct {
	client *gomail.Client
}

func newSMTPSender(conf Config) (*smtpSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(conf.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if conf.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(conf.Username),
			gomail.WithPassword(conf.Password),
		)
	}

	client, err := gomail.NewClient(conf.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &smtpSender{client: client}, nil
}

func (s *smtpSender) Send(ctx context.Context, from string, to []string, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *smtpSender) Close() {
	_ = s.client.Close()
}
