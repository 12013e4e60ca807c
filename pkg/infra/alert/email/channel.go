package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mitchellh/mapstructure"

	"github.com/honeyguard/honeygate/pkg/domain/alert"
)

const (
	ChannelName = "email"

	TransportSMTP = "smtp"
	TransportSES  = "ses"

	defaultFrom     = "noreply@example.com"
	defaultSMTPPort = 587
)

type Config struct {
	Transport  string   `mapstructure:"transport"`
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
	Region     string   `mapstructure:"region"`
	AccessKey  string   `mapstructure:"access_key"`
	SecretKey  string   `mapstructure:"secret_key"`
}

// sender is the transport behind the channel: plain SMTP or SES.
type sender interface {
	Send(ctx context.Context, from string, to []string, subject, body string) error
	Close()
}

type Channel struct {
	cfg    Config
	sender sender
}

func NewEmailChannel() *Channel {
	return &Channel{}
}

func (c *Channel) Name() string {
	return ChannelName
}

func (c *Channel) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid email config: %w", err)
	}
	applyDefaults(&conf)

	switch conf.Transport {
	case TransportSMTP:
		if conf.Host == "" {
			return errors.New("smtp host is required")
		}
	case TransportSES:
		if conf.Region == "" {
			return errors.New("ses region is required")
		}
	default:
		return fmt.Errorf("unknown email transport %q", conf.Transport)
	}

	if len(conf.Recipients) == 0 {
		return errors.New("email recipients are required")
	}
	for _, recipient := range conf.Recipients {
		if _, err := mail.ParseAddress(recipient); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", recipient, err)
		}
	}
	if _, err := mail.ParseAddress(conf.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", conf.From, err)
	}
	return nil
}

func (c *Channel) WithSettings(settings map[string]interface{}) (alert.Channel, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}
	applyDefaults(&conf)

	var (
		transport sender
		err       error
	)
	switch conf.Transport {
	case TransportSMTP:
		transport, err = newSMTPSender(conf)
	case TransportSES:
		transport, err = newSESSender(context.Background(), conf)
	default:
		err = fmt.Errorf("unknown email transport %q", conf.Transport)
	}
	if err != nil {
		return nil, err
	}

	return &Channel{
		cfg:    conf,
		sender: transport,
	}, nil
}

func (c *Channel) Send(ctx context.Context, msg *alert.Message) error {
	if c.sender == nil {
		return errors.New("email channel is not initialized")
	}
	return c.sender.Send(ctx, c.cfg.From, c.cfg.Recipients, msg.Subject, msg.Body)
}

func (c *Channel) Close() {
	if c.sender != nil {
		c.sender.Close()
	}
}

func applyDefaults(conf *Config) {
	if conf.Transport == "" {
		conf.Transport = TransportSMTP
	}
	if conf.Port == 0 {
		conf.Port = defaultSMTPPort
	}
	if conf.From == "" {
		conf.From = defaultFrom
	}
}
