package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/honeyguard/honeygate/pkg/domain/alert"
	"github.com/honeyguard/honeygate/pkg/infra/httpx"
)

const (
	ChannelName = "webhook"

	senderUserAgent = "honeygate-webhook"

	defaultTimeout     = 10 * time.Second
	defaultMaxFailures = 5
	breakerCooldown    = 30 * time.Second
)

type Config struct {
	URL                string            `mapstructure:"url"`
	Timeout            string            `mapstructure:"timeout"`
	MaxFailures        uint32            `mapstructure:"max_failures"`
	Headers            map[string]string `mapstructure:"headers"`
	InsecureSkipVerify bool              `mapstructure:"insecure_skip_verify"`
}

type Channel struct {
	cfg     Config
	timeout time.Duration
	client  httpx.Client
	breaker httpx.CircuitBreaker
}

func NewWebhookChannel() *Channel {
	return &Channel{}
}

func (c *Channel) Name() string {
	return ChannelName
}

func (c *Channel) ValidateConfig(settings map[string]interface{}) error {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return fmt.Errorf("invalid webhook config: %w", err)
	}
	if conf.URL == "" {
		return errors.New("webhook url is required")
	}
	if conf.Timeout != "" {
		if _, err := time.ParseDuration(conf.Timeout); err != nil {
			return fmt.Errorf("invalid webhook timeout: %w", err)
		}
	}
	return nil
}

func (c *Channel) WithSettings(settings map[string]interface{}) (alert.Channel, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return nil, fmt.Errorf("invalid webhook config: %w", err)
	}

	timeout := defaultTimeout
	if conf.Timeout != "" {
		parsed, err := time.ParseDuration(conf.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook timeout: %w", err)
		}
		timeout = parsed
	}

	maxFailures := conf.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}

	return &Channel{
		cfg:     conf,
		timeout: timeout,
		client: httpx.NewFastHTTPClient(
			httpx.WithTimeout(timeout),
			httpx.WithUserAgent(senderUserAgent),
			httpx.WithInsecureSkipVerify(conf.InsecureSkipVerify),
		),
		breaker: httpx.NewCircuitBreaker("alert-webhook", breakerCooldown, maxFailures),
	}, nil
}

// Send posts the event as JSON. The breaker trips on consecutive failures
// so a dead endpoint does not hold a worker for the timeout on every event.
func (c *Channel) Send(ctx context.Context, msg *alert.Message) error {
	if c.client == nil {
		return errors.New("webhook channel is not initialized")
	}

	payload, err := json.Marshal(msg.Event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		for key, value := range c.cfg.Headers {
			req.Header.Set(key, value)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
}

func (c *Channel) Close() {}
