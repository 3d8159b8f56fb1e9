// Package notify delivers OTP messages through an HTTP SMS gateway.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/apperr"
)

const defaultTemplate = "Your One Time Password is {otp}. Do not share OTP with anyone."

// errCallerGone wraps a send that failed because the caller's context ended.
// The breaker does not count it against the gateway.
var errCallerGone = errors.New("request context done")

// Sender sends a text message to a mobile number.
type Sender interface {
	Send(ctx context.Context, mobile, message string) error
}

type Config struct {
	// GatewayURL contains {contacts} and {message} placeholders.
	GatewayURL      string
	MessageTemplate string
	Timeout         time.Duration
	MaxFailures     uint32
	OpenTimeout     time.Duration
}

func ConfigFromEnv() Config {
	cfg := Config{
		GatewayURL:      os.Getenv("SMS_GATEWAY_URL"),
		MessageTemplate: os.Getenv("SMS_MESSAGE_TEMPLATE"),
		Timeout:         10 * time.Second,
		MaxFailures:     5,
		OpenTimeout:     30 * time.Second,
	}
	if cfg.MessageTemplate == "" {
		cfg.MessageTemplate = defaultTemplate
	}
	if d, err := time.ParseDuration(os.Getenv("SMS_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if n, err := strconv.ParseUint(os.Getenv("SMS_BREAKER_MAX_FAILURES"), 10, 32); err == nil && n > 0 {
		cfg.MaxFailures = uint32(n)
	}
	if d, err := time.ParseDuration(os.Getenv("SMS_BREAKER_OPEN_TIMEOUT")); err == nil && d > 0 {
		cfg.OpenTimeout = d
	}
	return cfg
}

// OTPMessage renders the configured template for code.
func (c Config) OTPMessage(code string) string {
	tpl := c.MessageTemplate
	if tpl == "" {
		tpl = defaultTemplate
	}
	return strings.ReplaceAll(tpl, "{otp}", code)
}

// SMSClient issues a GET to the gateway per message. Only transport
// failures are reported; the response body is discarded.
type SMSClient struct {
	cfg    Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.SugaredLogger
}

func NewSMSClient(cfg Config, client *http.Client, logger *zap.SugaredLogger) (*SMSClient, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.New("SMS_GATEWAY_URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	st := gobreaker.Settings{
		Name:        "sms-gateway",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Infow("circuit breaker state", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &SMSClient{cfg: cfg, client: client, cb: gobreaker.NewCircuitBreaker(st), logger: logger}, nil
}

func (c *SMSClient) Send(ctx context.Context, mobile, message string) error {
	if mobile == "" {
		return apperr.Validation("mobile number not found for the provided identifier")
	}
	target := c.render(mobile, message)
	_, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, err)
			}
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	})
	if err != nil {
		c.logger.Warnw("sms send failed", "mobile", mobile, "err", err)
		return apperr.Notification("error sending OTP", fmt.Errorf("sms gateway: %w", err))
	}
	c.logger.Debugw("sms sent", "mobile", mobile)
	return nil
}

func (c *SMSClient) render(mobile, message string) string {
	r := strings.NewReplacer(
		"{contacts}", url.QueryEscape(mobile),
		"{message}", url.QueryEscape(message),
	)
	return r.Replace(c.cfg.GatewayURL)
}
