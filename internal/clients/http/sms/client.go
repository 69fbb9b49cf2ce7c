package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultBaseURL is the Twilio-compatible REST endpoint.
const DefaultBaseURL = "https://api.twilio.com"

// Config identifies the account messages are sent from.
type Config struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
}

// Client sends text messages through a Twilio-compatible Messages API.
type Client struct {
	cfg  Config
	http *http.Client
}

// Message is the subset of the Messages API response the backoffice uses.
type Message struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// APIError is returned when the gateway rejects a message.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sms gateway returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("sms gateway returned status %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
}

// NewClient instantiates the client with sane defaults. The transport is traced.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errors.New("sms account sid and auth token are required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("sms sender number is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// Send delivers body to the given phone number.
func (c *Client) Send(ctx context.Context, to, body string) (*Message, error) {
	if c == nil || c.http == nil {
		return nil, errors.New("sms client not configured")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, errors.New("sms recipient is required")
	}
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.cfg.BaseURL, url.PathEscape(c.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sms request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call sms gateway: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read sms gateway response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(payload, apiErr)
		return nil, apiErr
	}
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode sms gateway response: %w", err)
	}
	return &msg, nil
}
