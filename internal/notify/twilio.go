// Package notify sends SMS invites and payment reminders through Twilio.
package notify

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
)

var (
	ErrNotConfigured    = errors.New("sms is not configured")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrUnverifiedNumber = errors.New("phone number not verified for trial account")
)

// Twilio error codes with a specific meaning for callers.
const (
	codeInvalidTo    = 21211
	codeUnverifiedTo = 21608
)

const DefaultTwilioURL = "https://api.twilio.com/2010-04-01"

// Sender sends a text message and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioConfig holds the account credentials and sending number.
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

// Enabled reports whether every credential is present.
func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.PhoneNumber != ""
}

// TwilioSender posts messages to the Twilio REST API.
type TwilioSender struct {
	cfg     TwilioConfig
	BaseURL string
	client  *http.Client
}

// NewTwilioSender returns a sender for cfg. A sender built from an incomplete
// config fails every Send with ErrNotConfigured.
func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		cfg:     cfg,
		BaseURL: DefaultTwilioURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type twilioMessage struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send delivers body to the phone number to, which is normalized first.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	if !s.cfg.Enabled() {
		return "", ErrNotConfigured
	}
	number, err := NormalizePhone(to)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("To", number)
	form.Set("From", s.cfg.PhoneNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.BaseURL, url.PathEscape(s.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	var msg twilioMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 300 {
		switch msg.Code {
		case codeInvalidTo:
			return "", ErrInvalidPhone
		case codeUnverifiedTo:
			return "", ErrUnverifiedNumber
		}
		return "", fmt.Errorf("twilio error %d: %s", msg.Code, msg.Message)
	}
	return msg.SID, nil
}

// NormalizePhone keeps the digits of a phone number and formats it as E.164.
// Ten digits are read as a US number.
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) < 10 || len(d) > 15:
		return "", ErrInvalidPhone
	case len(d) == 10:
		return "+1" + d, nil
	default:
		return "+" + d, nil
	}
}
