package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/buildactivities/internal/domain/entities"
	"github.com/rios0rios0/buildactivities/internal/domain/repositories"
	"github.com/rios0rios0/buildactivities/internal/retry"
)

const (
	httpTimeout      = 30 * time.Second
	maxResponseBytes = 1 << 20
	messagesPathFmt  = "/2010-04-01/Accounts/%s/Messages.json"
)

// SmsRepository sends text messages through the Twilio REST API.
type SmsRepository struct {
	client *http.Client
}

// NewSmsRepository creates a new Twilio SmsRepository.
func NewSmsRepository() repositories.SmsRepository {
	return &SmsRepository{client: &http.Client{Timeout: httpTimeout}}
}

// NewSmsRepositoryWithClient creates a Twilio SmsRepository on a custom HTTP client.
func NewSmsRepositoryWithClient(client *http.Client) *SmsRepository {
	return &SmsRepository{client: client}
}

type messageResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Send posts the message and returns its sid. 4xx responses are permanent.
func (r *SmsRepository) Send(
	ctx context.Context,
	account entities.SmsAccount,
	message entities.SmsMessage,
) (string, error) {
	endpoint := strings.TrimRight(account.BaseURL, "/") +
		fmt.Sprintf(messagesPathFmt, url.PathEscape(account.AccountSID))

	form := url.Values{}
	form.Set("From", message.From)
	form.Set("To", message.To)
	form.Set("Body", message.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.SetBasicAuth(account.AccountSID, account.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call sms gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read sms gateway response: %w", err)
	}

	var parsed messageResponse
	_ = json.Unmarshal(body, &parsed)

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, describe(parsed, body))
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusTooManyRequests {
			return "", retry.Permanent(statusErr)
		}
		return "", statusErr
	}
	if parsed.Sid == "" {
		return "", fmt.Errorf("sms gateway response has no message sid: %s", string(body))
	}

	logger.Debugf("[sms] Gateway accepted %s with status %q", parsed.Sid, parsed.Status)
	return parsed.Sid, nil
}

func describe(parsed messageResponse, body []byte) string {
	if parsed.Message != "" {
		return fmt.Sprintf("%s (code %d)", parsed.Message, parsed.Code)
	}
	return strings.TrimSpace(string(body))
}
