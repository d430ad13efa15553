package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioClient sends messages through the Twilio Messages API.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    defaultTwilioBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at a different endpoint. Used in tests.
func (c *TwilioClient) WithBaseURL(baseURL string) *TwilioClient {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Message      string `json:"message"`
	ErrorMessage string `json:"error_message"`
}

func (c *TwilioClient) Send(ctx context.Context, to, body string) (Receipt, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	var tr twilioResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return Receipt{}, fmt.Errorf("%w: unexpected response (status %d)", ErrSendFailed, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := tr.ErrorMessage
		if msg == "" {
			msg = tr.Message
		}
		return Receipt{}, fmt.Errorf("%w: gateway status %d: %s", ErrSendFailed, resp.StatusCode, msg)
	}

	return Receipt{SID: tr.SID}, nil
}
