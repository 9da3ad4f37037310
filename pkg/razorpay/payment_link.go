package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.razorpay.com"

var ErrCredentialsMissing = errors.New("razorpay api keys missing")

// APIError is a non-2xx answer from the Razorpay API. Body is always valid
// JSON: a non-JSON upstream body is carried as a JSON string.
type APIError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay api returned status %d", e.StatusCode)
}

type Customer struct {
	Email string `json:"email"`
}

type Notify struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type CreatePaymentLinkRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	AcceptPartial  bool              `json:"accept_partial"`
	Description    string            `json:"description"`
	Customer       Customer          `json:"customer"`
	Notify         Notify            `json:"notify"`
	ReminderEnable bool              `json:"reminder_enable"`
	Notes          map[string]string `json:"notes"`
}

type PaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
}

// Client talks to the Razorpay REST API with Basic auth. It is built once at
// startup and shared across requests.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(keyID, keySecret, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether both API keys are present.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// CreatePaymentLink issues POST /v1/payment_links.
func (c *Client) CreatePaymentLink(ctx context.Context, in *CreatePaymentLinkRequest) (*PaymentLink, error) {
	if !c.Configured() {
		return nil, ErrCredentialsMissing
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal payment link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_links", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build payment link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call razorpay payment links: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: rawOrString(body)}
	}

	var link PaymentLink
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}
	return &link, nil
}

func rawOrString(body []byte) json.RawMessage {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
