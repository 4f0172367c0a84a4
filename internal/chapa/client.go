package chapa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.chapa.co/v1"

// Config carries the provider credentials and endpoint. It is built once in
// the config package and injected, so tests can point the client at a stub
// server.
type Config struct {
	SecretKey     string
	WebhookSecret string
	BaseURL       string
}

// Client wraps the provider's transaction initialize/verify endpoints.
type Client struct {
	config     *Config
	httpClient *http.Client
}

func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type InitializeRequest struct {
	TxRef         string        `json:"tx_ref"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	CallbackURL   string        `json:"callback_url"`
	ReturnURL     string        `json:"return_url"`
	Customization Customization `json:"customization"`
}

type InitializeData struct {
	CheckoutURL   string `json:"checkout_url"`
	TransactionID string `json:"transaction_id"`
}

type VerifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// envelope is the provider's response wrapper. A call succeeded only when the
// HTTP status is 200 and Status is "success".
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize registers a transaction with the provider and returns the hosted
// checkout details. Either field of the result may be empty; callers must not
// overwrite persisted values with empty ones.
func (c *Client) Initialize(initReq *InitializeRequest) (*InitializeData, error) {
	jsonBody, err := json.Marshal(initReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize payload: %v", err)
	}

	httpReq, err := http.NewRequest("POST", c.config.BaseURL+"/transaction/initialize", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create initialize request: %v", err)
	}
	c.setHeaders(httpReq)

	env, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var data InitializeData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to parse initialize response data: %v", err)
		}
	}
	return &data, nil
}

// Verify fetches the provider's view of a transaction by its reference.
func (c *Client) Verify(reference string) (*VerifyData, error) {
	httpReq, err := http.NewRequest("GET", c.config.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %v", err)
	}
	c.setHeaders(httpReq)

	env, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var data VerifyData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to parse verify response data: %v", err)
		}
	}
	return &data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, DNS failures and refused connections are reported
		// distinctly from provider-declared rejections.
		return nil, &Error{
			Kind:    ErrKindUnavailable,
			Message: "failed to connect to payment service",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    ErrKindUnavailable,
			Message: "failed to read payment service response",
			Details: err.Error(),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{
			Kind:    ErrKindRejected,
			Message: "unexpected payment service response",
			Details: string(body),
		}
	}

	if resp.StatusCode != http.StatusOK || env.Status != "success" {
		details := map[string]interface{}{
			"status":  env.Status,
			"message": env.Message,
		}
		return nil, &Error{
			Kind:    ErrKindRejected,
			Message: env.Message,
			Details: details,
		}
	}

	return &env, nil
}
