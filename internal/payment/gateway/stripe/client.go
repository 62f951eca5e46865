package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
)

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client is a minimal Stripe REST client covering payment intent creation.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a non-production endpoint. Tests use it
// against httptest servers.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: "https://api.stripe.com",
		client:  &http.Client{Timeout: 12 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateIntent(ctx context.Context, params paymentdomain.CreateIntentParams) (paymentdomain.Intent, error) {
	values := url.Values{}
	values.Set("amount", strconv.FormatInt(params.Amount, 10))
	values.Set("currency", strings.ToLower(params.Currency))
	values.Set("automatic_payment_methods[enabled]", "false")
	values.Set("payment_method_types[]", "card")
	for key, value := range params.Metadata {
		values.Set("metadata["+key+"]", value)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/payment_intents", values, params.IdempotencyKey)
	if err != nil {
		return paymentdomain.Intent{}, err
	}
	return paymentdomain.Intent{
		ID:           resp.ID,
		ClientSecret: resp.ClientSecret,
		Status:       resp.Status,
		Amount:       resp.Amount,
		Currency:     resp.Currency,
	}, nil
}

func (c *Client) doRequest(
	ctx context.Context,
	method string,
	path string,
	values url.Values,
	idempotencyKey string,
) (intentResponse, error) {
	if c.apiKey == "" {
		return intentResponse{}, paymentdomain.ErrGatewayUnavailable
	}
	var bodyReader *strings.Reader
	if values != nil {
		bodyReader = strings.NewReader(values.Encode())
	} else {
		bodyReader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return intentResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return intentResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var gatewayErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&gatewayErr); err != nil {
			return intentResponse{}, errors.New("stripe_request_failed")
		}
		message := strings.TrimSpace(gatewayErr.Error.Message)
		if message == "" {
			message = "stripe_request_failed"
		}
		return intentResponse{}, errors.New(message)
	}

	var intent intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return intentResponse{}, err
	}
	if intent.ID == "" {
		return intentResponse{}, errors.New("stripe_response_invalid")
	}
	return intent, nil
}
