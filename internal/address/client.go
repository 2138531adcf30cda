package address

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

	"ficha/internal/address/models"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBytes bounds what we read from the postal service.
const maxResponseBytes = 64 << 10

// Client talks to a ViaCEP-compatible postal code service.
type Client struct {
	baseURL string
	doer    HTTPDoer
}

type ClientOption func(*Client)

// WithHTTPDoer swaps the transport, mostly for tests.
func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.doer = doer
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// viaCEPResponse mirrors the subset of the provider payload we read.
type viaCEPResponse struct {
	CEP        string   `json:"cep"`
	Logradouro string   `json:"logradouro"`
	Bairro     string   `json:"bairro"`
	Localidade string   `json:"localidade"`
	UF         string   `json:"uf"`
	Erro       flagBool `json:"erro"`
}

// flagBool accepts both `true` and `"true"`; the provider has shipped both.
type flagBool bool

func (f *flagBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	*f = flagBool(strings.EqualFold(s, "true"))
	return nil
}

// Lookup fetches the address for an 8-digit postal code.
func (c *Client) Lookup(ctx context.Context, cep string) (models.Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Address{}, newLookupError(ErrorInternal, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return models.Address{}, newLookupError(ErrorTimeout, "request timeout", err)
		}
		return models.Address{}, newLookupError(ErrorProviderOutage, "failed to execute request", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.Address{}, newLookupError(ErrorProviderOutage, "failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return models.Address{}, newLookupError(ErrorBadData, "postal code rejected by provider", nil)
	case resp.StatusCode == http.StatusNotFound:
		return models.Address{}, newLookupError(ErrorNotFound, "postal code not found", nil)
	default:
		return models.Address{}, newLookupError(ErrorProviderOutage, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload viaCEPResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.Address{}, newLookupError(ErrorBadData, "failed to decode response", err)
	}
	if payload.Erro {
		return models.Address{}, newLookupError(ErrorNotFound, "postal code not found", nil)
	}

	return models.Address{
		PostalCode: payload.CEP,
		Street:     payload.Logradouro,
		District:   payload.Bairro,
		City:       payload.Localidade,
		Region:     payload.UF,
	}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
