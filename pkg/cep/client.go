package cep

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"
	"rental-service/pkg/config"
)

var cepPattern = regexp.MustCompile(`^\d{8}$`)

// Client queries the external CEP (postal code) lookup service for
// Brazilian street addresses. Lookup failures are expected to be treated
// as non-fatal by callers.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Address represents the response from the CEP lookup service
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	NotFound     bool   `json:"erro,omitempty"`
}

// NewClient creates a new CEP lookup client
func NewClient(cfg *config.CEPConfig, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     logger,
	}
}

// Lookup fetches the address for an 8-digit CEP
func (c *Client) Lookup(code string) (*Address, error) {
	if !cepPattern.MatchString(code) {
		return nil, fmt.Errorf("invalid CEP format: %q", code)
	}

	c.Logger.Info("Looking up CEP", zap.String("cep", code))

	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/%s/json", c.BaseURL, code))
	if err != nil {
		return nil, fmt.Errorf("CEP lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CEP lookup response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn("CEP lookup returned non-OK status",
			zap.String("cep", code),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("CEP lookup failed with status %d", resp.StatusCode)
	}

	var addr Address
	if err := json.Unmarshal(body, &addr); err != nil {
		return nil, fmt.Errorf("failed to parse CEP lookup response: %w", err)
	}

	if addr.NotFound {
		return nil, fmt.Errorf("CEP not found: %s", code)
	}

	return &addr, nil
}

// LookupWithRetry retries the lookup once after a short pause, for the
// common case of a flaky connection at the store counter.
func (c *Client) LookupWithRetry(code string) (*Address, error) {
	addr, err := c.Lookup(code)
	if err == nil {
		return addr, nil
	}
	time.Sleep(500 * time.Millisecond)
	return c.Lookup(code)
}
