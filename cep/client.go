// SPDX-License-Identifier: GPL-3.0-only

package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"alimenta-server/commons"
)

// ErrNotFound is returned when the lookup service does not know the code.
var ErrNotFound = errors.New("cep: address not found")

// Address holds the fields the lookup service resolves for a postal code.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client

	// lastFetched guards AutoLookup against re-fetching the code that was
	// just resolved while the user keeps typing in other fields.
	lastFetched string
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = commons.GetEnv("VIACEP_API_URL", "https://viacep.com.br")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		commons.Logger.Error("Failed to parse ViaCEP base URL:", err)
		return nil, err
	}
	commons.Logger.Debugf("ViaCEP client initialized for %s", baseURL)
	return &Client{
		BaseURL:    parsedURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Lookup resolves an 8-digit code to an address. A code the service does
// not know, or one with the wrong length, yields ErrNotFound.
func (c *Client) Lookup(ctx context.Context, code string) (*Address, error) {
	numbers := Digits(code)
	if len(numbers) != 8 {
		return nil, ErrNotFound
	}

	rel := &url.URL{Path: fmt.Sprintf("/ws/%s/json/", numbers)}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		commons.Logger.Errorf("ViaCEP lookup for %s failed: %s", numbers, resp.Status)
		return nil, fmt.Errorf("cep: lookup failed: %s", resp.Status)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	// The service reports unknown codes with an "erro" flag in an
	// otherwise empty 200 body.
	if len(body.Erro) > 0 {
		return nil, ErrNotFound
	}

	return &Address{
		CEP:          Digits(body.CEP),
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}

// AutoLookup fires only once the code reaches 8 digits and skips codes that
// were already fetched. It returns (nil, nil) when it decides not to fetch.
func (c *Client) AutoLookup(ctx context.Context, code string) (*Address, error) {
	numbers := Digits(code)
	if len(numbers) != 8 || numbers == c.lastFetched {
		return nil, nil
	}

	addr, err := c.Lookup(ctx, numbers)
	if err != nil {
		return nil, err
	}

	c.lastFetched = numbers
	return addr, nil
}
