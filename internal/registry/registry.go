// Package registry looks up company data by tax ID in the national VAT
// registry. It is a thin proxy: the backend never stores registry data,
// it only passes name and address through to the client form.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://wl-api.mf.gov.pl"

var (
	ErrNotFound     = errors.New("no company with this tax ID was found in the registry")
	ErrInvalidTaxID = errors.New("the tax ID format is invalid")
	ErrUnavailable  = errors.New("the company registry could not be reached")
)

// Company is the subset of registry data the backend passes through.
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Client queries the registry API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the production registry.
func New() *Client {
	return NewWithBaseURL(defaultBaseURL)
}

// NewWithBaseURL returns a Client against a custom registry endpoint.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type lookupResponse struct {
	Result struct {
		Subject *struct {
			Name             string `json:"name"`
			ResidenceAddress string `json:"residenceAddress"`
			WorkingAddress   string `json:"workingAddress"`
		} `json:"subject"`
	} `json:"result"`
}

// Lookup fetches the company registered for a tax ID. The registry
// requires the query date, which is always "today" for our purposes.
func (c *Client) Lookup(ctx context.Context, taxID string) (Company, error) {
	date := time.Now().Format("2006-01-02")
	url := fmt.Sprintf("%s/api/search/nip/%s?date=%s", c.baseURL, taxID, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Company{}, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Company{}, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Company{}, ErrNotFound
	case http.StatusBadRequest:
		return Company{}, ErrInvalidTaxID
	default:
		return Company{}, fmt.Errorf("%w: registry returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var body lookupResponse
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return Company{}, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}

	if body.Result.Subject == nil {
		return Company{}, ErrNotFound
	}

	address := body.Result.Subject.ResidenceAddress
	if address == "" {
		address = body.Result.Subject.WorkingAddress
	}

	return Company{
		Name:    body.Result.Subject.Name,
		Address: address,
	}, nil
}
