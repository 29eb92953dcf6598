// Package foresters implements the authenticated events-search API client.
package foresters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"foresterswatch/internal/domain"
)

// APIHostPattern identifies requests carrying the bearer token we need to
// capture during browser navigation.
const APIHostPattern = "api.myforesters.com"

const defaultSearchURL = "https://" + APIHostPattern + "/activities/api/event/search"

// Account identifiers the search endpoint requires. These are fixed for
// the member activities feature and are not member-specific.
const (
	accountCode  = "FFS"
	branchNumber = "001"
	channel      = "member-portal"
)

// searchRequest is the fixed-shape JSON body of the events-search call.
type searchRequest struct {
	Radius       string `json:"radius"`
	PostalCode   string `json:"postalCode"`
	CountryCode  string `json:"countryCode"`
	AccountCode  string `json:"accountCode"`
	BranchNumber string `json:"branchNumber"`
	Channel      string `json:"channel"`
}

// Client calls the Foresters events-search endpoint.
type Client struct {
	httpClient *http.Client
	searchURL  string
}

// Option configures a Client.
type Option func(*Client)

// WithSearchURL overrides the events-search endpoint. Used in tests.
func WithSearchURL(url string) Option {
	return func(c *Client) { c.searchURL = url }
}

// NewClient returns a Client that calls the events-search API. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{httpClient: httpClient, searchURL: defaultSearchURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEvents issues one authenticated POST to the events-search endpoint
// and decodes the JSON array response as the raw event batch.
func (c *Client) FetchEvents(ctx context.Context, token string, params domain.SearchParams) ([]domain.Event, error) {
	body, err := json.Marshal(searchRequest{
		Radius:       params.Radius,
		PostalCode:   params.PostalCode,
		CountryCode:  params.CountryCode,
		AccountCode:  accountCode,
		BranchNumber: branchNumber,
		Channel:      channel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events api returned status: %d", resp.StatusCode)
	}

	var events []domain.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	return events, nil
}
