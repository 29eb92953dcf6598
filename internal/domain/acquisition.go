package domain

import "context"

// Credentials are the member portal login details.
type Credentials struct {
	Username string
	Password string
}

// SearchParams are the configurable parts of the events-search request.
// The API also takes constant account identifiers which belong to the
// client, not here.
type SearchParams struct {
	Radius      string
	PostalCode  string
	CountryCode string
}

// TokenAcquirer drives the browser flow that yields the API bearer token:
// login, optional consent dismissal, navigation to the activity search,
// and observation of network traffic until an authorization credential for
// the API host appears. Implementations return ErrTokenNotCaptured (wrapped)
// when the bounded wait elapses without a capture.
type TokenAcquirer interface {
	AcquireToken(ctx context.Context, creds Credentials) (string, error)
}

// EventFetcher issues the single authenticated events-search call and
// decodes the response into the raw event batch.
type EventFetcher interface {
	FetchEvents(ctx context.Context, token string, params SearchParams) ([]Event, error)
}
