package mra

import (
	"context"
	"net/http"
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider defines the interface for obtaining access tokens.
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// DeviceFetcher defines the interface for fetching the device inventory.
type DeviceFetcher interface {
	FetchDevices(ctx context.Context, accessToken, email string) ([]Device, error)
}

// ThreatFetcher defines the interface for fetching detected threats.
type ThreatFetcher interface {
	FetchThreats(ctx context.Context, accessToken string) ([]Threat, error)
}

var (
	_ TokenProvider = (*Client)(nil)
	_ DeviceFetcher = (*Client)(nil)
	_ ThreatFetcher = (*Client)(nil)
)
