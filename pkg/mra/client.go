/*
 * Copyright 2025 Mobilesec Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mra provides a client for the Lookout Mobile Risk API v2:
// a client-credentials token grant plus cursor-paginated device and
// threat fetchers.
package mra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mobilesec/mrareport/pkg/logger"
)

// Client talks to the Mobile Risk API. The access token obtained via
// GetAccessToken is never refreshed mid-run; a run that outlives the
// token's validity window will start failing with 401s.
type Client struct {
	Endpoint       string
	ApplicationKey string
	PageSize       int
	HTTPClient     HTTPClient
	Logger         logger.Logger
}

// NewClient creates a Client with a bounded-timeout HTTP client.
func NewClient(endpoint, applicationKey string, pageSize int, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		Endpoint:       endpoint,
		ApplicationKey: applicationKey,
		PageSize:       pageSize,
		HTTPClient:     &http.Client{Timeout: timeout},
		Logger:         log,
	}
}

// GetAccessToken exchanges the static application key for a short-lived
// bearer token.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/oauth2/token", c.Endpoint),
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.ApplicationKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode,
			resp.StatusCode, string(bodyBytes))
	}

	var tokenResp TokenResponse

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}

	if tokenResp.AccessToken == "" {
		return "", errAuthFailed
	}

	return tokenResp.AccessToken, nil
}

// get issues an authenticated GET and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, reqURL, accessToken string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %d, response: %s", errUnexpectedStatusCode,
			resp.StatusCode, string(bodyBytes))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
