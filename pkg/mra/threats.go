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

package mra

import (
	"context"
	"fmt"
	"net/url"
)

// FetchThreats retrieves the complete threat collection.
func (c *Client) FetchThreats(ctx context.Context, accessToken string) ([]Threat, error) {
	threats, err := fetchAllPages(ctx, "threats", c.PageSize, c.Logger,
		func(ctx context.Context, cursor string) ([]Threat, int, error) {
			params := url.Values{}
			params.Set("limit", fmt.Sprintf("%d", c.PageSize))

			if cursor != "" {
				params.Set("oid", cursor)
			}

			reqURL := fmt.Sprintf("%s/mra/api/v2/threats?%s", c.Endpoint, params.Encode())

			var page ThreatsResponse

			if err := c.get(ctx, reqURL, accessToken, &page); err != nil {
				return nil, 0, err
			}

			return page.Threats, page.Count, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threats: %w", err)
	}

	c.Logger.Info().Int("total", len(threats)).Msg("Total threats fetched")

	return threats, nil
}
