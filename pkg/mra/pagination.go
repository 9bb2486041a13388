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

	"github.com/mobilesec/mrareport/pkg/logger"
)

// cursored is implemented by page items that may carry a pagination cursor.
type cursored interface {
	pageCursor() string
}

// fetchPage returns one page of items plus the item count the API reported
// for that page. The cursor is empty for the first request.
type fetchPage[T cursored] func(ctx context.Context, cursor string) (items []T, count int, err error)

// fetchAllPages walks a paginated collection until exhaustion. Continuation
// rules: a page whose reported count is below the requested limit ends the
// walk; otherwise the last item's cursor feeds the next request; a full page
// without a cursor ends the walk with a warning and the partial collection
// is accepted as final.
func fetchAllPages[T cursored](ctx context.Context, resource string, limit int, log logger.Logger, fetch fetchPage[T]) ([]T, error) {
	var all []T

	cursor := ""

	for {
		items, count, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		log.Info().
			Str("resource", resource).
			Int("page_count", count).
			Int("total", len(all)).
			Msg("Fetched page")

		if count < limit {
			break
		}

		if len(items) == 0 {
			log.Warn().
				Str("resource", resource).
				Msg("Unable to paginate further; some items may be missing")

			break
		}

		next := items[len(items)-1].pageCursor()
		if next == "" {
			log.Warn().
				Str("resource", resource).
				Msg("Unable to paginate further; some items may be missing")

			break
		}

		cursor = next
	}

	return all, nil
}
