// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rerank

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/poiesic/groundit/ai"
)

// retryRateLimited runs operation, retrying only when the error is a backend
// rate limit. The delay before attempt n is (2^n + jitter) units, where
// jitter is uniform in [0,1). Any non-rate-limit error returns immediately.
// Returns the error from the last attempt if all attempts fail.
func retryRateLimited(ctx context.Context, operation func() error, maxAttempts int, unit time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("operation succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}
		if !ai.IsRateLimit(lastErr) {
			return lastErr
		}

		if attempt == maxAttempts-1 {
			break
		}

		delay := time.Duration((math.Pow(2, float64(attempt)) + rand.Float64()) * float64(unit))
		slog.Debug("rate limited, backing off", "attempt", attempt+1, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
