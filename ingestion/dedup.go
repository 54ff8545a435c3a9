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


package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
)

// DefaultDedupThreshold is the distance below which a stored vector with the
// same content hash counts as the same chunk. Identical content embeds to an
// identical vector, so the threshold only needs to absorb float noise.
const DefaultDedupThreshold = 0.001

// deduplicator checks whether a chunk is already stored for a given scope.
// The check is scoped: the same content stored by two different users is not
// a duplicate.
type deduplicator struct {
	store     storage.VectorStore
	threshold float32
	logger    *slog.Logger
}

// isDuplicate queries the nearest stored vector among records with the same
// content hash and scope, and reports whether it is close enough to count as
// the same chunk.
func (d *deduplicator) isDuplicate(ctx context.Context, scope core.Scope, chunkHash string, embedding []float32) (bool, error) {
	filter := storage.Filter{
		"chunk_hash": chunkHash,
		"visibility": string(scope.Visibility),
	}
	if scope.UserID != "" {
		filter["user_id"] = scope.UserID
	}
	if scope.TenantID != "" {
		filter["tenant_id"] = scope.TenantID
	}

	matches, err := d.store.Query(ctx, storage.QueryParams{
		Vector: embedding,
		TopK:   1,
		Filter: filter,
	})
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return false, nil
	}

	dup := matches[0].Distance < d.threshold
	if dup {
		d.logger.Debug("duplicate chunk",
			"hash", chunkHash,
			"existing_key", matches[0].Record.Key,
			"distance", matches[0].Distance)
	}
	return dup, nil
}
