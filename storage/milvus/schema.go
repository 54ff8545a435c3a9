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


package milvus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/poiesic/groundit/core"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "groundit_vectors"

// Field names of the collection. Filterable metadata lives in dedicated
// scalar columns; variant-specific fields are packed into the attrs JSON
// column and are not filterable.
const (
	fieldKey        = "key"
	fieldEmbedding  = "embedding"
	fieldUserID     = "user_id"
	fieldTenantID   = "tenant_id"
	fieldVisibility = "visibility"
	fieldSource     = "source"
	fieldChunkHash  = "chunk_hash"
	fieldChunkText  = "chunk_text"
	fieldCreatedAt  = "created_at"
	fieldAttrs      = "attrs"
)

// scalarFields are the columns a Filter may address, plus chunk_text, in the
// order the store reads them back.
var scalarFields = []string{
	fieldUserID, fieldTenantID, fieldVisibility,
	fieldSource, fieldChunkHash, fieldChunkText, fieldCreatedAt,
}

// ensureCollection creates the collection, its index, and loads it. Safe to
// call when the collection already exists.
func ensureCollection(ctx context.Context, client *milvusclient.Client, name string) error {
	exists, err := client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("check collection %s: %w", name, err)
	}

	if !exists {
		schema := &entity.Schema{
			CollectionName: name,
			Description:    "Embedded content chunks with scoped metadata",
			Fields: []*entity.Field{
				{
					Name:       fieldKey,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{"max_length": "64"},
				},
				{
					Name:       fieldEmbedding,
					DataType:   entity.FieldTypeFloatVector,
					TypeParams: map[string]string{"dim": strconv.Itoa(core.EmbeddingDim)},
				},
				{
					Name:       fieldUserID,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "255"},
				},
				{
					Name:       fieldTenantID,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "255"},
				},
				{
					Name:       fieldVisibility,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "16"},
				},
				{
					Name:       fieldSource,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "16"},
				},
				{
					Name:       fieldChunkHash,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "64"},
				},
				{
					Name:       fieldChunkText,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "65535"},
				},
				{
					Name:       fieldCreatedAt,
					DataType:   entity.FieldTypeVarChar,
					TypeParams: map[string]string{"max_length": "64"},
				},
				{
					Name:     fieldAttrs,
					DataType: entity.FieldTypeJSON,
				},
			},
		}

		if err := client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(name, schema)); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}

		idx := index.NewHNSWIndex(entity.L2, 16, 200)
		if _, err := client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, fieldEmbedding, idx)); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}

	if _, err := client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name)); err != nil {
		return fmt.Errorf("load collection %s: %w", name, err)
	}
	return nil
}
