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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidMetadata indicates vector metadata failed validation.
	ErrInvalidMetadata = errors.New("invalid vector metadata")

	// ErrEmptyChunkText indicates the ChunkText field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrPrivateRequiresUser indicates private visibility without a user.
	ErrPrivateRequiresUser = errors.New("private visibility requires user_id")

	// ErrTenantRequiresTenant indicates tenant visibility without a tenant.
	ErrTenantRequiresTenant = errors.New("tenant visibility requires tenant_id")

	// ErrPublicHasOwner indicates public visibility with a user or tenant attached.
	ErrPublicHasOwner = errors.New("public visibility must not have user_id or tenant_id")

	// ErrInvalidVisibility indicates an unknown visibility value.
	ErrInvalidVisibility = errors.New("invalid visibility")

	// ErrInvalidSource indicates an unknown source value.
	ErrInvalidSource = errors.New("invalid source")

	// ErrDimensionMismatch indicates an embedding of the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
