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

import (
	"fmt"
	"time"
)

// Visibility is the access scope attached to every stored record.
type Visibility string

const (
	// VisibilityPrivate restricts a record to the user who created it.
	VisibilityPrivate Visibility = "private"
	// VisibilityTenant shares a record with everyone in the same tenant.
	VisibilityTenant Visibility = "tenant"
	// VisibilityPublic makes a record available platform-wide.
	VisibilityPublic Visibility = "public"
)

// Source identifies where the embedded content came from.
type Source string

const (
	SourceFile Source = "file"
	SourceText Source = "text"
	SourceChat Source = "chat"
	SourceNote Source = "note"
)

// FileType enumerates the recognized uploaded file formats.
type FileType string

const (
	FileTypePDF       FileType = "pdf"
	FileTypeDoc       FileType = "doc"
	FileTypeDocx      FileType = "docx"
	FileTypeTxt       FileType = "txt"
	FileTypeMarkdown  FileType = "md"
	FileTypeUndefined FileType = "undefined"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// NoteCategory classifies platform-owned public documents.
type NoteCategory string

const (
	NoteCategoryHelp       NoteCategory = "help"
	NoteCategoryFAQ        NoteCategory = "faq"
	NoteCategoryDocs       NoteCategory = "docs"
	NoteCategoryPolicy     NoteCategory = "policy"
	NoteCategoryGuidelines NoteCategory = "guidelines"
	NoteCategoryTutorial   NoteCategory = "tutorial"
	NoteCategoryDIY        NoteCategory = "diy"
)

// Scope carries the identity and visibility a piece of content is stored
// under. The same scope is used when filtering duplicate checks at ingestion.
type Scope struct {
	UserID     string // empty for platform-owned content
	TenantID   string // empty outside tenant scope
	Visibility Visibility
}

// FileInfo holds the fields specific to file-sourced content.
type FileInfo struct {
	FileID     string
	FileName   string
	FileType   FileType
	PageNumber int // 0 when the source format has no pages
	ChunkIndex int
}

// TextInfo holds the fields specific to directly ingested text snippets.
type TextInfo struct {
	ContextID  string // logical grouping of the text (note id, section id, ...)
	ChunkIndex int
}

// ChatInfo holds the fields specific to chat history segments.
type ChatInfo struct {
	ChatID       string
	MessageIndex int
	Role         ChatRole
}

// NoteInfo holds the fields specific to platform-wide public documents.
type NoteInfo struct {
	Category NoteCategory
}

// VectorMetadata is the tagged metadata attached to every stored vector.
// Source selects which of the variant fields (File/Text/Chat/Note) is set.
//
// The visibility invariant is enforced at construction and re-checked by
// Validate: private content requires a user, tenant content requires a tenant,
// and public content must carry neither. Query-time filters rely on every
// persisted record honoring this.
type VectorMetadata struct {
	Source     Source
	UserID     string
	TenantID   string
	Visibility Visibility
	ChunkText  string
	ChunkHash  string
	CreatedAt  time.Time

	File *FileInfo
	Text *TextInfo
	Chat *ChatInfo
	Note *NoteInfo
}

// NewFileMetadata builds metadata for a chunk extracted from an uploaded file.
func NewFileMetadata(scope Scope, chunkText string, info FileInfo) (*VectorMetadata, error) {
	if info.FileType == "" {
		info.FileType = FileTypeUndefined
	}
	md := newMetadata(SourceFile, scope, chunkText)
	md.File = &info
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

// NewTextMetadata builds metadata for a chunk of directly ingested text.
func NewTextMetadata(scope Scope, chunkText string, info TextInfo) (*VectorMetadata, error) {
	md := newMetadata(SourceText, scope, chunkText)
	md.Text = &info
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

// NewChatMetadata builds metadata for a segment of chat history.
func NewChatMetadata(scope Scope, chunkText string, info ChatInfo) (*VectorMetadata, error) {
	md := newMetadata(SourceChat, scope, chunkText)
	md.Chat = &info
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

// NewNoteMetadata builds metadata for a platform-owned public document.
// Notes are always public and therefore carry no user or tenant.
func NewNoteMetadata(chunkText string, info NoteInfo) (*VectorMetadata, error) {
	md := newMetadata(SourceNote, Scope{Visibility: VisibilityPublic}, chunkText)
	md.Note = &info
	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

func newMetadata(source Source, scope Scope, chunkText string) *VectorMetadata {
	return &VectorMetadata{
		Source:     source,
		UserID:     scope.UserID,
		TenantID:   scope.TenantID,
		Visibility: scope.Visibility,
		ChunkText:  chunkText,
		ChunkHash:  HashContent(chunkText),
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks the metadata against the domain rules.
//
// Rules:
//   - ChunkText must not be empty and ChunkHash must be set
//   - Visibility and Source must hold known values
//   - visibility=private requires UserID
//   - visibility=tenant requires TenantID
//   - visibility=public must have neither UserID nor TenantID
//   - exactly the variant matching Source must be populated
func (m *VectorMetadata) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: metadata is nil", ErrInvalidMetadata)
	}
	if m.ChunkText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMetadata, ErrEmptyChunkText)
	}
	if m.ChunkHash == "" {
		return fmt.Errorf("%w: chunk hash not set", ErrInvalidMetadata)
	}

	switch m.Visibility {
	case VisibilityPrivate:
		if m.UserID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidMetadata, ErrPrivateRequiresUser)
		}
	case VisibilityTenant:
		if m.TenantID == "" {
			return fmt.Errorf("%w: %w", ErrInvalidMetadata, ErrTenantRequiresTenant)
		}
	case VisibilityPublic:
		if m.UserID != "" || m.TenantID != "" {
			return fmt.Errorf("%w: %w", ErrInvalidMetadata, ErrPublicHasOwner)
		}
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidMetadata, ErrInvalidVisibility, m.Visibility)
	}

	variant := map[Source]bool{
		SourceFile: m.File != nil,
		SourceText: m.Text != nil,
		SourceChat: m.Chat != nil,
		SourceNote: m.Note != nil,
	}
	set, known := variant[m.Source]
	if !known {
		return fmt.Errorf("%w: %w %q", ErrInvalidMetadata, ErrInvalidSource, m.Source)
	}
	if !set {
		return fmt.Errorf("%w: source %q has no variant fields", ErrInvalidMetadata, m.Source)
	}
	count := 0
	for _, v := range variant {
		if v {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("%w: exactly one source variant must be set, got %d", ErrInvalidMetadata, count)
	}

	return nil
}

// ToFields flattens the metadata into primitive key/value pairs the way the
// vector stores persist it. Empty optional identifiers are omitted so that
// "absent" and "empty" stay indistinguishable at the storage layer.
func (m *VectorMetadata) ToFields() map[string]any {
	fields := map[string]any{
		"source":     string(m.Source),
		"visibility": string(m.Visibility),
		"chunk_text": m.ChunkText,
		"chunk_hash": m.ChunkHash,
		"created_at": m.CreatedAt.Format(time.RFC3339),
	}
	if m.UserID != "" {
		fields["user_id"] = m.UserID
	}
	if m.TenantID != "" {
		fields["tenant_id"] = m.TenantID
	}

	switch {
	case m.File != nil:
		fields["file_id"] = m.File.FileID
		fields["file_name"] = m.File.FileName
		fields["file_type"] = string(m.File.FileType)
		if m.File.PageNumber > 0 {
			fields["page_number"] = m.File.PageNumber
		}
		fields["chunk_index"] = m.File.ChunkIndex
	case m.Text != nil:
		fields["context_id"] = m.Text.ContextID
		fields["chunk_index"] = m.Text.ChunkIndex
	case m.Chat != nil:
		fields["chat_id"] = m.Chat.ChatID
		fields["message_index"] = m.Chat.MessageIndex
		fields["role"] = string(m.Chat.Role)
	case m.Note != nil:
		fields["category"] = string(m.Note.Category)
	}

	return fields
}

// MetadataFromFields rebuilds metadata from its flattened form. The result is
// validated, so records written under the visibility invariant read back under
// it as well.
func MetadataFromFields(fields map[string]any) (*VectorMetadata, error) {
	md := &VectorMetadata{
		Source:     Source(stringField(fields, "source")),
		UserID:     stringField(fields, "user_id"),
		TenantID:   stringField(fields, "tenant_id"),
		Visibility: Visibility(stringField(fields, "visibility")),
		ChunkText:  stringField(fields, "chunk_text"),
		ChunkHash:  stringField(fields, "chunk_hash"),
	}
	if raw := stringField(fields, "created_at"); raw != "" {
		created, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad created_at %q: %w", ErrInvalidMetadata, raw, err)
		}
		md.CreatedAt = created
	}

	switch md.Source {
	case SourceFile:
		md.File = &FileInfo{
			FileID:     stringField(fields, "file_id"),
			FileName:   stringField(fields, "file_name"),
			FileType:   FileType(stringField(fields, "file_type")),
			PageNumber: intField(fields, "page_number"),
			ChunkIndex: intField(fields, "chunk_index"),
		}
	case SourceText:
		md.Text = &TextInfo{
			ContextID:  stringField(fields, "context_id"),
			ChunkIndex: intField(fields, "chunk_index"),
		}
	case SourceChat:
		md.Chat = &ChatInfo{
			ChatID:       stringField(fields, "chat_id"),
			MessageIndex: intField(fields, "message_index"),
			Role:         ChatRole(stringField(fields, "role")),
		}
	case SourceNote:
		md.Note = &NoteInfo{
			Category: NoteCategory(stringField(fields, "category")),
		}
	}

	if err := md.Validate(); err != nil {
		return nil, err
	}
	return md, nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// intField tolerates the numeric types JSON decoding produces.
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
