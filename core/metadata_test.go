package core

import (
	"errors"
	"testing"
)

func TestNewTextMetadata_VisibilityScope(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		wantErr error
	}{
		{
			name:    "private with user succeeds",
			scope:   Scope{UserID: "u1", Visibility: VisibilityPrivate},
			wantErr: nil,
		},
		{
			name:    "private without user fails",
			scope:   Scope{Visibility: VisibilityPrivate},
			wantErr: ErrPrivateRequiresUser,
		},
		{
			name:    "tenant with tenant succeeds",
			scope:   Scope{TenantID: "t1", Visibility: VisibilityTenant},
			wantErr: nil,
		},
		{
			name:    "tenant without tenant fails",
			scope:   Scope{UserID: "u1", Visibility: VisibilityTenant},
			wantErr: ErrTenantRequiresTenant,
		},
		{
			name:    "public without owners succeeds",
			scope:   Scope{Visibility: VisibilityPublic},
			wantErr: nil,
		},
		{
			name:    "public with user fails",
			scope:   Scope{UserID: "u1", Visibility: VisibilityPublic},
			wantErr: ErrPublicHasOwner,
		},
		{
			name:    "public with tenant fails",
			scope:   Scope{TenantID: "t1", Visibility: VisibilityPublic},
			wantErr: ErrPublicHasOwner,
		},
		{
			name:    "unknown visibility fails",
			scope:   Scope{UserID: "u1", Visibility: "internal"},
			wantErr: ErrInvalidVisibility,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := NewTextMetadata(tt.scope, "some chunk text", TextInfo{ContextID: "ctx", ChunkIndex: 0})

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewTextMetadata() unexpected error: %v", err)
				}
				if md.ChunkHash != HashContent("some chunk text") {
					t.Errorf("NewTextMetadata() chunk hash mismatch")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTextMetadata() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidMetadata) {
				t.Errorf("NewTextMetadata() error should wrap ErrInvalidMetadata, got %v", err)
			}
		})
	}
}

func TestNewTextMetadata_EmptyChunkText(t *testing.T) {
	_, err := NewTextMetadata(Scope{UserID: "u1", Visibility: VisibilityPrivate}, "", TextInfo{ContextID: "ctx"})
	if !errors.Is(err, ErrEmptyChunkText) {
		t.Errorf("NewTextMetadata() error = %v, want ErrEmptyChunkText", err)
	}
}

func TestNewNoteMetadata_AlwaysPublic(t *testing.T) {
	md, err := NewNoteMetadata("platform help article", NoteInfo{Category: NoteCategoryHelp})
	if err != nil {
		t.Fatalf("NewNoteMetadata() unexpected error: %v", err)
	}
	if md.Visibility != VisibilityPublic {
		t.Errorf("NewNoteMetadata() visibility = %q, want public", md.Visibility)
	}
	if md.UserID != "" || md.TenantID != "" {
		t.Errorf("NewNoteMetadata() must not carry user or tenant IDs")
	}
}

func TestMetadataFields_Roundtrip(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*VectorMetadata, error)
	}{
		{
			name: "file variant",
			build: func() (*VectorMetadata, error) {
				return NewFileMetadata(
					Scope{UserID: "u1", Visibility: VisibilityPrivate},
					"chunk from a pdf",
					FileInfo{FileID: "f1", FileName: "manual.pdf", FileType: FileTypePDF, PageNumber: 3, ChunkIndex: 7},
				)
			},
		},
		{
			name: "text variant",
			build: func() (*VectorMetadata, error) {
				return NewTextMetadata(
					Scope{TenantID: "t1", Visibility: VisibilityTenant},
					"chunk from a note",
					TextInfo{ContextID: "note-9", ChunkIndex: 2},
				)
			},
		},
		{
			name: "chat variant",
			build: func() (*VectorMetadata, error) {
				return NewChatMetadata(
					Scope{UserID: "u1", Visibility: VisibilityPrivate},
					"chunk from a conversation",
					ChatInfo{ChatID: "c1", MessageIndex: 4, Role: ChatRoleAssistant},
				)
			},
		},
		{
			name: "note variant",
			build: func() (*VectorMetadata, error) {
				return NewNoteMetadata("chunk from the faq", NoteInfo{Category: NoteCategoryFAQ})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}

			restored, err := MetadataFromFields(md.ToFields())
			if err != nil {
				t.Fatalf("MetadataFromFields() error: %v", err)
			}

			if restored.Source != md.Source ||
				restored.UserID != md.UserID ||
				restored.TenantID != md.TenantID ||
				restored.Visibility != md.Visibility ||
				restored.ChunkText != md.ChunkText ||
				restored.ChunkHash != md.ChunkHash {
				t.Errorf("roundtrip changed common fields: got %+v, want %+v", restored, md)
			}

			switch md.Source {
			case SourceFile:
				if *restored.File != *md.File {
					t.Errorf("roundtrip changed file fields: got %+v, want %+v", restored.File, md.File)
				}
			case SourceText:
				if *restored.Text != *md.Text {
					t.Errorf("roundtrip changed text fields: got %+v, want %+v", restored.Text, md.Text)
				}
			case SourceChat:
				if *restored.Chat != *md.Chat {
					t.Errorf("roundtrip changed chat fields: got %+v, want %+v", restored.Chat, md.Chat)
				}
			case SourceNote:
				if *restored.Note != *md.Note {
					t.Errorf("roundtrip changed note fields: got %+v, want %+v", restored.Note, md.Note)
				}
			}
		})
	}
}

func TestMetadataFromFields_JSONNumericTypes(t *testing.T) {
	md, err := NewTextMetadata(Scope{UserID: "u1", Visibility: VisibilityPrivate}, "chunk text here", TextInfo{ContextID: "ctx", ChunkIndex: 5})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// JSON decoding turns ints into float64; the reader must tolerate it.
	fields := md.ToFields()
	fields["chunk_index"] = float64(5)

	restored, err := MetadataFromFields(fields)
	if err != nil {
		t.Fatalf("MetadataFromFields() error: %v", err)
	}
	if restored.Text.ChunkIndex != 5 {
		t.Errorf("chunk_index = %d, want 5", restored.Text.ChunkIndex)
	}
}
