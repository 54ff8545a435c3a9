package core

import (
	"errors"
	"testing"
)

func TestHashContent(t *testing.T) {
	a := HashContent("the same content")
	b := HashContent("the same content")
	c := HashContent("different content")

	if a != b {
		t.Errorf("HashContent() not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("HashContent() collision for distinct inputs")
	}
	if len(a) != 32 {
		t.Errorf("HashContent() length = %d, want 32 hex chars", len(a))
	}
}

func TestNewVectorRecord(t *testing.T) {
	md, err := NewTextMetadata(Scope{UserID: "u1", Visibility: VisibilityPrivate}, "a chunk", TextInfo{ContextID: "ctx"})
	if err != nil {
		t.Fatalf("NewTextMetadata() error: %v", err)
	}

	rec, err := NewVectorRecord(make([]float32, EmbeddingDim), md)
	if err != nil {
		t.Fatalf("NewVectorRecord() error: %v", err)
	}
	if rec.Key == "" {
		t.Error("NewVectorRecord() generated empty key")
	}

	other, err := NewVectorRecord(make([]float32, EmbeddingDim), md)
	if err != nil {
		t.Fatalf("NewVectorRecord() error: %v", err)
	}
	if rec.Key == other.Key {
		t.Error("NewVectorRecord() keys must be unique")
	}
}

func TestNewVectorRecord_DimensionMismatch(t *testing.T) {
	md, err := NewTextMetadata(Scope{UserID: "u1", Visibility: VisibilityPrivate}, "a chunk", TextInfo{ContextID: "ctx"})
	if err != nil {
		t.Fatalf("NewTextMetadata() error: %v", err)
	}

	_, err = NewVectorRecord(make([]float32, 768), md)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("NewVectorRecord() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestNewVectorRecord_NilMetadata(t *testing.T) {
	_, err := NewVectorRecord(make([]float32, EmbeddingDim), nil)
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("NewVectorRecord() error = %v, want ErrInvalidMetadata", err)
	}
}
