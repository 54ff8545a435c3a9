package milvus

import (
	"testing"

	"github.com/poiesic/groundit/storage"
	"github.com/stretchr/testify/assert"
)

func TestBuildExpr(t *testing.T) {
	tests := []struct {
		name   string
		filter storage.Filter
		want   string
	}{
		{
			name:   "empty filter",
			filter: nil,
			want:   "",
		},
		{
			name:   "single term",
			filter: storage.Filter{"user_id": "u1"},
			want:   `user_id == "u1"`,
		},
		{
			name:   "terms sorted by key",
			filter: storage.Filter{"user_id": "u1", "chunk_hash": "abc123"},
			want:   `chunk_hash == "abc123" and user_id == "u1"`,
		},
		{
			name:   "quotes escaped",
			filter: storage.Filter{"user_id": `u"1"`},
			want:   `user_id == "u\"1\""`,
		},
		{
			name:   "backslashes escaped",
			filter: storage.Filter{"user_id": `u\1`},
			want:   `user_id == "u\\1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildExpr(tt.filter))
		})
	}
}
