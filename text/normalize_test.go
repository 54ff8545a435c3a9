package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases and trims",
			in:   "  Hello World  ",
			want: "hello world",
		},
		{
			name: "collapses whitespace",
			in:   "one\t two\n\nthree",
			want: "one two three",
		},
		{
			name: "removes dot leaders with page numbers",
			in:   "Chapter One ........ 17",
			want: "chapter one",
		},
		{
			name: "removes spaced dot leaders",
			in:   "Introduction . . . . 3",
			want: "introduction",
		},
		{
			name: "rejoins hyphenated line breaks",
			in:   "an exam-\nple of broken words",
			want: "an example of broken words",
		},
		{
			name: "strips stray symbols keeps sentence punctuation",
			in:   "Price: $15 (approx.) — really?!",
			want: "price 15 approx. really?!",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   " \n\t ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Chapter One ........ 17\nAn exam-\nple with $ymbols & (notes)?!",
		"plain already normalized text.",
		"MIXED Case\t\twith   gaps",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input: %q", in)
	}
}
