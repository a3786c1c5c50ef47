package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims surrounding whitespace", in: "  hello  ", want: "hello"},
		{name: "whitespace only", in: "   ", want: ""},
		{name: "newlines and tabs only", in: "\n\t ", want: ""},
		{name: "inner whitespace kept", in: " a  b ", want: "a  b"},
		{name: "caps long content", in: strings.Repeat("x", 1500), want: strings.Repeat("x", MaxContentLength)},
		{name: "exact limit untouched", in: strings.Repeat("y", MaxContentLength), want: strings.Repeat("y", MaxContentLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeContent(tt.in))
		})
	}
}

func TestNormalizeContentCountsRunes(t *testing.T) {
	out := NormalizeContent(strings.Repeat("ж", 1200))

	assert.Equal(t, MaxContentLength, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}
