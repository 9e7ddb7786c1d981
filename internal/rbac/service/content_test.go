package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  The Art of Slow Travel  ", "the-art-of-slow-travel"},
		{"Crème brûlée in São Paulo", "creme-brulee-in-sao-paulo"},
		{"10 tips -- for   the road!!", "10-tips-for-the-road"},
		{"¡¿?!", ""},
		{"日本 trip", "trip"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.title))
		})
	}

	t.Run("long titles are capped without a trailing dash", func(t *testing.T) {
		slug := GenerateSlug(strings.Repeat("abcdefghi ", 20))
		assert.LessOrEqual(t, len(slug), maxSlugLength)
		assert.False(t, strings.HasSuffix(slug, "-"))
	})
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("a few words"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
}

func TestExcerpt(t *testing.T) {
	t.Run("strips markdown", func(t *testing.T) {
		content := "# Title\n\nSome *italic* and `code` here.\n\n```\nblock\n```"
		assert.Equal(t, "Title\n\nSome italic and code here.", Excerpt(content, 150))
	})

	t.Run("truncates with ellipsis", func(t *testing.T) {
		got := Excerpt(strings.Repeat("word ", 50), 20)
		assert.Equal(t, "word word word word...", got)
	})

	t.Run("short text is returned as is", func(t *testing.T) {
		assert.Equal(t, "short", Excerpt("  short  ", 150))
	})
}
