package service

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	wordsPerMinute    = 200
	maxSlugLength     = 80
	DefaultExcerptLen = 150
)

// GenerateSlug lowercases title, folds accents to ASCII and joins the
// remaining letters and digits with single dashes.
func GenerateSlug(title string) string {
	// transformers keep state, so build one per call
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}

// ReadTime estimates minutes to read content at 200 words per minute.
// Every post takes at least a minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}

var (
	mdCodeBlock  = regexp.MustCompile("(?s)```.*?```")
	mdInlineCode = regexp.MustCompile("`([^`]*)`")
	mdHeader     = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	mdBold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	mdItalic     = regexp.MustCompile(`\*(.*?)\*`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// Excerpt strips common markdown from content and truncates it to maxLen
// characters, appending "..." when cut.
func Excerpt(content string, maxLen int) string {
	text := mdCodeBlock.ReplaceAllString(content, "")
	text = mdInlineCode.ReplaceAllString(text, "$1")
	text = mdHeader.ReplaceAllString(text, "")
	text = mdBold.ReplaceAllString(text, "$1")
	text = mdItalic.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:maxLen])) + "..."
}
