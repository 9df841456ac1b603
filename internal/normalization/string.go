package normalization

import (
	"strings"

	"golang.org/x/text/language"
)

// TextKey derives the canonical dedup key for a raw sentence: lower-cased,
// whitespace-trimmed. Must be recomputed from the raw text on every write.
func TextKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// LanguageTag canonicalizes a BCP-47 tag ("EN_us" -> "en-US"). Unparseable
// input falls back to the lower-trimmed raw value so records never lose
// their language on a bad tag.
func LanguageTag(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return tag.String()
}
