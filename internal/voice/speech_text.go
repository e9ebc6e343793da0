package voice

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	speechURLPattern          = regexp.MustCompile(`https?://\S+`)
	speechFencedCodePattern   = regexp.MustCompile("(?s)```.*?```")
	speechInlineCodePattern   = regexp.MustCompile("`[^`]*`")
	speechMarkdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// SanitizeSpeechText removes markup/symbol noise from model text so TTS sounds conversational.
func SanitizeSpeechText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	raw = speechFencedCodePattern.ReplaceAllString(raw, " ")
	raw = speechInlineCodePattern.ReplaceAllString(raw, " ")
	raw = speechMarkdownLinkPattern.ReplaceAllString(raw, "$1")
	raw = speechURLPattern.ReplaceAllString(raw, " ")

	raw = strings.NewReplacer(
		"*", " ",
		"_", " ",
		"\\", " ",
		"/", " ",
		"|", " ",
		"#", " ",
		"~", " ",
		"<", " ",
		">", " ",
	).Replace(raw)

	var b strings.Builder
	b.Grow(len(raw))
	prevSpace := true

	for _, r := range raw {
		switch {
		case r == '\u200d' || r == '\ufe0f' || r == '\u20e3':
			continue
		case r == '\n' || r == '\r' || r == '\t' || unicode.IsSpace(r):
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsControl(r):
			continue
		case unicode.In(r, unicode.So, unicode.Sm, unicode.Sk):
			// Drops emoji and symbol-heavy glyphs that sound unnatural when spoken.
			continue
		case isSpeechSafePunctuation(r):
			b.WriteRune(r)
			prevSpace = false
		case unicode.IsPunct(r):
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

func isSpeechSafePunctuation(r rune) bool {
	switch r {
	case '.', ',', '!', '?', ':', ';', '\'', '"', '-', '(', ')':
		return true
	default:
		return false
	}
}

// BridgeSpeechDelta restores the inter-word space that sanitizing a streamed
// delta can strip at its boundary. alreadySent reports whether earlier speech
// text was already forwarded for this turn.
func BridgeSpeechDelta(rawDelta, sanitized string, alreadySent bool) string {
	if sanitized == "" || !alreadySent {
		return sanitized
	}
	if rawDelta == "" {
		return sanitized
	}
	lead, _ := utf8.DecodeRuneInString(rawDelta)
	if !unicode.IsSpace(lead) {
		return sanitized
	}
	first, _ := utf8.DecodeRuneInString(sanitized)
	if unicode.IsPunct(first) {
		return sanitized
	}
	return " " + sanitized
}

// SplitSpeechChunks breaks text at sentence boundaries so synthesis can start
// before the whole reply is forwarded. Whitespace after a boundary stays with
// the following chunk.
func SplitSpeechChunks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var chunks []string
	start := 0
	boundary := false
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			boundary = true
			continue
		}
		if boundary {
			chunks = append(chunks, text[start:i])
			start = i
			boundary = false
		}
	}
	chunks = append(chunks, text[start:])
	return chunks
}
