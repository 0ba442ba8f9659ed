package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute
var strict = bluemonday.StrictPolicy()

var whitespace = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// maxDecodeRounds bounds how many layers of entity encoding are peeled.
const maxDecodeRounds = 4

// SanitizeText turns untrusted backend text into plain terminal text.
// Markup is stripped, entities are decoded, and the two repeat until the
// text is stable, so encoded markup such as "&lt;b&gt;" is stripped too.
// Terminal escape sequences and other non-printable runes are removed;
// tabs and newlines become spaces.
func SanitizeText(s string) string {
	if isPlain(s) {
		return s
	}
	s = ansi.Strip(whitespace.Replace(s))
	for range maxDecodeRounds {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return strings.Map(printable, ansi.Strip(whitespace.Replace(s)))
}

func isPlain(s string) bool {
	for _, r := range s {
		if r == '<' || r == '>' || r == '&' || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func printable(r rune) rune {
	if !unicode.IsPrint(r) {
		return -1
	}
	return r
}

// SanitizeAll applies SanitizeText to every value of m in place.
func SanitizeAll(m map[string]string) {
	for k, v := range m {
		m[k] = SanitizeText(v)
	}
}
