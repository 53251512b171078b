// File path: internal/document/normalize.go
package document

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes generated prose before classification.
type Normalizer struct {
	policy *bluemonday.Policy
}

// NewNormalizer returns a Normalizer that strips every markup tag.
func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Normalize strips markup, decodes entities, collapses whitespace and blank
// lines, then escapes '&', '<' and '>'. An empty result means the input held
// nothing renderable. Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	policy := n.policy
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}
	// The policy re-escapes text nodes, so a single unescape afterwards
	// decodes each entity exactly once.
	stripped := html.UnescapeString(policy.Sanitize(text))
	stripped = strings.ReplaceAll(stripped, "\r\n", "\n")
	stripped = strings.ReplaceAll(stripped, "\r", "\n")
	stripped = norm.NFC.String(stripped)

	collapsed := collapseLines(stripped)
	if collapsed == "" {
		return ""
	}
	return markupEscaper.Replace(collapsed)
}

// collapseLines squeezes horizontal whitespace, trims every line and keeps at
// most one blank line between content lines.
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = collapseSpaces(line)
		if line == "" {
			if blank || len(out) == 0 {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false
	for _, r := range line {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// decodeMarkup reverses the escaping applied by Normalize.
func decodeMarkup(text string) string {
	return html.UnescapeString(text)
}
