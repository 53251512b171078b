// File path: internal/document/classify.go
package document

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Spacing, in points, requested after each kind of block.
const (
	SpacingBlank   = 4.0
	SpacingHeading = 10.0
	SpacingBody    = 8.0
	SpacingClosing = 2 * SpacingBody

	headingMaxRunes = 60
)

// Rule maps lines matching Match onto Kind. Match receives the trimmed,
// entity-decoded line.
type Rule struct {
	Name  string
	Match func(line string) bool
	Kind  BlockKind
}

var structuralKeywords = []string{
	"to,",
	"subject:",
	"sub:",
	"ref:",
	"dear ",
	"respected ",
	"whereas",
	"now, therefore",
	"now therefore",
	"verification",
	"declaration",
	"in witness whereof",
	"affidavit",
	"सत्यापन",
	"घोषणा",
	"विषय:",
}

var closingPhrases = []string{
	"yours faithfully",
	"yours sincerely",
	"yours truly",
	"thanking you",
	"regards",
	"भवदीय",
	"धन्यवाद",
}

// DefaultRules is the ordered heading rule set. The heading rules never
// disagree on kind, so their order only decides how early a line stops being
// tested.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "blank", Match: func(line string) bool { return line == "" }, Kind: KindBlank},
		{Name: "upper-case", Match: isShortUpper, Kind: KindHeading},
		{Name: "ordinal", Match: hasOrdinalMarker, Kind: KindHeading},
		{Name: "keyword", Match: hasStructuralKeyword, Kind: KindHeading},
	}
}

// Classifier assigns a BlockKind to every line of normalized text.
type Classifier struct {
	rules []Rule
}

// ClassifierOption customises a Classifier.
type ClassifierOption func(*Classifier)

// WithRules appends rules after the defaults. Lines matching none fall back to body.
func WithRules(rules ...Rule) ClassifierOption {
	return func(c *Classifier) {
		c.rules = append(c.rules, rules...)
	}
}

// NewClassifier builds a classifier over DefaultRules plus any extra rules.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{rules: DefaultRules()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Classify splits text on line boundaries and classifies each line on its own.
func (c *Classifier) Classify(normalized string) []ClassifiedBlock {
	lines := strings.Split(normalized, "\n")
	blocks := make([]ClassifiedBlock, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, c.ClassifyLine(line))
	}
	return blocks
}

// ClassifyLine classifies a single line; the first matching rule wins.
func (c *Classifier) ClassifyLine(line string) ClassifiedBlock {
	trimmed := strings.TrimSpace(line)
	plain := decodeMarkup(trimmed)
	for _, rule := range c.rules {
		if rule.Match == nil || !rule.Match(plain) {
			continue
		}
		return ClassifiedBlock{Kind: rule.Kind, Text: trimmed, SpacingAfter: spacingFor(rule.Kind, plain)}
	}
	return ClassifiedBlock{Kind: KindBody, Text: trimmed, SpacingAfter: spacingFor(KindBody, plain)}
}

func spacingFor(kind BlockKind, plain string) float64 {
	switch kind {
	case KindBlank:
		return SpacingBlank
	case KindHeading:
		return SpacingHeading
	case KindBody:
		if containsClosingPhrase(plain) {
			return SpacingClosing
		}
		return SpacingBody
	default:
		return SpacingBody
	}
}

func isShortUpper(line string) bool {
	if utf8.RuneCountInString(line) >= headingMaxRunes {
		return false
	}
	upper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			upper = true
		}
	}
	return upper
}

func hasOrdinalMarker(line string) bool {
	return len(line) >= 2 && line[0] >= '1' && line[0] <= '9' && line[1] == '.'
}

func hasStructuralKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, keyword := range structuralKeywords {
		if strings.HasPrefix(lower, keyword) {
			return true
		}
	}
	return false
}

func containsClosingPhrase(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range closingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
