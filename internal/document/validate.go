// File path: internal/document/validate.go
package document

import (
	"regexp"
	"strings"
)

type abbreviation struct {
	pattern   *regexp.Regexp
	expansion string
}

// Relationship shorthand used in Default-locale documents.
var abbreviations = []abbreviation{
	{pattern: regexp.MustCompile(`(?i)\bs/o\b`), expansion: "son of"},
	{pattern: regexp.MustCompile(`(?i)\bd/o\b`), expansion: "daughter of"},
	{pattern: regexp.MustCompile(`(?i)\bw/o\b`), expansion: "wife of"},
	{pattern: regexp.MustCompile(`(?i)\br/o\b`), expansion: "resident of"},
	{pattern: regexp.MustCompile(`(?i)\bc/o\b`), expansion: "care of"},
}

var (
	barePostalCode = regexp.MustCompile(`([\p{L}\p{M}])[ \t]+(\d{6})\b`)
	headingMarkers = regexp.MustCompile(`^(#{1,6}[ \t]+)+`)
)

// Validator enforces per-type mandatory clauses and canonical formatting.
// It never fails: a rule that does not apply is skipped.
type Validator struct {
	detector   LocaleDetector
	classifier *Classifier
	clauses    map[DocumentType][]Clause
}

// ValidatorOption customises a Validator.
type ValidatorOption func(*Validator)

// WithLocaleDetector replaces the script counting detector.
func WithLocaleDetector(detector LocaleDetector) ValidatorOption {
	return func(v *Validator) {
		if detector != nil {
			v.detector = detector
		}
	}
}

// WithClassifier sets the classifier used for rewritten and injected lines.
func WithClassifier(classifier *Classifier) ValidatorOption {
	return func(v *Validator) {
		if classifier != nil {
			v.classifier = classifier
		}
	}
}

// WithClauses replaces the mandatory clauses of one document type.
func WithClauses(docType DocumentType, clauses ...Clause) ValidatorOption {
	return func(v *Validator) {
		v.clauses[docType] = append([]Clause(nil), clauses...)
	}
}

// NewValidator returns a Validator with the default detector and clause set.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		detector:   NewScriptCounter(),
		classifier: NewClassifier(),
		clauses:    DefaultClauses(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// DetectLocale reports the locale of text using the configured detector.
func (v *Validator) DetectLocale(text string) Locale {
	return v.detector.DetectLocale(text)
}

// Validate is the string form of ValidateBlocks: text is split into lines,
// validated and joined back. Validate(Validate(x, t), t) == Validate(x, t).
func (v *Validator) Validate(text string, docType DocumentType) string {
	blocks, _ := v.ValidateBlocks(v.classifier.Classify(text), docType)
	return JoinBlocks(blocks)
}

// ValidateBlocks rewrites block text for the detected locale, collapses
// repeated blank blocks and inserts any missing mandatory clause.
func (v *Validator) ValidateBlocks(blocks []ClassifiedBlock, docType DocumentType) ([]ClassifiedBlock, Locale) {
	locale := v.detector.DetectLocale(JoinBlocks(blocks))
	out := make([]ClassifiedBlock, 0, len(blocks)+8)
	for _, block := range blocks {
		if block.Kind != KindBlank {
			if text := rewriteText(block.Text, locale); text != block.Text {
				block = v.classifier.ClassifyLine(text)
			}
		}
		if block.Kind == KindBlank && len(out) > 0 && out[len(out)-1].Kind == KindBlank {
			continue
		}
		out = append(out, block)
	}
	for _, clause := range v.clauses[docType] {
		out = v.ensureClause(out, clause, locale)
	}
	return out, locale
}

func (v *Validator) ensureClause(blocks []ClassifiedBlock, clause Clause, locale Locale) []ClassifiedBlock {
	if indexOfPhrase(blocks, clause.Markers) >= 0 {
		return blocks
	}
	canonical := clause.Render(locale)
	if strings.TrimSpace(canonical) == "" {
		return blocks
	}
	inserted := v.classifier.Classify(markupEscaper.Replace(canonical))
	if at := indexOfPhrase(blocks, clause.Anchors); at >= 0 {
		out := make([]ClassifiedBlock, 0, len(blocks)+len(inserted)+1)
		out = append(out, blocks[:at]...)
		out = append(out, inserted...)
		out = append(out, v.classifier.ClassifyLine(""))
		return append(out, blocks[at:]...)
	}
	if len(blocks) > 0 && blocks[len(blocks)-1].Kind != KindBlank {
		blocks = append(blocks, v.classifier.ClassifyLine(""))
	}
	return append(blocks, inserted...)
}

func indexOfPhrase(blocks []ClassifiedBlock, phrases []string) int {
	if len(phrases) == 0 {
		return -1
	}
	for i, block := range blocks {
		if block.Kind == KindBlank {
			continue
		}
		lower := strings.ToLower(decodeMarkup(block.Text))
		for _, phrase := range phrases {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				return i
			}
		}
	}
	return -1
}

// rewriteText applies the formatting rules to one line. Relationship
// shorthand is only expanded for LocaleDefault. Each step only produces text
// the earlier steps leave untouched.
func rewriteText(text string, locale Locale) string {
	text = strings.ReplaceAll(text, "*", "")
	text = collapseSpaces(text)
	text = headingMarkers.ReplaceAllString(text, "")
	if locale == LocaleDefault {
		for _, abbr := range abbreviations {
			text = abbr.pattern.ReplaceAllStringFunc(text, func(match string) string {
				if strings.ToUpper(match) == match {
					return strings.ToUpper(abbr.expansion)
				}
				return abbr.expansion
			})
		}
	}
	return barePostalCode.ReplaceAllString(text, "$1 - $2")
}

// JoinBlocks joins block text with newlines.
func JoinBlocks(blocks []ClassifiedBlock) string {
	lines := make([]string, len(blocks))
	for i, block := range blocks {
		lines[i] = block.Text
	}
	return strings.Join(lines, "\n")
}
