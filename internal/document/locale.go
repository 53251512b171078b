// File path: internal/document/locale.go
package document

import "unicode"

// DefaultScriptThreshold is the number of script runes a text may contain
// and still be treated as LocaleDefault.
const DefaultScriptThreshold = 10

// LocaleDetector decides which locale a text is written in.
type LocaleDetector interface {
	DetectLocale(text string) Locale
}

// ScriptCounter reports LocaleRegional once more than Threshold runes fall in
// Table.
type ScriptCounter struct {
	Table     *unicode.RangeTable
	Threshold int
}

// DevanagariBlock is the U+0900–U+097F code block.
var DevanagariBlock = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097F, Stride: 1}},
}

// NewScriptCounter counts Devanagari block runes with the default threshold.
func NewScriptCounter() ScriptCounter {
	return ScriptCounter{Table: DevanagariBlock, Threshold: DefaultScriptThreshold}
}

func (s ScriptCounter) DetectLocale(text string) Locale {
	table := s.Table
	if table == nil {
		table = DevanagariBlock
	}
	count := 0
	for _, r := range text {
		if !unicode.Is(table, r) {
			continue
		}
		count++
		if count > s.Threshold {
			return LocaleRegional
		}
	}
	return LocaleDefault
}

// LocaleFunc adapts a function to LocaleDetector.
type LocaleFunc func(text string) Locale

func (f LocaleFunc) DetectLocale(text string) Locale {
	return f(text)
}
