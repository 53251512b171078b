// File path: internal/extract/extract.go
package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	KeyFullName = "full_name"
	KeyAddress  = "address"

	maxNameWords = 4
)

var (
	introducedName  = regexp.MustCompile(`(?i)(?:my name is|i am|name:?)\s*([A-Za-z][A-Za-z \t]*)`)
	capitalisedName = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})\b`)
	addressPhrase   = regexp.MustCompile(`(?i)(?:address|live at|living at|residing at|resident of|from):?\s*([^.\n]+(?:\d{6}|\d{3}\s*\d{3})[^.\n]*)`)
)

// Words that end a name when it runs on into the rest of the sentence.
var connectors = map[string]bool{
	"and": true, "i": true, "from": true, "residing": true, "living": true,
	"live": true, "who": true, "son": true, "daughter": true, "wife": true,
	"aged": true, "age": true, "want": true, "need": true, "would": true,
	"am": true, "is": true, "at": true, "of": true, "in": true, "to": true,
	"my": true, "the": true, "a": true, "an": true, "for": true, "with": true,
}

// Fields pulls best-effort request details out of free text. Keys are only
// present when a value was found.
func Fields(text string) map[string]string {
	fields := make(map[string]string)
	if name := FullName(text); name != "" {
		fields[KeyFullName] = name
	}
	if address := Address(text); address != "" {
		fields[KeyAddress] = address
	}
	return fields
}

// FullName returns a name of at least two words or "".
func FullName(text string) string {
	for _, match := range introducedName.FindAllStringSubmatch(text, -1) {
		if name := trimName(match[1]); name != "" {
			return name
		}
	}
	for _, match := range capitalisedName.FindAllStringSubmatch(text, -1) {
		if name := trimName(match[1]); name != "" {
			return name
		}
	}
	return ""
}

// Address returns the phrase following an address cue when it carries a
// six digit PIN, or "".
func Address(text string) string {
	match := addressPhrase.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(match[1]), ",;")
}

func trimName(raw string) string {
	words := strings.Fields(raw)
	out := make([]string, 0, maxNameWords)
	for i, word := range words {
		if connectors[strings.ToLower(word)] {
			break
		}
		if i > 0 && startsUpper(words[0]) && !startsUpper(word) {
			break
		}
		out = append(out, word)
		if len(out) == maxNameWords {
			break
		}
	}
	if len(out) < 2 {
		return ""
	}
	return strings.Join(out, " ")
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
