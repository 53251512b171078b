// File path: internal/document/classify_test.go
package document

import (
	"strings"
	"testing"
)

func TestClassifyLineKinds(t *testing.T) {
	classifier := NewClassifier()
	cases := []struct {
		line    string
		kind    BlockKind
		spacing float64
	}{
		{line: "MY NAME IS JOHN", kind: KindHeading, spacing: SpacingHeading},
		{line: "", kind: KindBlank, spacing: SpacingBlank},
		{line: "   ", kind: KindBlank, spacing: SpacingBlank},
		{line: "1. That I am a citizen of India.", kind: KindHeading, spacing: SpacingHeading},
		{line: "10. items follow here", kind: KindBody, spacing: SpacingBody},
		{line: "To,", kind: KindHeading, spacing: SpacingHeading},
		{line: "Subject: Leave application", kind: KindHeading, spacing: SpacingHeading},
		{line: "Dear Sir,", kind: KindHeading, spacing: SpacingHeading},
		{line: "WHEREAS the parties agree", kind: KindHeading, spacing: SpacingHeading},
		{line: "विषय: अवकाश हेतु", kind: KindHeading, spacing: SpacingHeading},
		{line: "TERMS &amp; CONDITIONS", kind: KindHeading, spacing: SpacingHeading},
		{line: "I am writing to request leave.", kind: KindBody, spacing: SpacingBody},
		{line: "Yours faithfully,", kind: KindBody, spacing: SpacingClosing},
		{line: "With warm regards", kind: KindBody, spacing: SpacingClosing},
		{line: "1234", kind: KindBody, spacing: SpacingBody},
		{line: strings.Repeat("A", headingMaxRunes), kind: KindBody, spacing: SpacingBody},
		{line: strings.Repeat("A", headingMaxRunes-1), kind: KindHeading, spacing: SpacingHeading},
	}
	for _, tc := range cases {
		got := classifier.ClassifyLine(tc.line)
		if got.Kind != tc.kind {
			t.Errorf("ClassifyLine(%q).Kind = %v, want %v", tc.line, got.Kind, tc.kind)
		}
		if got.SpacingAfter != tc.spacing {
			t.Errorf("ClassifyLine(%q).SpacingAfter = %v, want %v", tc.line, got.SpacingAfter, tc.spacing)
		}
	}
}

func TestClassifyShortUpperLineIsSingleHeading(t *testing.T) {
	blocks := NewClassifier().Classify("MY NAME IS JOHN")
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	if blocks[0].Kind != KindHeading || blocks[0].Text != "MY NAME IS JOHN" {
		t.Fatalf("unexpected block: %#v", blocks[0])
	}
}

func TestClassifyCoversEveryLine(t *testing.T) {
	text := "AFFIDAVIT\n\nI, John Doe, state as follows:\n1. That I reside in Delhi.\n\nDEPONENT"
	blocks := NewClassifier().Classify(text)
	lines := strings.Split(text, "\n")
	if len(blocks) != len(lines) {
		t.Fatalf("expected %d blocks, got %d", len(lines), len(blocks))
	}
	for i, block := range blocks {
		if block.Text != lines[i] {
			t.Fatalf("block %d text %q, want %q", i, block.Text, lines[i])
		}
	}
}

func TestClassifyIsIndependentOfLineOrder(t *testing.T) {
	classifier := NewClassifier()
	lines := []string{"NOTICE", "Dear Sir,", "The office is closed.", "", "2. Second item", "Yours sincerely,"}
	forward := classifier.Classify(strings.Join(lines, "\n"))
	reversed := make([]string, len(lines))
	for i := range lines {
		reversed[len(lines)-1-i] = lines[i]
	}
	backward := classifier.Classify(strings.Join(reversed, "\n"))
	for i := range forward {
		if forward[i] != backward[len(lines)-1-i] {
			t.Fatalf("line %q classified differently by position: %#v vs %#v", lines[i], forward[i], backward[len(lines)-1-i])
		}
	}
}

func TestClassifyHeadingRuleOrderDoesNotChangeKind(t *testing.T) {
	defaults := DefaultRules()
	reordered := &Classifier{rules: []Rule{defaults[0], defaults[3], defaults[2], defaults[1]}}
	standard := NewClassifier()
	for _, line := range []string{"1. WHEREAS", "AFFIDAVIT", "Subject: x", "2. item", "plain words", "VERIFICATION"} {
		if a, b := standard.ClassifyLine(line), reordered.ClassifyLine(line); a != b {
			t.Fatalf("rule order changed result for %q: %#v vs %#v", line, a, b)
		}
	}
}

func TestWithRulesAddsCustomRule(t *testing.T) {
	classifier := NewClassifier(WithRules(Rule{
		Name:  "signature",
		Match: func(line string) bool { return strings.HasPrefix(line, "Signed:") },
		Kind:  KindSignatureMarker,
	}))
	block := classifier.ClassifyLine("Signed: J. Doe")
	if block.Kind != KindSignatureMarker {
		t.Fatalf("expected signature marker, got %v", block.Kind)
	}
	if block.SpacingAfter != SpacingBody {
		t.Fatalf("expected body spacing for custom kind, got %v", block.SpacingAfter)
	}
}
