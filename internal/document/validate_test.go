// File path: internal/document/validate_test.go
package document

import (
	"strings"
	"testing"
)

const sampleAffidavit = `AFFIDAVIT

I, John Doe, s/o Robert Doe, r/o 12 Park Street, New Delhi 110001, do hereby solemnly affirm and state as under:

1. That I am a citizen of India.
2. That the facts stated herein are true.`

func TestValidateAppendsVerificationOnce(t *testing.T) {
	validator := NewValidator()
	out := validator.Validate(sampleAffidavit, TypeAffidavit)
	if strings.Count(out, "DEPONENT") != 1 {
		t.Fatalf("expected exactly one DEPONENT line, got:\n%s", out)
	}
	if strings.Count(out, "VERIFICATION") != 1 {
		t.Fatalf("expected exactly one VERIFICATION heading, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "DEPONENT") {
		t.Fatalf("verification should close the document, got:\n%s", out)
	}
	if strings.Index(out, "2. That the facts") > strings.Index(out, "VERIFICATION") {
		t.Fatalf("verification inserted before body content:\n%s", out)
	}
}

func TestValidateKeepsExistingVerification(t *testing.T) {
	text := "I state the truth.\n\nVerification\n\nVerified at Delhi.\n\nDEPONENT"
	out := NewValidator().Validate(text, TypeAffidavit)
	if out != text {
		t.Fatalf("existing verification should be left alone:\n%s", out)
	}
}

func TestValidateRegionalVerification(t *testing.T) {
	text := "शपथ पत्र\n\nमैं, राम, पुत्र श्री मोहन, निवासी दिल्ली, शपथपूर्वक कथन करता हूँ।"
	out := NewValidator().Validate(text, TypeAffidavit)
	if !strings.Contains(out, "सत्यापन") {
		t.Fatalf("expected regional verification clause, got:\n%s", out)
	}
	if strings.Contains(out, "VERIFICATION") {
		t.Fatalf("default clause used for regional text:\n%s", out)
	}
}

func TestValidateAbbreviationsOnlyForDefaultLocale(t *testing.T) {
	validator := NewValidator()
	if got := validator.Validate("I, Ravi s/o Mohan", TypeGeneral); got != "I, Ravi son of Mohan" {
		t.Fatalf("default locale expansion: got %q", got)
	}
	if got := validator.Validate("RAVI S/O MOHAN", TypeGeneral); got != "RAVI SON OF MOHAN" {
		t.Fatalf("upper-case expansion: got %q", got)
	}
	if got := validator.Validate("Priya D/o Sharma, c/o Rao", TypeGeneral); got != "Priya daughter of Sharma, care of Rao" {
		t.Fatalf("mixed-case expansion: got %q", got)
	}
	regional := "मैं, राम, पुत्र श्री मोहन, निवासी दिल्ली\nRavi s/o Mohan"
	out := validator.Validate(regional, TypeGeneral)
	if !strings.Contains(out, "Ravi s/o Mohan") {
		t.Fatalf("regional text must keep shorthand, got:\n%s", out)
	}
}

func TestValidateFormattingRules(t *testing.T) {
	validator := NewValidator()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "postal separator", in: "New Delhi 110001", want: "New Delhi - 110001"},
		{name: "postal already separated", in: "New Delhi - 110001", want: "New Delhi - 110001"},
		{name: "postal hyphenated", in: "Delhi-110001", want: "Delhi-110001"},
		{name: "phone untouched", in: "Phone 9876543210", want: "Phone 9876543210"},
		{name: "emphasis", in: "**Important** *note*", want: "Important note"},
		{name: "markdown heading", in: "## Terms of service", want: "Terms of service"},
		{name: "blank runs", in: "one\n\n\n\ntwo", want: "one\n\ntwo"},
		{name: "signature blanks kept", in: "________ Date: ________", want: "________ Date: ________"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validator.Validate(tc.in, TypeGeneral); got != tc.want {
				t.Fatalf("Validate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateApplicationDeclarationPrecedesValediction(t *testing.T) {
	text := "To,\nThe Principal\n\nSubject: Leave\n\nI request leave for two days.\n\nYours faithfully,\nRavi"
	out := NewValidator().Validate(text, TypeApplication)
	declaration := strings.Index(out, "I hereby declare")
	closing := strings.Index(out, "Yours faithfully,")
	if declaration < 0 || closing < 0 {
		t.Fatalf("missing declaration or valediction:\n%s", out)
	}
	if declaration > closing {
		t.Fatalf("declaration must precede the valediction:\n%s", out)
	}
	if strings.Count(out, "Yours faithfully,") != 1 {
		t.Fatalf("valediction duplicated:\n%s", out)
	}
	if !strings.HasSuffix(out, "Ravi") {
		t.Fatalf("signature name should stay last:\n%s", out)
	}
}

func TestValidateApplicationWithoutValediction(t *testing.T) {
	out := NewValidator().Validate("I request a transfer certificate.", TypeApplication)
	declaration := strings.Index(out, "DECLARATION")
	closing := strings.Index(out, "Yours faithfully,")
	if declaration < 0 || closing < declaration {
		t.Fatalf("expected declaration then valediction:\n%s", out)
	}
}

func TestValidateLetterAndContractClauses(t *testing.T) {
	validator := NewValidator()
	letter := validator.Validate("Dear Ms. Rao,\n\nThank you for the meeting.", TypeLetter)
	if !strings.HasSuffix(letter, "Yours sincerely,") {
		t.Fatalf("letter should close with valediction:\n%s", letter)
	}
	signed := validator.Validate("Dear Ms. Rao,\n\nThanks.\n\nWarm regards,\nAnu", TypeLetter)
	if strings.Contains(signed, "Yours sincerely,") {
		t.Fatalf("letter with a valediction should not get another:\n%s", signed)
	}
	contract := validator.Validate("This agreement is made between A and B.", TypeContract)
	if !strings.Contains(contract, "IN WITNESS WHEREOF") {
		t.Fatalf("contract should carry execution clause:\n%s", contract)
	}
}

func TestValidateUntouchedTypes(t *testing.T) {
	validator := NewValidator()
	for _, docType := range []DocumentType{TypeCertificate, TypeCustom, TypeGeneral} {
		if got := validator.Validate("Plain line of text.", docType); got != "Plain line of text." {
			t.Fatalf("%s: unexpected rewrite %q", docType, got)
		}
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	validator := NewValidator()
	normalizer := NewNormalizer()
	corpus := []string{
		sampleAffidavit,
		"To,\nThe Principal\n\nI request leave.\n\nYours faithfully,\nRavi",
		"**Bold** and # not heading\n## Heading\nRavi S/O Mohan, Pune 411001",
		"मैं, राम, पुत्र श्री मोहन, निवासी दिल्ली\nRavi s/o Mohan",
		"",
		"TERMS &amp; CONDITIONS\n\n\n1. Payment within 30 days.",
		"____x____ and ***",
	}
	for _, docType := range DocumentTypes() {
		for _, input := range corpus {
			normalized := normalizer.Normalize(input)
			once := validator.Validate(normalized, docType)
			twice := validator.Validate(once, docType)
			if once != twice {
				t.Fatalf("%s: Validate not idempotent for %q:\nonce:\n%s\ntwice:\n%s", docType, input, once, twice)
			}
		}
	}
}

func TestValidateBlocksReclassifiesRewrittenLines(t *testing.T) {
	validator := NewValidator()
	blocks := NewClassifier().Classify("## notice")
	out, locale := validator.ValidateBlocks(blocks, TypeGeneral)
	if locale != LocaleDefault {
		t.Fatalf("expected default locale, got %v", locale)
	}
	if len(out) != 1 || out[0].Text != "notice" || out[0].Kind != KindBody {
		t.Fatalf("unexpected blocks: %#v", out)
	}
}

func TestWithClausesOverridesDefaults(t *testing.T) {
	validator := NewValidator(WithClauses(TypeCertificate, Clause{
		Name:    "seal",
		Markers: []string{"seal"},
		Text:    map[Locale]string{LocaleDefault: "SEAL OF THE ISSUING AUTHORITY"},
	}))
	out := validator.Validate("This certifies completion.", TypeCertificate)
	if !strings.HasSuffix(out, "SEAL OF THE ISSUING AUTHORITY") {
		t.Fatalf("custom clause missing:\n%s", out)
	}
}
