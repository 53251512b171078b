// File path: internal/document/clauses.go
package document

// Clause is a mandatory section a document type must contain. Markers and
// Anchors are matched case-insensitively against entity-decoded block text.
type Clause struct {
	Name string
	// Markers in any locale; one present means the clause already exists.
	Markers []string
	// Anchors mark the block the clause is inserted before. Without a match
	// the clause is appended.
	Anchors []string
	// Text holds the canonical clause per locale, one block per line.
	Text map[Locale]string
}

// Render returns the canonical text for locale, falling back to LocaleDefault.
func (c Clause) Render(locale Locale) string {
	if text, ok := c.Text[locale]; ok && text != "" {
		return text
	}
	return c.Text[LocaleDefault]
}

var valedictionMarkers = []string{
	"yours faithfully",
	"yours sincerely",
	"yours truly",
	"regards,",
	"thanking you",
	"भवदीय",
}

var verificationClause = Clause{
	Name:    "verification",
	Markers: []string{"verification", "सत्यापन"},
	Text: map[Locale]string{
		LocaleDefault: "VERIFICATION\n\n" +
			"Verified at ____________ on this ____ day of ____________ that the contents of the above affidavit " +
			"are true and correct to the best of my knowledge and belief and that nothing material has been concealed therefrom.\n\n" +
			"DEPONENT",
		LocaleRegional: "सत्यापन\n\n" +
			"मैं सत्यापित करता/करती हूँ कि इस शपथ पत्र की सामग्री मेरी जानकारी और विश्वास के अनुसार सत्य एवं सही है " +
			"तथा इसमें कुछ भी छिपाया नहीं गया है।\n\n" +
			"अभिसाक्षी",
	},
}

var declarationClause = Clause{
	Name:    "declaration",
	Markers: []string{"hereby declare", "घोषणा करता", "घोषणा करती"},
	Anchors: valedictionMarkers,
	Text: map[Locale]string{
		LocaleDefault: "DECLARATION\n\n" +
			"I hereby declare that the information furnished above is true, complete and correct to the best of my knowledge and belief.",
		LocaleRegional: "घोषणा\n\n" +
			"मैं घोषणा करता/करती हूँ कि ऊपर दी गई जानकारी मेरी जानकारी और विश्वास के अनुसार सत्य, पूर्ण एवं सही है।",
	},
}

func valedictionClause(closing string) Clause {
	return Clause{
		Name:    "valediction",
		Markers: valedictionMarkers,
		Text: map[Locale]string{
			LocaleDefault:  closing,
			LocaleRegional: "भवदीय,",
		},
	}
}

var executionClause = Clause{
	Name:    "execution",
	Markers: []string{"in witness whereof", "जिसके साक्ष्य में"},
	Text: map[Locale]string{
		LocaleDefault: "IN WITNESS WHEREOF, the parties hereto have executed this agreement on the date first written above.",
		LocaleRegional: "जिसके साक्ष्य में, दोनों पक्षों ने ऊपर लिखी तिथि को इस अनुबंध पर हस्ताक्षर किए हैं।",
	},
}

// DefaultClauses returns the mandatory clauses per document type, in the
// order they are enforced.
func DefaultClauses() map[DocumentType][]Clause {
	return map[DocumentType][]Clause{
		TypeAffidavit:   {verificationClause},
		TypeApplication: {declarationClause, valedictionClause("Yours faithfully,")},
		TypeLetter:      {valedictionClause("Yours sincerely,")},
		TypeContract:    {executionClause},
	}
}
