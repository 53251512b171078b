// File path: internal/document/normalize_test.go
package document

import "testing"

var normalizeCorpus = []string{
	"Normal text content",
	"Text with <b>HTML</b> tags",
	"Text with &amp; entities &lt;test&gt;",
	"Text with\n\n\nmultiple\n\n\nline breaks",
	"Text with    extra    spaces",
	"a &amp;amp; b",
	"Tom&#39;s &quot;deal&quot; &nbsp; here",
	"x < y > z & w",
	"<script>alert(1)</script>visible",
	"\r\n\r\nLeading blank lines\r\n\r\n\r\ntrailing\r\n\r\n",
	"शपथ पत्र\n\n\n\nमैं, राम, पुत्र श्री मोहन",
	"e\u0301 composed",
	"\t\tindented line\n   \n\t\n next",
	"AFFIDAVIT\n\nI, JOHN DOE, son of ROBERT DOE, resident of New Delhi - 110001",
}

func TestNormalizeCases(t *testing.T) {
	normalizer := NewNormalizer()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Normal text content", want: "Normal text content"},
		{name: "tags stripped", in: "Text with <b>HTML</b> tags", want: "Text with HTML tags"},
		{name: "entities round trip", in: "Text with &amp; entities &lt;test&gt;", want: "Text with &amp; entities &lt;test&gt;"},
		{name: "bare ampersand escaped", in: "Salt & pepper", want: "Salt &amp; pepper"},
		{name: "quotes decoded", in: "Tom&#39;s &quot;deal&quot;", want: `Tom's "deal"`},
		{name: "nbsp collapsed", in: "a&nbsp;&nbsp; b", want: "a b"},
		{name: "spaces collapsed", in: "Text with    extra    spaces", want: "Text with extra spaces"},
		{name: "blank lines collapsed", in: "Text with\n\n\nmultiple\n\n\nline breaks", want: "Text with\n\nmultiple\n\nline breaks"},
		{name: "crlf", in: "one\r\ntwo\r\n\r\n\r\nthree", want: "one\ntwo\n\nthree"},
		{name: "outer blank lines trimmed", in: "\n\n  body  \n\n", want: "body"},
		{name: "nfc", in: "e\u0301", want: "\u00e9"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: " \t\n\n ", want: ""},
		{name: "markup only", in: "<p> </p><br/>", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizer.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	normalizer := NewNormalizer()
	for _, input := range normalizeCorpus {
		once := normalizer.Normalize(input)
		twice := normalizer.Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q:\nonce:  %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNormalizeCollapsesDoubleBlankBeforeClassification(t *testing.T) {
	normalizer := NewNormalizer()
	classifier := NewClassifier()
	blocks := classifier.Classify(normalizer.Normalize("FIRST LINE\n\n\nSECOND LINE"))
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %#v", len(blocks), blocks)
	}
	if blocks[1].Kind != KindBlank {
		t.Fatalf("expected single blank separator, got %v", blocks[1].Kind)
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	for _, seed := range normalizeCorpus {
		f.Add(seed)
	}
	normalizer := NewNormalizer()
	f.Fuzz(func(t *testing.T, input string) {
		once := normalizer.Normalize(input)
		if twice := normalizer.Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, twice, once)
		}
	})
}
