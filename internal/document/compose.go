// File path: internal/document/compose.go
package document

import (
	"strings"
	"time"
)

const (
	SpacingTitle = 20.0
	SpacingDate  = 20.0

	signatureRule  = "______________________________"
	signatureLabel = "Signature & Date"
	dateLayout     = "02/01/2006"
)

// DateLabel formats t the way the date header prints it.
func DateLabel(t time.Time) string {
	return t.Format(dateLayout)
}

// Composer wraps classified blocks in the title/date header and the
// signature footer.
type Composer struct{}

// NewComposer returns a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose keeps the classified blocks in order and never drops any; the
// result always holds len(blocks)+4 blocks.
func (c *Composer) Compose(blocks []ClassifiedBlock, title, dateLabel string) RenderedDocument {
	out := make([]LayoutBlock, 0, len(blocks)+4)
	out = append(out,
		LayoutBlock{
			ClassifiedBlock: ClassifiedBlock{Kind: KindHeading, Text: markupEscaper.Replace(strings.ToUpper(strings.TrimSpace(title))), SpacingAfter: SpacingTitle},
			Role:            RoleTitle,
			Align:           AlignCenter,
		},
		LayoutBlock{
			ClassifiedBlock: ClassifiedBlock{Kind: KindBody, Text: "Date: " + markupEscaper.Replace(strings.TrimSpace(dateLabel)), SpacingAfter: SpacingDate},
			Role:            RoleDate,
			Align:           AlignLeft,
		},
	)
	for _, block := range blocks {
		out = append(out, LayoutBlock{ClassifiedBlock: block, Role: RoleContent, Align: AlignLeft})
	}
	out = append(out,
		LayoutBlock{
			ClassifiedBlock: ClassifiedBlock{Kind: KindSignatureMarker, Text: signatureRule, SpacingAfter: SpacingBlank},
			Role:            RoleSignatureRule,
			Align:           AlignRight,
		},
		LayoutBlock{
			ClassifiedBlock: ClassifiedBlock{Kind: KindSignatureMarker, Text: markupEscaper.Replace(signatureLabel), SpacingAfter: 0},
			Role:            RoleSignatureLabel,
			Align:           AlignRight,
		},
	)
	return RenderedDocument{Title: strings.TrimSpace(title), Blocks: out}
}

// Gap returns the vertical space between blocks[i] and the block after it.
// The earlier block's request always wins.
func (d RenderedDocument) Gap(i int) float64 {
	if i < 0 || i >= len(d.Blocks)-1 {
		return 0
	}
	return d.Blocks[i].SpacingAfter
}
