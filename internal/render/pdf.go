// File path: internal/render/pdf.go
package render

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/common/telemetry"
	"github.com/nicodishanthj/docgen/internal/document"
)

const (
	pageMargin = 72.0

	titleSize     = 18.0
	titleLeading  = 22.0
	bodySize      = 11.0
	bodyLeading   = 16.0
	signatureSize = 10.0
	signatureLead = 14.0
	footerSize    = 9.0

	coreFamily    = "Helvetica"
	unicodeFamily = "DocgenUnicode"
)

// PDF paints a RenderedDocument onto A4 pages. It is safe for concurrent use:
// every Render call builds its own fpdf instance.
type PDF struct {
	cfg   Config
	font  []byte
	newID func() uuid.UUID
	now   func() time.Time
}

// New prepares the output directory and loads the optional UTF-8 font.
func New(cfg Config) (*PDF, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	r := &PDF{cfg: cfg, newID: uuid.New, now: time.Now}
	if path := strings.TrimSpace(cfg.FontPath); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read unicode font: %w", err)
		}
		r.font = data
		common.Logger().Info("render: unicode font loaded", "path", path, "bytes", len(data))
	}
	return r, nil
}

// OutputDir is the directory artifacts are written to.
func (r *PDF) OutputDir() string {
	return r.cfg.OutputDir
}

// Render writes doc to <type>_<8 hex>.pdf in the output directory. The file
// only appears under its final name once it is complete.
func (r *PDF) Render(doc document.RenderedDocument) (document.Artifact, error) {
	start := time.Now()
	docType := doc.DocumentType
	if docType == "" {
		docType = document.TypeGeneral
	}
	id := r.newID()
	filename := fmt.Sprintf("%s_%s.pdf", docType, strings.ReplaceAll(id.String(), "-", "")[:8])
	final := filepath.Join(r.cfg.OutputDir, filename)

	pdf := r.paint(doc)
	if err := pdf.Error(); err != nil {
		telemetry.RecordRenderFailure("layout")
		return document.Artifact{}, fmt.Errorf("layout pdf: %w", err)
	}

	tmp, err := os.CreateTemp(r.cfg.OutputDir, ".render-*.pdf")
	if err != nil {
		telemetry.RecordRenderFailure("io")
		return document.Artifact{}, fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			common.Logger().Warn("render: failed to remove temp artifact", "path", tmpPath, "error", rmErr)
		}
	}
	if err := pdf.Output(tmp); err != nil {
		tmp.Close()
		cleanup()
		telemetry.RecordRenderFailure("output")
		return document.Artifact{}, fmt.Errorf("write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		telemetry.RecordRenderFailure("io")
		return document.Artifact{}, fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, final); err != nil {
		cleanup()
		telemetry.RecordRenderFailure("io")
		return document.Artifact{}, fmt.Errorf("publish artifact: %w", err)
	}
	info, err := os.Stat(final)
	if err != nil {
		return document.Artifact{}, fmt.Errorf("stat artifact: %w", err)
	}
	telemetry.RecordRender(string(docType), info.Size(), time.Since(start))
	common.Logger().Debug("render: artifact written", "file", filename, "bytes", info.Size(), "pages", pdf.PageNo())
	return document.Artifact{
		ID:           id.String(),
		Filename:     filename,
		Path:         final,
		Size:         info.Size(),
		DocumentType: docType,
		Locale:       doc.Locale,
		CreatedAt:    r.now().UTC(),
	}, nil
}

func (r *PDF) paint(doc document.RenderedDocument) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(string(doc.DocumentType), true)
	pdf.SetCreator(r.cfg.Creator, true)
	if r.cfg.Author != "" {
		pdf.SetAuthor(r.cfg.Author, true)
	}

	family := coreFamily
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if len(r.font) > 0 {
		family = unicodeFamily
		pdf.AddUTF8FontFromBytes(family, "", r.font)
		pdf.AddUTF8FontFromBytes(family, "B", r.font)
		translate = func(s string) string { return s }
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin / 2)
		pdf.SetFont(family, "", footerSize)
		pdf.CellFormat(0, footerSize, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for i, block := range doc.Blocks {
		if block.Kind != document.KindBlank {
			style, size, leading := blockStyle(block)
			pdf.SetFont(family, style, size)
			pdf.MultiCell(0, leading, translate(html.UnescapeString(block.Text)), "", alignment(block.Align), false)
		}
		if gap := doc.Gap(i); gap > 0 {
			pdf.Ln(gap)
		}
	}
	return pdf
}

func blockStyle(block document.LayoutBlock) (string, float64, float64) {
	switch {
	case block.Role == document.RoleTitle:
		return "B", titleSize, titleLeading
	case block.Kind == document.KindSignatureMarker:
		return "", signatureSize, signatureLead
	case block.Kind == document.KindHeading:
		return "B", bodySize, bodyLeading
	default:
		return "", bodySize, bodyLeading
	}
}

func alignment(align document.Align) string {
	switch align {
	case document.AlignCenter:
		return "C"
	case document.AlignRight:
		return "R"
	default:
		return "L"
	}
}
