// File path: internal/document/types.go
package document

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyInput is returned when the raw text carries nothing to render.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyAfterNormalization is returned when the raw text was only markup or whitespace.
	ErrEmptyAfterNormalization = errors.New("empty after normalization")
	// ErrRenderFailure is returned when the renderer did not produce a non-empty artifact.
	ErrRenderFailure = errors.New("render failure")
)

// DocumentType tags the kind of document a request asks for.
type DocumentType string

const (
	TypeAffidavit   DocumentType = "affidavit"
	TypeLetter      DocumentType = "letter"
	TypeContract    DocumentType = "contract"
	TypeCertificate DocumentType = "certificate"
	TypeApplication DocumentType = "application"
	TypeCustom      DocumentType = "custom"
	TypeGeneral     DocumentType = "general"
)

var documentTitles = map[DocumentType]string{
	TypeAffidavit:   "Affidavit Document",
	TypeLetter:      "Formal Letter",
	TypeContract:    "Contract/Agreement",
	TypeCertificate: "Certificate",
	TypeApplication: "Application Form",
	TypeCustom:      "Custom Document",
}

const fallbackTitle = "AI-Generated Document"

// DocumentTypes lists the document types with a dedicated title, in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{TypeAffidavit, TypeLetter, TypeContract, TypeCertificate, TypeApplication, TypeCustom}
}

// ParseDocumentType maps a request tag onto a DocumentType. Unknown or empty
// tags resolve to TypeGeneral and report false.
func ParseDocumentType(value string) (DocumentType, bool) {
	key := DocumentType(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := documentTitles[key]; ok {
		return key, true
	}
	return TypeGeneral, key == TypeGeneral
}

// Title returns the display title used for the document header.
func (t DocumentType) Title() string {
	if title, ok := documentTitles[t]; ok {
		return title
	}
	return fallbackTitle
}

func (t DocumentType) String() string {
	return string(t)
}

// Locale is the script/region detected for a document instance.
type Locale string

const (
	LocaleDefault  Locale = "default"
	LocaleRegional Locale = "regional"
)

func (l Locale) String() string {
	return string(l)
}

// BlockKind classifies a single line of normalized text.
type BlockKind int

const (
	KindBlank BlockKind = iota
	KindHeading
	KindBody
	KindSignatureMarker
)

func (k BlockKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeading:
		return "heading"
	case KindBody:
		return "body"
	case KindSignatureMarker:
		return "signature"
	default:
		return "unknown"
	}
}

// ClassifiedBlock is one structurally classified line. Text is markup safe:
// '&', '<' and '>' are entity escaped.
type ClassifiedBlock struct {
	Kind         BlockKind
	Text         string
	SpacingAfter float64
}

// Role identifies where a layout block came from.
type Role int

const (
	RoleContent Role = iota
	RoleTitle
	RoleDate
	RoleSignatureRule
	RoleSignatureLabel
)

// Align is the horizontal alignment requested for a layout block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// LayoutBlock is a classified block placed in the final document.
type LayoutBlock struct {
	ClassifiedBlock
	Role  Role
	Align Align
}

// RenderedDocument is the ordered block sequence handed to a Renderer. It is
// built per request and discarded after rendering.
type RenderedDocument struct {
	DocumentType DocumentType
	Locale       Locale
	Title        string
	Fields       map[string]string
	Blocks       []LayoutBlock
}

// DocumentRequest carries everything the pipeline needs for one document.
// ExtractedFields is best effort and may be empty.
type DocumentRequest struct {
	DocumentType    DocumentType
	Locale          Locale
	RawText         string
	ExtractedFields map[string]string
}

// Artifact is the handle of a rendered file.
type Artifact struct {
	ID           string       `json:"id"`
	Filename     string       `json:"filename"`
	Path         string       `json:"path"`
	Size         int64        `json:"size_bytes"`
	DocumentType DocumentType `json:"document_type"`
	Locale       Locale       `json:"locale"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Renderer paints a RenderedDocument into a paginated artifact.
type Renderer interface {
	Render(doc RenderedDocument) (Artifact, error)
}
