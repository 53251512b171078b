// File path: internal/api/types.go
package api

import (
	"time"

	"github.com/nicodishanthj/docgen/internal/catalog"
	"github.com/nicodishanthj/docgen/internal/document"
)

type chatRequest struct {
	Message      string `json:"message"`
	DocumentType string `json:"document_type"`
}

type chatResponse struct {
	Response     string    `json:"response"`
	DocumentType string    `json:"document_type"`
	Timestamp    time.Time `json:"timestamp"`
}

type generateResponse struct {
	Response     string            `json:"response"`
	ArtifactID   string            `json:"artifact_id"`
	Filename     string            `json:"filename"`
	DownloadURL  string            `json:"download_url"`
	DocumentType string            `json:"document_type"`
	Locale       string            `json:"locale"`
	Fields       map[string]string `json:"fields,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

type documentTypeInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type artifactSummary struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Size         int64     `json:"size_bytes"`
	DocumentType string    `json:"document_type"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
	DownloadURL  string    `json:"download_url"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

func summarize(artifact document.Artifact) artifactSummary {
	return artifactSummary{
		ID:           artifact.ID,
		Filename:     artifact.Filename,
		Size:         artifact.Size,
		DocumentType: string(artifact.DocumentType),
		Locale:       string(artifact.Locale),
		CreatedAt:    artifact.CreatedAt,
		DownloadURL:  downloadURL(artifact.ID),
	}
}

type auditResponse struct {
	Artifact artifactSummary      `json:"artifact"`
	Entries  []catalog.AuditEntry `json:"entries"`
}
