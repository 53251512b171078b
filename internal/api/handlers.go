// File path: internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/docgen/internal/common"
	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/workflow"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"provider":  s.generator.ProviderName(),
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) handleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	types := document.DocumentTypes()
	out := make([]documentTypeInfo, 0, len(types)+1)
	for _, docType := range types {
		out = append(out, documentTypeInfo{ID: string(docType), Title: docType.Title()})
	}
	out = append(out, documentTypeInfo{ID: string(document.TypeGeneral), Title: document.TypeGeneral.Title()})
	writeJSON(w, http.StatusOK, map[string]interface{}{"document_types": out})
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, document.DocumentType, bool) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return req, "", false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, workflow.ErrEmptyMessage)
		return req, "", false
	}
	docType, known := document.ParseDocumentType(req.DocumentType)
	if !known && strings.TrimSpace(req.DocumentType) != "" {
		common.Logger().Debug("api: unknown document type, using general", "document_type", req.DocumentType)
	}
	return req, docType, true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, docType, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	common.Logger().Info("api: chat request received", "message_length", len(req.Message), "document_type", docType)
	answer, err := s.generator.Chat(r.Context(), req.Message, docType)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:     answer,
		DocumentType: string(docType),
		Timestamp:    s.now().UTC(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, docType, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	common.Logger().Info("api: generate request received", "message_length", len(req.Message), "document_type", docType)
	result, err := s.generator.Generate(r.Context(), req.Message, docType)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Response:     result.Response,
		ArtifactID:   result.Artifact.ID,
		Filename:     result.Artifact.Filename,
		DownloadURL:  downloadURL(result.Artifact.ID),
		DocumentType: string(result.DocumentType),
		Locale:       string(result.Locale),
		Fields:       result.Fields,
		Timestamp:    s.now().UTC(),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	artifact, err := s.generator.Artifact(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	file, err := os.Open(artifact.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
			err = workflow.ErrArtifactNotFound
		}
		writeError(w, status, err)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	http.ServeContent(w, r, artifact.Filename, info.ModTime(), file)
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"artifacts": []artifactSummary{}})
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	artifacts, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]artifactSummary, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, summarize(artifact))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"artifacts": out})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.history == nil {
		writeError(w, http.StatusNotFound, workflow.ErrArtifactNotFound)
		return
	}
	artifact, err := s.generator.Artifact(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	entries, err := s.history.Audit(r.Context(), artifact.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, auditResponse{Artifact: summarize(artifact), Entries: entries})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	query := r.URL.Query()
	entries := common.LogEntries(common.LogQuery{
		Level:     query.Get("level"),
		Component: query.Get("component"),
		Limit:     limit,
	})
	if entries == nil {
		entries = []common.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}
