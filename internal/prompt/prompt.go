// File path: internal/prompt/prompt.go
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"

	"github.com/nicodishanthj/docgen/internal/document"
	"github.com/nicodishanthj/docgen/internal/llm"
)

var systemPrompts = map[document.DocumentType]string{
	document.TypeAffidavit:   "You are an expert legal document writer. Create a complete, professional affidavit with proper legal format.",
	document.TypeLetter:      "You are a professional business letter writer. Create a complete formal letter with proper format.",
	document.TypeContract:    "You are a contract specialist. Create a comprehensive contract with clear terms.",
	document.TypeCertificate: "You are creating official certificates. Generate a formal certificate with proper formatting.",
	document.TypeApplication: "You are an expert in applications. Create authentic applications with proper format.",
}

const generalPrompt = "You are a professional assistant. Provide helpful, well-structured responses."

const regionalInstruction = "Respond in Hindi using Devanagari script. Keep names, numbers and addresses exactly as given."

const systemTemplate = `{{.persona}}
Write plain text only: no markdown, no HTML. Put each heading and paragraph on its own line.
{{- if .locale_instruction}}
{{.locale_instruction}}
{{- end}}
{{- if .known_details}}
Use these details where they fit:
{{.known_details}}
{{- end}}`

const userTemplate = `Create a {{.document_type}} based on: {{.request}}`

var chatTemplate = prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
	prompts.NewSystemMessagePromptTemplate(systemTemplate, []string{"persona", "locale_instruction", "known_details"}),
	prompts.NewHumanMessagePromptTemplate(userTemplate, []string{"document_type", "request"}),
})

// ErrEmptyRequest is returned when there is nothing to ask for.
var ErrEmptyRequest = errors.New("prompt: request is empty")

// SystemPrompt returns the persona used for docType.
func SystemPrompt(docType document.DocumentType) string {
	if persona, ok := systemPrompts[docType]; ok {
		return persona
	}
	return generalPrompt
}

// Build renders the system and user messages for one generation request.
func Build(docType document.DocumentType, locale document.Locale, request string, fields map[string]string) ([]llm.Message, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, ErrEmptyRequest
	}
	if docType == "" {
		docType = document.TypeGeneral
	}
	values := map[string]any{
		"persona":            SystemPrompt(docType),
		"locale_instruction": "",
		"known_details":      knownDetails(fields),
		"document_type":      string(docType),
		"request":            request,
	}
	if locale == document.LocaleRegional {
		values["locale_instruction"] = regionalInstruction
	}
	formatted, err := chatTemplate.FormatMessages(values)
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}
	messages := make([]llm.Message, 0, len(formatted))
	for _, msg := range formatted {
		messages = append(messages, llm.Message{Role: roleFor(msg.GetType()), Content: msg.GetContent()})
	}
	return messages, nil
}

func roleFor(kind schema.ChatMessageType) string {
	switch kind {
	case schema.ChatMessageTypeSystem:
		return llm.RoleSystem
	case schema.ChatMessageTypeAI:
		return llm.RoleAssistant
	default:
		return llm.RoleUser
	}
}

var fieldLabels = map[string]string{
	"full_name": "Full name",
	"address":   "Address",
}

func knownDetails(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		label, ok := fieldLabels[key]
		if !ok {
			label = strings.ReplaceAll(key, "_", " ")
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", label, strings.TrimSpace(fields[key])))
	}
	return strings.Join(lines, "\n")
}
