package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/campusbot/collegebot/rag/loader"
)

// Intent classifies what a question is after.
type Intent string

const (
	// IntentAcademic marks questions about the uploaded documents.
	IntentAcademic Intent = "ACADEMIC_DOCUMENT_QUERY"
	// IntentGeneral marks greetings, small talk and general-knowledge
	// questions.
	IntentGeneral Intent = "GENERAL_CHAT"
)

const intentPromptTemplate = `Classify the intent of this user query into one of two categories:
1. GENERAL_CHAT: Greetings, small talk, definitions of general concepts (e.g. "what is ML?", "explain AI"), general advice.
2. ACADEMIC_DOCUMENT_QUERY: Questions specifically verifying details from uploaded files, syllabus, units, regulations, or asking about specific "files" or "documents".

Query: "%s"

Return ONLY the category name.`

// DetermineIntent asks the model to classify a question. Routing does
// not depend on it (the relevance probe decides the path) but it is
// useful for analytics and UI hints. Any model failure falls back to
// IntentGeneral.
func (e *Engine) DetermineIntent(ctx context.Context, question string) Intent {
	resp, err := e.chatLLM.Generate(ctx, fmt.Sprintf(intentPromptTemplate, question), 0)
	if err != nil {
		e.logger.Warn("intent: classification failed: %v", err)
		return IntentGeneral
	}

	content := strings.ToUpper(strings.TrimSpace(resp))
	if strings.Contains(content, "ACADEMIC") || strings.Contains(content, "DOCUMENT") {
		return IntentAcademic
	}
	return IntentGeneral
}

// Caps on the text handed to the summary prompt.
const (
	summaryMaxPages = 5
	summaryMaxChars = 10000
)

// Summarize loads the document at path and asks the model for a short
// bullet summary of its opening pages. Summarize is total: every
// failure maps to a displayable message.
func (e *Engine) Summarize(ctx context.Context, path string) string {
	if !loader.Supported(path) {
		return "Unsupported file type."
	}

	docs, err := loader.LoadFile(ctx, path)
	if err != nil {
		e.logger.Error("summary: failed to load %s: %v", path, err)
		return "Could not generate summary."
	}
	if len(docs) == 0 {
		return "Empty document."
	}

	if len(docs) > summaryMaxPages {
		docs = docs[:summaryMaxPages]
	}
	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = doc.Content
	}
	fullText := strings.Join(parts, "\n")
	if len(fullText) > summaryMaxChars {
		cut := summaryMaxChars
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		for cut > 0 && !utf8.RuneStart(fullText[cut]) {
			cut--
		}
		fullText = fullText[:cut] + "..."
	}

	summary, err := e.chatLLM.Generate(ctx,
		fmt.Sprintf("Summary (max 3-4 bullets):\n\n%s", fullText), 0)
	if err != nil {
		e.logger.Error("summary: generation failed for %s: %v", path, err)
		return "Could not generate summary."
	}
	return summary
}
