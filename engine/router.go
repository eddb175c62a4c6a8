package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusbot/collegebot/cache"
)

// notFoundDisclaimer is the fixed sentence the chain must emit before
// any answer drawn from outside the retrieved context.
const notFoundDisclaimer = "I could not find this specific information in the uploaded documents, but here is a general answer:"

// academicPromptTemplate instructs the chain to prefer retrieved context,
// flag out-of-context answers, structure explanations and cite sources.
const academicPromptTemplate = `You are CollegeBot, an intelligent academic assistant.

MODE: ACADEMIC_DOCUMENT_QUERY

INSTRUCTIONS:
1. Context Usage: Priority is given to the provided Context.
2. Not Found: If the answer is NOT in the Context, you MAY use your own general knowledge to answer, but you MUST preface it with: "%s".
3. Structure: Explain step-by-step. Use headings and bullet points.
4. Citations: If you use the Context, you MUST cite the document name and page number.
   Format: [Source: filename (Page X)]

Context: %s
Chat History: %s
Question: %s

Answer:`

// generalPromptTemplate builds the short conversational reply.
const generalPromptTemplate = `You are CollegeBot. Be friendly and concise (max 2 sentences).
Chat History: %s
Question: %s
Answer:`

// Answer routes a question to the cheapest tier able to serve it and
// returns a displayable answer with its ordered source citations. The
// sources list is empty for canned, general-chat and failure answers.
// Answer is total: it never panics and never propagates provider errors.
func (e *Engine) Answer(ctx context.Context, question string) (string, []string) {
	key := cache.Normalize(question)

	// Every call counts as a served query, whichever tier answers it.
	e.counter.Increment()

	if answer, ok := cache.CannedAnswer(key); ok {
		e.logger.Debug("router: canned response for %q", key)
		return answer, []string{}
	}

	if entry, ok := e.cache.Get(key); ok {
		e.logger.Debug("router: cache hit for %q", key)
		return entry.Answer, entry.Sources
	}

	answer, sources, err := e.route(ctx, question)
	if err != nil {
		e.logger.Error("router: %v", err)
		return failureMessage(err), []string{}
	}

	// Canned hits returned above are never memoized; generated answers
	// always are, whichever path produced them.
	e.cache.Put(key, cache.Entry{Answer: answer, Sources: sources})
	return answer, sources
}

// route runs the relevance probe and dispatches to the matching path.
func (e *Engine) route(ctx context.Context, question string) (string, []string, error) {
	probe, err := e.index.SearchWithScore(ctx, question, e.cfg.ProbeK)
	if err != nil {
		return "", nil, fmt.Errorf("relevance probe failed: %w", err)
	}

	if len(probe) > 0 && probe[0].Distance < e.cfg.RelevanceThreshold {
		e.logger.Debug("router: academic path (distance %.4f < %.4f, source %q)",
			probe[0].Distance, e.cfg.RelevanceThreshold, probe[0].Document.Source())
		return e.answerFromDocuments(ctx, question)
	}

	if len(probe) > 0 {
		e.logger.Debug("router: general path (distance %.4f)", probe[0].Distance)
	} else {
		e.logger.Debug("router: general path (empty index)")
	}
	return e.answerGeneral(ctx, question)
}

// answerFromDocuments runs the retrieval-grounded path: top-k chunks as
// context, the conversation transcript for continuity, and deduplicated
// citations. The turn is not appended to memory; the retrieval context
// already captures the question.
func (e *Engine) answerFromDocuments(ctx context.Context, question string) (string, []string, error) {
	chunks, err := e.index.RetrieveTopK(ctx, question, e.cfg.TopK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}

	var contextParts []string
	for _, chunk := range chunks {
		contextParts = append(contextParts, fmt.Sprintf("[%s (Page %d)]\n%s",
			chunk.Source(), chunk.Page(), chunk.Content))
	}
	contextStr := strings.Join(contextParts, "\n\n---\n\n")

	prompt := fmt.Sprintf(academicPromptTemplate,
		notFoundDisclaimer, contextStr, e.memory.Transcript(), question)

	answer, err := e.chainLLM.Generate(ctx, prompt, e.cfg.AnswerMaxTokens)
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}

	sources := make([]string, 0, len(chunks))
	seen := make(map[string]bool, len(chunks))
	for _, chunk := range chunks {
		citation := fmt.Sprintf("%s (Page %d)", chunk.Source(), chunk.Page())
		if seen[citation] {
			continue
		}
		seen[citation] = true
		sources = append(sources, citation)
	}

	return answer, sources, nil
}

// answerGeneral runs the general-chat path: transcript plus question,
// short reply, no retrieval. The completed turn is appended to memory.
func (e *Engine) answerGeneral(ctx context.Context, question string) (string, []string, error) {
	prompt := fmt.Sprintf(generalPromptTemplate, e.memory.Transcript(), question)

	answer, err := e.chatLLM.Generate(ctx, prompt, e.cfg.GeneralMaxTokens)
	if err != nil {
		return "", nil, fmt.Errorf("general chat failed: %w", err)
	}

	e.memory.Append(question, answer)
	return answer, []string{}, nil
}
