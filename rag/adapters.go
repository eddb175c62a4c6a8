package rag

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// LangChainEmbedder adapts langchaingo's embeddings.Embedder to the
// Embedder interface.
type LangChainEmbedder struct {
	embedder embeddings.Embedder
}

var _ Embedder = (*LangChainEmbedder)(nil)

// NewLangChainEmbedder creates a new adapter for langchaingo embedders
func NewLangChainEmbedder(embedder embeddings.Embedder) *LangChainEmbedder {
	return &LangChainEmbedder{embedder: embedder}
}

// EmbedDocument embeds a single text using the underlying langchaingo embedder
func (l *LangChainEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	embedding, err := l.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	result := make([]float32, len(embedding))
	for i, val := range embedding {
		result[i] = float32(val)
	}
	return result, nil
}

// EmbedDocuments embeds multiple texts using the underlying langchaingo embedder
func (l *LangChainEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := l.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}

	result := make([][]float32, len(vectors))
	for i, vec := range vectors {
		result[i] = make([]float32, len(vec))
		for j, val := range vec {
			result[i][j] = float32(val)
		}
	}
	return result, nil
}

// LangChainLLM adapts a langchaingo llms.Model to the TextLLM interface.
// Used for the retrieval-grounded generation chain.
type LangChainLLM struct {
	model llms.Model
}

var _ TextLLM = (*LangChainLLM)(nil)

// NewLangChainLLM creates a new adapter for langchaingo models
func NewLangChainLLM(model llms.Model) *LangChainLLM {
	return &LangChainLLM{model: model}
}

// Generate produces a completion for the prompt, capped at maxTokens
// generated tokens when maxTokens is positive.
func (l *LangChainLLM) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var opts []llms.CallOption
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt, opts...)
	if err != nil {
		return "", tagRateLimit(err)
	}
	return resp, nil
}

// OpenAIDirectLLM is a thin chat-completion client over
// sashabaranov/go-openai, used for the short generations (general chat,
// intent classification, summaries) that do not need the full chain.
type OpenAIDirectLLM struct {
	client *openai.Client
	model  string
}

var _ TextLLM = (*OpenAIDirectLLM)(nil)

// NewOpenAIDirectLLM creates a direct client for the given API key and model.
// An empty model defaults to gpt-3.5-turbo.
func NewOpenAIDirectLLM(apiKey, model string) *OpenAIDirectLLM {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIDirectLLM{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAIDirectLLMWithClient wraps an already configured client.
func NewOpenAIDirectLLMWithClient(client *openai.Client, model string) *OpenAIDirectLLM {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIDirectLLM{client: client, model: model}
}

// Generate produces a completion for the prompt, capped at maxTokens
// generated tokens when maxTokens is positive.
func (o *OpenAIDirectLLM) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", tagRateLimit(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// tagRateLimit wraps provider throttling and quota errors with
// ErrRateLimited so the router can classify them without string matching.
func tagRateLimit(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == 429 {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	return err
}
