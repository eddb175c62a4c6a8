// CollegeBot - Retrieval-Grounded Academic Q&A for Go
//
// CollegeBot answers student questions over a corpus of uploaded course
// documents. Every question is routed to the cheapest tier able to serve
// it: a canned table for trivial greetings and stock definitions, a
// memoized answer cache, retrieval-grounded generation with source
// citations when the corpus is relevant, and a short conversational
// reply when it is not.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/campusbot/collegebot
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/tmc/langchaingo/embeddings"
//		"github.com/tmc/langchaingo/llms/openai"
//
//		"github.com/campusbot/collegebot/engine"
//		"github.com/campusbot/collegebot/ingest"
//		"github.com/campusbot/collegebot/rag"
//		"github.com/campusbot/collegebot/rag/index"
//		"github.com/campusbot/collegebot/stats"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// Initialize the model and embedder
//		llm, _ := openai.New()
//		emb, _ := embeddings.NewEmbedder(llm)
//
//		// Durable vector index and usage counter
//		ix, _ := index.New("data/index.json", rag.NewLangChainEmbedder(emb))
//		counter, _ := stats.NewCounter("data/stats.json", nil)
//
//		// The router
//		e, _ := engine.New(ix, rag.NewLangChainLLM(llm), nil, counter, engine.Config{})
//
//		// Ingest course notes and ask
//		e.Ingest(ctx, "notes/dsa.txt", ingest.Metadata{Department: "CSE", Semester: "3"})
//		answer, sources := e.Answer(ctx, "What does Unit 1 cover?")
//		fmt.Println(answer, sources)
//	}
//
// # Packages
//
//   - engine: the query router, document lifecycle and usage stats
//   - rag: core retrieval types and model adapters
//   - rag/index: the persistent vector index
//   - rag/loader: PDF, text, Markdown, CSV and DOCX loading
//   - ingest: the load, chunk and index pipeline
//   - cache: canned responses and the memoized answer cache
//   - memory: bounded conversation history
//   - stats: the durable query counter
//   - log: the logging facade
package collegebot // import "github.com/campusbot/collegebot"
