// Package executor orchestrates the answer pipeline: retrieval-first
// answering with a loose adequacy check, a structured-query fallback, the
// chart side-path, and the sensitive-query guard as the final gate.
package executor

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"nexus-rag-be/internal/constant"
	"nexus-rag-be/pkg/llm"
	"nexus-rag-be/pkg/rag/chart"
	"nexus-rag-be/pkg/rag/extract"
	"nexus-rag-be/pkg/rag/guard"
	"nexus-rag-be/pkg/rag/history"
	"nexus-rag-be/pkg/rag/prompt"
	"nexus-rag-be/pkg/rag/retrieval"
)

// PassageRetriever is the document-backed retrieval stage. A nil retriever
// disables the stage and routes every question straight to the
// structured-query path.
type PassageRetriever interface {
	Retrieve(ctx context.Context, question string) ([]retrieval.Passage, error)
}

// QueryExecutor runs a validated SELECT against the data source and renders
// the rows as text.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) (string, error)
}

// Result is the pipeline outcome handed back to the transport layer.
type Result struct {
	Text   string
	Status string
}

// classification is the tagged outcome of the adequacy check on a
// retrieval-based answer. Rejection and upstream failure both fall through to
// the structured-query path, but they are distinct outcomes.
type classification int

const (
	classificationAccepted classification = iota
	classificationRejected
	classificationUpstreamError
)

// Pipeline answers questions. It owns the conversation memory and figure
// store for its lifetime; one pipeline instance serves one server process.
type Pipeline struct {
	provider  llm.LLMProvider
	retriever PassageRetriever
	executor  QueryExecutor
	memory    *history.ConversationMemory
	figures   *chart.Store
	limiter   *rate.Limiter
	schema    string
}

// Config wires a pipeline. Retriever may be nil. MinCallInterval throttles
// the final answer-composition call; zero disables the throttle.
type Config struct {
	Provider        llm.LLMProvider
	Retriever       PassageRetriever
	Executor        QueryExecutor
	Memory          *history.ConversationMemory
	Figures         *chart.Store
	SchemaText      string
	MinCallInterval float64 // seconds between answer-composition calls
}

func NewPipeline(cfg Config) *Pipeline {
	memory := cfg.Memory
	if memory == nil {
		memory = history.NewConversationMemory()
	}
	figures := cfg.Figures
	if figures == nil {
		figures = chart.NewStore()
	}
	schema := cfg.SchemaText
	if schema == "" {
		schema = constant.DefaultDatabaseDescription
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinCallInterval > 0 {
		limiter = rate.NewLimiter(rate.Limit(1/cfg.MinCallInterval), 1)
	}

	return &Pipeline{
		provider:  cfg.Provider,
		retriever: cfg.Retriever,
		executor:  cfg.Executor,
		memory:    memory,
		figures:   figures,
		limiter:   limiter,
		schema:    schema,
	}
}

// Memory exposes the conversation memory owned by the pipeline.
func (p *Pipeline) Memory() *history.ConversationMemory {
	return p.memory
}

// Figures exposes the figure store owned by the pipeline.
func (p *Pipeline) Figures() *chart.Store {
	return p.figures
}

// Answer runs the full pipeline for one question. The guard is applied last
// and overrides everything computed before it, so generation cost is incurred
// even for blocked questions.
func (p *Pipeline) Answer(ctx context.Context, question string) Result {
	text, status := p.answer(ctx, question)

	if guard.IsBlocked(question) {
		return Result{Text: constant.GuardRefusalReply, Status: constant.AnswerStatusBlocked}
	}

	if status == constant.AnswerStatusSuccess {
		p.memory.Append(history.Turn{Question: question, Answer: text})
	}
	return Result{Text: text, Status: status}
}

func (p *Pipeline) answer(ctx context.Context, question string) (string, string) {
	if candidate, verdict := p.tryRetrievalAnswer(ctx, question); verdict == classificationAccepted {
		return candidate, constant.AnswerStatusSuccess
	}
	return p.structuredAnswer(ctx, question)
}

// tryRetrievalAnswer runs the retrieval-augmented stage and its adequacy
// check. Every failure in this stage is swallowed: the caller falls through to
// the structured-query path.
func (p *Pipeline) tryRetrievalAnswer(ctx context.Context, question string) (string, classification) {
	if p.retriever == nil {
		return "", classificationRejected
	}

	passages, err := p.retriever.Retrieve(ctx, question)
	if err != nil || len(passages) == 0 {
		return "", classificationUpstreamError
	}

	candidate, err := p.provider.Generate(ctx, prompt.BuildRetrievalPrompt(retrieval.FormatContext(passages), question))
	if err != nil {
		return "", classificationUpstreamError
	}

	verdict, err := p.provider.Generate(ctx, prompt.BuildClassificationPrompt(question, candidate))
	if err != nil {
		return "", classificationUpstreamError
	}

	// Loose on purpose: any "yes" substring, even inside another word,
	// counts as acceptance. Kept as observed.
	if !strings.Contains(strings.ToLower(verdict), "yes") {
		return "", classificationRejected
	}
	return candidate, classificationAccepted
}

// structuredAnswer is the SQL fallback: generate a query, validate and run
// it, route visualization questions through the chart side-path, then compose
// the final answer. Generation failures here surface as status=error with the
// error text; query execution failures become result text instead.
func (p *Pipeline) structuredAnswer(ctx context.Context, question string) (string, string) {
	historyText := p.memory.Load()

	response, err := p.provider.Generate(ctx, prompt.BuildSQLPrompt(p.schema, historyText, question))
	if err != nil {
		return fmt.Sprintf("failed to generate SQL query: %v", err), constant.AnswerStatusError
	}

	var query, result string
	parsed := extract.ParseSQLQuery(response)
	switch {
	case !parsed.Found:
		result = constant.ResultNoQueryFound
	case !extract.IsSelectQuery(parsed.Query):
		result = constant.ResultInvalidQuery
	default:
		query = parsed.Query
		rows, execErr := p.executor.Execute(ctx, query)
		if execErr != nil {
			result = fmt.Sprintf("Error executing SQL query: %v", execErr)
		} else {
			result = rows
			if wantsGraph(question) {
				if chartErr := p.generateChart(ctx, question, rows); chartErr != nil {
					return fmt.Sprintf("failed to generate chart: %v", chartErr), constant.AnswerStatusError
				}
				result = constant.ResultGraphGenerated
			}
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Sprintf("failed to compose answer: %v", err), constant.AnswerStatusError
	}

	answer, err := p.provider.Generate(ctx, prompt.BuildAnswerPrompt(p.schema, historyText, question, query, result))
	if err != nil {
		return fmt.Sprintf("failed to compose answer: %v", err), constant.AnswerStatusError
	}
	return strings.TrimSpace(answer), constant.AnswerStatusSuccess
}

// generateChart asks the model for a declarative chart spec of the query
// result and stores the validated figure.
func (p *Pipeline) generateChart(ctx context.Context, question, queryResult string) error {
	response, err := p.provider.Generate(ctx, prompt.BuildChartSpecPrompt(queryResult, question))
	if err != nil {
		return err
	}

	spec, err := chart.ParseSpec(extract.ExtractFencedBlock(response))
	if err != nil {
		return err
	}

	p.figures.Add(question, spec)
	return nil
}

// wantsGraph reports whether the lowercased question contains any
// visualization keyword.
func wantsGraph(question string) bool {
	lowered := strings.ToLower(question)
	for _, keyword := range constant.GraphIntentKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
