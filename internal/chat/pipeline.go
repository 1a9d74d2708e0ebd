package chat

import (
	"context"
	"time"

	"github.com/parenthaven/backend/internal/domain"
	"github.com/parenthaven/backend/internal/llm"
	"github.com/parenthaven/backend/internal/retrieval"
	"github.com/rs/zerolog/log"
)

// Fallback replies. These exact strings are part of the product behavior:
// the user must never see a raw backend error or an empty response.
const (
	ReplyNoContext = "Sorry — I don't have enough information in my database to answer that. Please consult a professional if needed."
	ReplyGenError  = "Sorry, I am unable to generate a response right now. Please try again later."
)

// Options bounds the pipeline. Zero values are replaced by the defaults
// matching the reference behavior.
type Options struct {
	TopK              int
	MaxContextChars   int
	HistoryLimit      int
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.TopK <= 0 {
		o.TopK = 5
	}
	if o.MaxContextChars <= 0 {
		o.MaxContextChars = 400
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 5
	}
	if o.RetrievalTimeout <= 0 {
		o.RetrievalTimeout = 10 * time.Second
	}
	if o.GenerationTimeout <= 0 {
		o.GenerationTimeout = 30 * time.Second
	}
	return o
}

// TurnLog is an optional write-through sink for persisted conversation turns
type TurnLog interface {
	Append(ctx context.Context, sessionID string, role domain.TurnRole, content string) error
}

// Pipeline orchestrates one question-answer cycle: retrieve, filter by
// feedback, assemble context, build the prompt with recent history, generate
// and persist the turn pair. Each call is a fresh run over shared stores; the
// pipeline itself holds no per-request state.
type Pipeline struct {
	retriever  retrieval.Retriever
	provider   llm.Provider
	model      string
	sessions   domain.SessionStore
	suppressor Suppressor
	turnLog    TurnLog
	opts       Options
}

// NewPipeline creates an answer pipeline. turnLog may be nil.
func NewPipeline(
	retriever retrieval.Retriever,
	provider llm.Provider,
	model string,
	sessions domain.SessionStore,
	suppressor Suppressor,
	turnLog TurnLog,
	opts Options,
) *Pipeline {
	return &Pipeline{
		retriever:  retriever,
		provider:   provider,
		model:      model,
		sessions:   sessions,
		suppressor: suppressor,
		turnLog:    turnLog,
		opts:       opts.withDefaults(),
	}
}

// Ask answers one user query for the given session.
//
// Fallback branches (no usable context, generation failure) return a fixed
// user-safe reply with FromDB=false and leave the session history untouched:
// the user never received a substantive answer, so the exchange is not part
// of the conversation. Only a retrieval failure is returned as an error.
func (p *Pipeline) Ask(ctx context.Context, sessionID, query string) (*domain.ChatResult, error) {
	rctx, cancel := context.WithTimeout(ctx, p.opts.RetrievalTimeout)
	defer cancel()

	chunks, err := p.retriever.Search(rctx, query, p.opts.TopK)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	filtered := p.suppressor.Filter(ctx, sessionID, chunks)
	if len(filtered) == 0 {
		log.Debug().Str("session_id", sessionID).Int("retrieved", len(chunks)).Msg("no usable context after feedback filter")
		return &domain.ChatResult{Reply: ReplyNoContext, SessionID: sessionID, FromDB: false}, nil
	}

	contextBlock := AssembleContext(filtered, p.opts.MaxContextChars)
	history := p.sessions.History(sessionID, p.opts.HistoryLimit)
	prompt := BuildPrompt(contextBlock, history, query)

	gctx, cancel := context.WithTimeout(ctx, p.opts.GenerationTimeout)
	defer cancel()

	resp, err := p.provider.Complete(gctx, prompt, p.model)
	if err != nil {
		genErr := &GenerationError{Err: err}
		log.Error().Err(genErr).Str("session_id", sessionID).Msg("completion backend failed")
		return &domain.ChatResult{Reply: ReplyGenError, SessionID: sessionID, FromDB: false}, nil
	}

	p.sessions.AppendTurns(sessionID,
		domain.Turn{Role: domain.RoleUser, Content: query},
		domain.Turn{Role: domain.RoleAssistant, Content: resp.Text},
	)
	p.logTurns(ctx, sessionID, query, resp.Text)

	log.Debug().
		Str("session_id", sessionID).
		Int("tokens_used", resp.TokensUsed).
		Int64("llm_latency_ms", resp.LatencyMs).
		Msg("reply generated")

	return &domain.ChatResult{Reply: resp.Text, SessionID: sessionID, FromDB: true}, nil
}

// logTurns writes the turn pair to the persistent log, best effort
func (p *Pipeline) logTurns(ctx context.Context, sessionID, query, reply string) {
	if p.turnLog == nil {
		return
	}
	if err := p.turnLog.Append(ctx, sessionID, domain.RoleUser, query); err != nil {
		log.Error().Err(err).Msg("failed to persist user turn")
		return
	}
	if err := p.turnLog.Append(ctx, sessionID, domain.RoleAssistant, reply); err != nil {
		log.Error().Err(err).Msg("failed to persist assistant turn")
	}
}
