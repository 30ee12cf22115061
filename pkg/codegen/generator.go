package codegen

import (
	"context"
	"errors"
	"strings"
	"time"

	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrGenerationUnavailable is the only failure callers ever see from Generate.
// Provider detail goes to the log.
var ErrGenerationUnavailable = errors.New("generation unavailable")

const systemPersona = "You are an expert React developer who creates beautiful, functional components."

const logModule = "CODEGEN"

// Generator issues exactly one chat-completion call per Generate.
type Generator struct {
	provider    llm.LLMProvider
	logger      logger.ILogger
	maxTokens   int
	temperature float64
}

type GeneratorOption func(*Generator)

func WithMaxTokens(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

func WithTemperature(t float64) GeneratorOption {
	return func(g *Generator) {
		g.temperature = t
	}
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:    provider,
		logger:      log,
		maxTokens:   2000,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the composed prompt under the fixed system persona and returns the
// raw assistant text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("accio-playground-be/codegen").Start(ctx, "codegen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("codegen.prompt_length", len(prompt)),
		attribute.Int("codegen.max_tokens", g.maxTokens),
	)

	started := time.Now()
	text, err := g.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPersona},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithMaxTokens(g.maxTokens), llm.WithTemperature(g.temperature))

	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("provider returned empty content")
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		g.logger.Error(logModule, "Generation request failed", map[string]interface{}{
			"error":       err.Error(),
			"duration_ms": time.Since(started).Milliseconds(),
		})
		return "", ErrGenerationUnavailable
	}

	g.logger.Debug(logModule, "Generation completed", map[string]interface{}{
		"duration_ms":     time.Since(started).Milliseconds(),
		"response_length": len(text),
	})
	return text, nil
}
