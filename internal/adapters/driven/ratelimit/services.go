package ratelimit

import (
	"context"
	"errors"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure decorators implement the interfaces.
var (
	_ driven.EmbeddingService = (*EmbeddingService)(nil)
	_ driven.LLMService       = (*LLMService)(nil)
)

// EmbeddingService throttles an embedding provider.
type EmbeddingService struct {
	driven.EmbeddingService
	limiter *Limiter
}

// WrapEmbedding returns svc throttled by limiter. A nil svc stays nil.
func WrapEmbedding(svc driven.EmbeddingService, limiter *Limiter) driven.EmbeddingService {
	if svc == nil || limiter == nil {
		return svc
	}
	return &EmbeddingService{EmbeddingService: svc, limiter: limiter}
}

// Embed waits for the limiter, then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vec, err := s.EmbeddingService.Embed(ctx, text)
	s.observe(err)
	return vec, err
}

// EmbedBatch counts one request per batch.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	vecs, err := s.EmbeddingService.EmbedBatch(ctx, texts)
	s.observe(err)
	return vecs, err
}

func (s *EmbeddingService) observe(err error) {
	if errors.Is(err, domain.ErrRateLimited) {
		s.limiter.RecordRateLimit(0)
	}
}

// LLMService throttles a generation provider.
type LLMService struct {
	driven.LLMService
	limiter *Limiter
}

// WrapLLM returns svc throttled by limiter. A nil svc stays nil.
func WrapLLM(svc driven.LLMService, limiter *Limiter) driven.LLMService {
	if svc == nil || limiter == nil {
		return svc
	}
	return &LLMService{LLMService: svc, limiter: limiter}
}

// Generate waits for the limiter, then generates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := s.LLMService.Generate(ctx, prompt, opts)
	if errors.Is(err, domain.ErrRateLimited) {
		s.limiter.RecordRateLimit(0)
	}
	return out, err
}
