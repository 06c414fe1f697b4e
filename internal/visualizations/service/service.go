// Package service orchestrates the generation pipeline: prompt build,
// model call, response mapping, persistence.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/algoviz-io/algoviz-backend/internal/visualizations/cache"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/mapper"
	"github.com/algoviz-io/algoviz-backend/internal/visualizations/prompt"
)

// Generator produces raw model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store is the persistence contract for saved visualizations. Every
// operation is scoped by the owning user id supplied by the caller.
type Store interface {
	Create(ctx context.Context, userID string, req domain.VisualizationRequest, resp domain.VisualizationResponse, title, description string) (*domain.SavedVisualization, error)
	GetByID(ctx context.Context, userID, id string) (*domain.SavedVisualization, error)
	List(ctx context.Context, userID string, page, limit int) ([]domain.SavedVisualization, int, error)
	Delete(ctx context.Context, userID, id string) error
}

type Service struct {
	generator  Generator
	store      Store
	cache      *cache.ResponseCache
	genTimeout time.Duration
}

func New(generator Generator, store Store, respCache *cache.ResponseCache, genTimeout time.Duration) *Service {
	if genTimeout <= 0 {
		genTimeout = 60 * time.Second
	}
	return &Service{
		generator:  generator,
		store:      store,
		cache:      respCache,
		genTimeout: genTimeout,
	}
}

// Create runs the full pipeline. Any failure before persistence aborts with
// nothing written; generation failures are normalized to
// domain.ErrGenerationFailed with the cause preserved for logging.
func (s *Service) Create(ctx context.Context, userID string, req domain.VisualizationRequest, title, description string) (*domain.SavedVisualization, error) {
	p := prompt.Build(req)

	resp, err := s.cache.Get(ctx, p)
	if err != nil {
		if err != cache.ErrMiss {
			slog.Warn("visualization cache read failed", "error", err)
		}

		genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
		raw, genErr := s.generator.Generate(genCtx, p)
		cancel()
		if genErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, genErr)
		}

		mapped := mapper.Map(raw, req)
		resp = &mapped

		if cacheErr := s.cache.Set(ctx, p, mapped); cacheErr != nil {
			slog.Warn("visualization cache write failed", "error", cacheErr)
		}
	}

	rec, err := s.store.Create(ctx, userID, req, *resp, title, description)
	if err != nil {
		return nil, fmt.Errorf("save visualization: %w", err)
	}

	slog.Info("visualization created",
		"user_id", userID,
		"algorithm", req.Algorithm,
		"steps", len(rec.Response.Steps),
	)
	return rec, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.SavedVisualization, error) {
	return s.store.GetByID(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]domain.SavedVisualization, int, error) {
	return s.store.List(ctx, userID, page, limit)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.Delete(ctx, userID, id)
}
