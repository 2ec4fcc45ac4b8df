package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/bizhub-api/internal/gemini"
	"github.com/maheshrc27/bizhub-api/internal/metrics"
	"github.com/maheshrc27/bizhub-api/internal/models"
	"github.com/maheshrc27/bizhub-api/internal/parser"
	"github.com/maheshrc27/bizhub-api/internal/prompt"
	"github.com/maheshrc27/bizhub-api/internal/repository"
	"github.com/maheshrc27/bizhub-api/internal/transfer"
)

type ContentService interface {
	GeneratePosts(ctx context.Context, req transfer.GenerationRequest, onGenerated func([]models.GeneratedPost)) ([]models.GeneratedPost, error)
	GeneratePersonas(ctx context.Context, req transfer.GenerationRequest) ([]models.GeneratedPersona, error)
	GenerateCanvas(ctx context.Context, req transfer.GenerationRequest) (*models.GeneratedCanvas, error)
	ForBusiness(ctx context.Context, userID, businessID, contentType string, opts transfer.GenerationOptions) (transfer.GenerationRequest, error)
}

type contentService struct {
	generator  gemini.Generator
	businesses repository.BusinessRepository
}

func NewContentService(generator gemini.Generator, businesses repository.BusinessRepository) ContentService {
	return &contentService{
		generator:  generator,
		businesses: businesses,
	}
}

func (s *contentService) GeneratePosts(ctx context.Context, req transfer.GenerationRequest, onGenerated func([]models.GeneratedPost)) ([]models.GeneratedPost, error) {
	req.ContentType = models.ContentTypePost
	raw, elapsed, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	posts := parser.Posts(raw)
	metrics.RecordGeneration(req.ContentType, outcomeLabel(len(posts)), elapsed, len(posts))
	if onGenerated != nil {
		onGenerated(posts)
	}
	return posts, nil
}

func (s *contentService) GeneratePersonas(ctx context.Context, req transfer.GenerationRequest) ([]models.GeneratedPersona, error) {
	req.ContentType = models.ContentTypePersona
	raw, elapsed, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	personas := parser.Personas(raw)
	metrics.RecordGeneration(req.ContentType, outcomeLabel(len(personas)), elapsed, len(personas))
	return personas, nil
}

func (s *contentService) GenerateCanvas(ctx context.Context, req transfer.GenerationRequest) (*models.GeneratedCanvas, error) {
	req.ContentType = models.ContentTypeCanvas
	raw, elapsed, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	canvas := parser.Canvas(raw)
	metrics.RecordGeneration(req.ContentType, outcomeLabel(len(canvas.Sections)), elapsed, len(canvas.Sections))
	return &canvas, nil
}

// ForBusiness builds a generation request from a stored business the user owns.
func (s *contentService) ForBusiness(ctx context.Context, userID, businessID, contentType string, opts transfer.GenerationOptions) (transfer.GenerationRequest, error) {
	if err := opts.Validate(); err != nil {
		return transfer.GenerationRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	b, err := ownedBusiness(ctx, s.businesses, userID, businessID)
	if err != nil {
		return transfer.GenerationRequest{}, err
	}

	req := transfer.GenerationRequest{
		BusinessName:      b.Name,
		Industry:          b.Industry,
		TargetAudience:    opts.TargetAudience,
		Platform:          opts.Platform,
		ContentType:       contentType,
		AdditionalContext: opts.AdditionalContext,
	}
	if b.Description != nil {
		req.Description = *b.Description
	}
	return req, nil
}

// generate validates req, builds its prompt and makes one call to the
// generator.
func (s *contentService) generate(ctx context.Context, req transfer.GenerationRequest) (string, time.Duration, error) {
	if err := req.Validate(); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	text, err := prompt.For(req)
	if err != nil {
		return "", 0, err
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, text)
	elapsed := time.Since(start)
	if err != nil {
		reason := gemini.ReasonFailed
		var genErr *gemini.Error
		if errors.As(err, &genErr) {
			reason = genErr.Reason
		}
		metrics.RecordGeneration(req.ContentType, reason, elapsed, 0)
		slog.Info(err.Error(), "content_type", req.ContentType)
		return "", elapsed, err
	}
	return raw, elapsed, nil
}

func outcomeLabel(records int) string {
	if records == 0 {
		return "parse_empty"
	}
	return "success"
}
