// Package services implements description and category generation on top
// of an llm chain.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/genai/models"
	"github.com/dmitrijs2005/shopkeeper/internal/llm"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

const (
	minNameLength        = 3
	maxNameLength        = 200
	maxKeywords          = 10
	minDescriptionLength = 10
	maxDescriptionLength = 2000

	// categoryDepth is the number of levels a complete category path has.
	categoryDepth = 3
)

// Generator is satisfied by *llm.Chain.
type Generator interface {
	Configured() bool
	Model() string
	Generate(ctx context.Context, p llm.Prompt) (llm.Completion, error)
}

type GenerationService struct {
	llm    Generator
	logger logging.Logger
	now    func() time.Time
}

func NewGenerationService(gen Generator, logger logging.Logger) *GenerationService {
	return &GenerationService{llm: gen, logger: logger.With("module", "generation_service"), now: time.Now}
}

// Describe writes a product description from a name and keywords.
func (s *GenerationService) Describe(ctx context.Context, req models.DescriptionRequest) (*models.DescriptionResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := checkLength("name", name, minNameLength, maxNameLength); err != nil {
		return nil, err
	}
	keywords := cleanKeywords(req.Keywords)
	if len(keywords) < 1 || len(keywords) > maxKeywords {
		return nil, common.NewValidationError("keywords", fmt.Sprintf("between 1 and %d keywords are required", maxKeywords))
	}

	s.logger.Info(ctx, "generate description", "product_name", name, "keywords_count", len(keywords))

	start := s.now()
	out, err := s.generate(ctx, descriptionPrompt(name, keywords))
	if err != nil {
		s.logger.Error(ctx, "generate description failed", "product_name", name, "error", err)
		return nil, err
	}
	elapsed := s.now().Sub(start)

	s.logger.Info(ctx, "description generated", "product_name", name, "tokens_used", out.Tokens, "provider", out.Provider)

	return &models.DescriptionResponse{
		GeneratedDescription: strings.TrimSpace(out.Text),
		ProcessingTime:       round2(elapsed.Seconds()),
		ModelUsed:            s.modelOf(out),
		TokensUsed:           out.Tokens,
	}, nil
}

// Categorize suggests a category path for a product. Confidence grows with
// the number of levels in the answer.
func (s *GenerationService) Categorize(ctx context.Context, req models.CategoryRequest) (*models.CategoryResponse, error) {
	name := strings.TrimSpace(req.ProductName)
	if err := checkLength("product_name", name, minNameLength, maxNameLength); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if err := checkLength("description", description, minDescriptionLength, maxDescriptionLength); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "generate category", "product_name", name)

	start := s.now()
	out, err := s.generate(ctx, categoryPrompt(name, description))
	if err != nil {
		s.logger.Error(ctx, "generate category failed", "product_name", name, "error", err)
		return nil, err
	}
	elapsed := s.now().Sub(start)

	category := strings.Trim(strings.TrimSpace(out.Text), `"`)
	confidence := Confidence(category)

	s.logger.Info(ctx, "category generated", "product_name", name, "category", category, "confidence", confidence)

	return &models.CategoryResponse{
		SuggestedCategory: category,
		Confidence:        confidence,
		ProcessingTime:    round2(elapsed.Seconds()),
		ModelUsed:         s.modelOf(out),
	}, nil
}

// Confidence is min(1, levels/3) rounded to two decimals.
func Confidence(category string) float64 {
	levels := len(strings.Split(category, CategorySeparator))
	return round2(math.Min(1, float64(levels)/categoryDepth))
}

func (s *GenerationService) generate(ctx context.Context, p llm.Prompt) (llm.Completion, error) {
	if !s.llm.Configured() {
		return llm.Completion{}, fmt.Errorf("%w: %w", common.ErrUnavailable, llm.ErrNotConfigured)
	}
	out, err := s.llm.Generate(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return llm.Completion{}, ctx.Err()
		}
		if errors.Is(err, llm.ErrNotConfigured) {
			return llm.Completion{}, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
		}
		return llm.Completion{}, fmt.Errorf("%w: %w", common.ErrUpstream, err)
	}
	return out, nil
}

func (s *GenerationService) modelOf(c llm.Completion) string {
	if c.Model != "" {
		return c.Model
	}
	return s.llm.Model()
}

func checkLength(field, v string, lo, hi int) error {
	n := len([]rune(v))
	if n < lo || n > hi {
		return common.NewValidationError(field, fmt.Sprintf("%s must be %d to %d characters", field, lo, hi))
	}
	return nil
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
