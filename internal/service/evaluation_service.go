package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

// TextGenerator produces model output for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContextBuilder assembles web-retrieved grounding for an idea. It never
// fails; an empty string means no context is available.
type ContextBuilder interface {
	BuildContext(ctx context.Context, idea string) string
}

// EvaluationService scores idea submissions. Tiers are attempted strictly in
// order (agentic, then static, then synthetic) and each absorbs its own
// failures, so Evaluate always yields a result: the synthetic tier performs
// no I/O and cannot fail.
type EvaluationService interface {
	Evaluate(ctx context.Context, submission models.IdeaSubmission) (models.Evaluation, error)
}

type evaluationService struct {
	generator TextGenerator
	contexts  ContextBuilder
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewEvaluationService constructs the tiered evaluator. The context builder
// may be nil, which disables the agentic tier's web grounding but not the
// tier itself.
func NewEvaluationService(generator TextGenerator, contexts ContextBuilder, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		generator: generator,
		contexts:  contexts,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/ideaarena/ideaarena-go-api/internal/service/evaluation"),
		now:       time.Now,
	}
}

func (s *evaluationService) Evaluate(parent context.Context, submission models.IdeaSubmission) (models.Evaluation, error) {
	ctx, span := s.tracer.Start(parent, "evaluation.evaluate", trace.WithAttributes(
		attribute.String("evaluation.uid", submission.UID),
	))
	defer span.End()

	if s.generator != nil {
		if result, err := s.evaluateAgentic(ctx, submission); err == nil {
			span.SetAttributes(attribute.String("evaluation.tier", "agentic"))
			return result, nil
		} else {
			s.logger.Warn().Err(err).Str("uid", submission.UID).Msg("agentic tier failed, trying static tier")
		}

		if result, err := s.evaluateStatic(ctx, submission); err == nil {
			span.SetAttributes(attribute.String("evaluation.tier", "static"))
			return result, nil
		} else {
			s.logger.Warn().Err(err).Str("uid", submission.UID).Msg("static tier failed, using synthetic tier")
		}
	}

	span.SetAttributes(attribute.String("evaluation.tier", "synthetic"))
	return s.evaluateSynthetic(submission), nil
}

func (s *evaluationService) evaluateAgentic(ctx context.Context, submission models.IdeaSubmission) (models.Evaluation, error) {
	webContext := ""
	if s.contexts != nil {
		webContext = s.contexts.BuildContext(ctx, submission.Idea)
	}
	return s.generateAndValidate(ctx, buildRubricPrompt(submission, webContext))
}

func (s *evaluationService) evaluateStatic(ctx context.Context, submission models.IdeaSubmission) (models.Evaluation, error) {
	return s.generateAndValidate(ctx, buildRubricPrompt(submission, ""))
}

func (s *evaluationService) generateAndValidate(ctx context.Context, prompt string) (models.Evaluation, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("generate: %w", err)
	}

	result, err := parseEvaluation(text)
	if err != nil {
		return models.Evaluation{}, err
	}

	result.EvaluatedAt = s.now().UTC().Format(time.RFC3339)
	return result, nil
}

const syntheticFeedback = "Provisional evaluation generated while the scoring service was unavailable. " +
	"Sharpen the problem statement, name the target audience, explain what sets the idea apart, " +
	"and outline an MVP rollout plan to lift feasibility and scalability."

// evaluateSynthetic is the pipeline's success guarantee: a deterministic
// function of the idea text with no network or model call. Identical idea
// text always yields the identical result.
func (s *evaluationService) evaluateSynthetic(submission models.IdeaSubmission) models.Evaluation {
	ideaLen := len(submission.Idea)
	lower := strings.ToLower(submission.Idea)

	dims := [5]int{
		clampScore(35 + ideaLen/40), // aiRelevance
		clampScore(45 + ideaLen/60), // creativity
		clampScore(40 + ideaLen/50), // impact
		clampScore(50 + ideaLen/80), // clarity
		clampScore(42 + ideaLen/70), // funFactor
	}

	if strings.Contains(lower, "ai") || strings.Contains(lower, "machine learning") {
		dims[0] = clampScore(dims[0] + 8)
	}
	if strings.Contains(lower, "community") || strings.Contains(lower, "student") {
		dims[2] = clampScore(dims[2] + 5)
	}

	return models.Evaluation{
		AIRelevance: dims[0],
		Creativity:  dims[1],
		Impact:      dims[2],
		Clarity:     dims[3],
		FunFactor:   dims[4],
		TotalScore:  aggregate(dims),
		Feedback:    syntheticFeedback,
	}
}
