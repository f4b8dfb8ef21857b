package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

type stubGenerator struct {
	replies []string
	errs    []error
	prompts []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	idx := len(s.prompts) - 1

	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	if err != nil {
		return "", err
	}
	if idx < len(s.replies) {
		return s.replies[idx], nil
	}
	return "", errors.New("no scripted reply")
}

type stubContexts struct {
	bundle string
	calls  int
}

func (s *stubContexts) BuildContext(context.Context, string) string {
	s.calls++
	return s.bundle
}

func testSubmission() models.IdeaSubmission {
	return models.IdeaSubmission{
		UID:        "user-1",
		Name:       "Asha",
		Branch:     "CSE",
		RollNumber: "42",
		Idea:       "An AI assistant that pairs students with study groups based on their schedules and course history.",
	}
}

func validModelReply() string {
	return `{"aiRelevance": 85, "creativity": 78, "impact": 82, "clarity": 75, "funFactor": 70, "feedback": "` + validFeedback + `"}`
}

func TestEvaluateAgenticTier(t *testing.T) {
	gen := &stubGenerator{replies: []string{validModelReply()}}
	contexts := &stubContexts{bundle: "Latest web context (auto-collected):\n[1] Study tools"}
	svc := NewEvaluationService(gen, contexts, testLogger())

	result, err := svc.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)
	require.Equal(t, 78, result.TotalScore)
	require.NotEmpty(t, result.EvaluatedAt)
	require.Equal(t, 1, contexts.calls)
	require.Len(t, gen.prompts, 1)
	require.Contains(t, gen.prompts[0], contexts.bundle)
}

func TestEvaluateFallsBackToStaticTier(t *testing.T) {
	gen := &stubGenerator{
		replies: []string{"", validModelReply()},
		errs:    []error{errors.New("429: resource exhausted"), nil},
	}
	contexts := &stubContexts{bundle: "some grounding"}
	svc := NewEvaluationService(gen, contexts, testLogger())

	result, err := svc.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)
	require.Equal(t, 78, result.TotalScore)
	require.Len(t, gen.prompts, 2)
	require.NotContains(t, gen.prompts[1], contexts.bundle)
}

func TestEvaluateInvalidOutputTriggersFallback(t *testing.T) {
	gen := &stubGenerator{replies: []string{"not json at all", validModelReply()}}
	svc := NewEvaluationService(gen, nil, testLogger())

	result, err := svc.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)
	require.Equal(t, 78, result.TotalScore)
	require.Len(t, gen.prompts, 2)
}

func TestEvaluateSyntheticWhenAllTiersFail(t *testing.T) {
	gen := &stubGenerator{errs: []error{errors.New("down"), errors.New("down")}}
	svc := NewEvaluationService(gen, nil, testLogger())

	first, err := svc.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)

	gen2 := &stubGenerator{errs: []error{errors.New("down"), errors.New("down")}}
	svc2 := NewEvaluationService(gen2, nil, testLogger())
	second, err := svc2.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)

	// Same idea text, same scores, every time.
	require.Equal(t, first, second)
	require.Empty(t, first.EvaluatedAt)
	require.GreaterOrEqual(t, len(first.Feedback), 50)
	require.Equal(t, aggregate(first.Dimensions()), first.TotalScore)
}

func TestEvaluateSyntheticScoring(t *testing.T) {
	submission := testSubmission()
	submission.Idea = strings.Repeat("a", 500)
	svc := NewEvaluationService(nil, nil, testLogger())

	result, err := svc.Evaluate(context.Background(), submission)
	require.NoError(t, err)
	require.Equal(t, 47, result.AIRelevance) // 35 + 500/40, no keyword bonus
	require.Equal(t, 53, result.Creativity)  // 45 + 500/60
	require.Equal(t, 50, result.Impact)      // 40 + 500/50
	require.Equal(t, 56, result.Clarity)     // 50 + 500/80
	require.Equal(t, 49, result.FunFactor)   // 42 + 500/70

	withKeywords := submission
	withKeywords.Idea = strings.Repeat("a", 489) + " ai student"
	boosted, err := svc.Evaluate(context.Background(), withKeywords)
	require.NoError(t, err)
	require.Equal(t, result.AIRelevance+8, boosted.AIRelevance)
	require.Equal(t, result.Impact+5, boosted.Impact)
}

func TestEvaluateNilGeneratorGoesStraightToSynthetic(t *testing.T) {
	contexts := &stubContexts{bundle: "unused"}
	svc := NewEvaluationService(nil, contexts, testLogger())

	result, err := svc.Evaluate(context.Background(), testSubmission())
	require.NoError(t, err)
	require.NotZero(t, result.TotalScore)
	require.Zero(t, contexts.calls)
}
