package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validFeedback = "Strong concept with a clear audience. Tighten the rollout plan and name one differentiator versus existing tools."

func TestParseEvaluationFencedJSON(t *testing.T) {
	raw := "Here is my assessment:\n```json\n" +
		`{"aiRelevance": 90, "creativity": 80, "impact": 70, "clarity": 60, "funFactor": 50, "totalScore": 1, "feedback": "` + validFeedback + `"}` +
		"\n```\nHope that helps."

	result, err := parseEvaluation(raw)
	require.NoError(t, err)
	require.Equal(t, 90, result.AIRelevance)
	require.Equal(t, 80, result.Creativity)
	require.Equal(t, 70, result.Impact)
	require.Equal(t, 60, result.Clarity)
	require.Equal(t, 50, result.FunFactor)
	// (90+80+70+60+50)/5 = 70; the model's own total is ignored.
	require.Equal(t, 70, result.TotalScore)
	require.Equal(t, validFeedback, result.Feedback)
}

func TestParseEvaluationCoercesAndClamps(t *testing.T) {
	raw := `{"aiRelevance": "88", "creativity": 104.6, "impact": -3, "clarity": "72.4", "funFactor": 55, "feedback": "` + validFeedback + `"}`

	result, err := parseEvaluation(raw)
	require.NoError(t, err)
	require.Equal(t, 88, result.AIRelevance)
	require.Equal(t, 100, result.Creativity)
	require.Equal(t, 0, result.Impact)
	require.Equal(t, 72, result.Clarity)
	require.Equal(t, 55, result.FunFactor)
	require.Equal(t, 63, result.TotalScore)
}

func TestParseEvaluationDelimiterPair(t *testing.T) {
	raw := "<analysis>The idea targets campus logistics and is plausible.</analysis>" +
		`<json>{"aiRelevance": 75, "creativity": 75, "impact": 75, "clarity": 75, "funFactor": 75, "feedback": "` + validFeedback + `"}</json>`

	result, err := parseEvaluation(raw)
	require.NoError(t, err)
	require.Equal(t, 75, result.TotalScore)
}

func TestParseEvaluationRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the model rambled instead of answering"},
		{"missing dimension", `{"aiRelevance": 10, "creativity": 10, "impact": 10, "clarity": 10, "feedback": "` + validFeedback + `"}`},
		{"non numeric score", `{"aiRelevance": "high", "creativity": 10, "impact": 10, "clarity": 10, "funFactor": 10, "feedback": "` + validFeedback + `"}`},
		{"short feedback", `{"aiRelevance": 10, "creativity": 10, "impact": 10, "clarity": 10, "funFactor": 10, "feedback": "too short"}`},
		{"missing feedback", `{"aiRelevance": 10, "creativity": 10, "impact": 10, "clarity": 10, "funFactor": 10}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseEvaluation(tc.raw)
			require.ErrorIs(t, err, ErrInvalidModelOutput)
		})
	}
}

func TestParseEvaluationFeedbackMinimumCountsCharacters(t *testing.T) {
	scores := `"aiRelevance": 10, "creativity": 10, "impact": 10, "clarity": 10, "funFactor": 10`

	// 20 characters but 80 bytes: still too short.
	short := strings.Repeat("\U0001F4A1", 20)
	_, err := parseEvaluation(`{` + scores + `, "feedback": "` + short + `"}`)
	require.ErrorIs(t, err, ErrInvalidModelOutput)

	long := strings.Repeat("\U0001F4A1", 50)
	result, err := parseEvaluation(`{` + scores + `, "feedback": "` + long + `"}`)
	require.NoError(t, err)
	require.Equal(t, long, result.Feedback)
}

func TestStripWrappersFenceBeforeDelimiters(t *testing.T) {
	raw := "```json\n<json>{\"a\":1}</json>\n```"
	require.Equal(t, `{"a":1}`, stripWrappers(raw))
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	require.Equal(t, 71, aggregate([5]int{70, 70, 70, 71, 72}))
	require.Equal(t, 100, aggregate([5]int{100, 100, 100, 100, 100}))
	require.Equal(t, 0, aggregate([5]int{0, 0, 0, 0, 0}))
}
