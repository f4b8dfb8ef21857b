package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

// ErrInvalidModelOutput marks model responses that failed structural
// validation. It is absorbed by the tier fallback and never surfaced raw.
var ErrInvalidModelOutput = errors.New("invalid model output")

const minFeedbackChars = 50

var dimensionKeys = [5]string{"aiRelevance", "creativity", "impact", "clarity", "funFactor"}

// parseEvaluation turns raw model text into a validated evaluation: strip
// wrapper markers, decode one JSON object, require all five dimensions and a
// long-enough feedback string, clamp scores, and recompute the aggregate.
// Whatever total the model supplied is ignored.
func parseEvaluation(raw string) (models.Evaluation, error) {
	payload := stripWrappers(raw)

	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()

	var object map[string]any
	if err := decoder.Decode(&object); err != nil {
		return models.Evaluation{}, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	var dims [5]int
	for i, key := range dimensionKeys {
		value, ok := object[key]
		if !ok {
			return models.Evaluation{}, fmt.Errorf("%w: missing %s", ErrInvalidModelOutput, key)
		}
		score, err := coerceScore(value)
		if err != nil {
			return models.Evaluation{}, fmt.Errorf("%w: %s: %v", ErrInvalidModelOutput, key, err)
		}
		dims[i] = clampScore(score)
	}

	feedback, _ := object["feedback"].(string)
	feedback = strings.TrimSpace(feedback)
	// Count characters, not bytes: multi-byte feedback must not slip under
	// the minimum.
	if utf8.RuneCountInString(feedback) < minFeedbackChars {
		return models.Evaluation{}, fmt.Errorf("%w: feedback shorter than %d characters", ErrInvalidModelOutput, minFeedbackChars)
	}

	evaluation := models.Evaluation{
		AIRelevance: dims[0],
		Creativity:  dims[1],
		Impact:      dims[2],
		Clarity:     dims[3],
		FunFactor:   dims[4],
		TotalScore:  aggregate(dims),
		Feedback:    feedback,
	}

	return evaluation, nil
}

// stripWrappers applies the ordered strip rules: fenced code block first,
// then the explicit analysis/json delimiter pair.
func stripWrappers(text string) string {
	text = strings.TrimSpace(text)
	text = stripFence(text)
	text = stripDelimiterPair(text)
	return strings.TrimSpace(text)
}

func stripFence(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return text
}

func stripDelimiterPair(text string) string {
	if start := strings.Index(text, "<analysis>"); start >= 0 {
		if end := strings.Index(text, "</analysis>"); end > start {
			text = text[:start] + text[end+len("</analysis>"):]
		}
	}
	if start := strings.Index(text, "<json>"); start >= 0 {
		if end := strings.Index(text, "</json>"); end > start {
			text = text[start+len("<json>") : end]
		}
	}
	return text
}

// coerceScore accepts whatever numeric shape the model produced, including
// numeric strings and floats.
func coerceScore(value any) (int, error) {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := v.Float64(); err == nil {
			return int(math.Round(f)), nil
		}
		return 0, fmt.Errorf("not numeric: %s", v.String())
	case string:
		trimmed := strings.TrimSpace(v)
		if i, err := strconv.Atoi(trimmed); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(math.Round(f)), nil
		}
		return 0, fmt.Errorf("not numeric: %q", v)
	default:
		return 0, fmt.Errorf("unsupported score type %T", value)
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// aggregate is the authoritative total score: rounded mean of the five
// dimensions, clamped to [0,100].
func aggregate(dims [5]int) int {
	sum := 0
	for _, dim := range dims {
		sum += dim
	}
	return clampScore(int(math.Round(float64(sum) / 5.0)))
}
