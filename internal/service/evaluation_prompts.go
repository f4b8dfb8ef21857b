package service

import (
	"strings"

	"github.com/ideaarena/ideaarena-go-api/internal/models"
)

// buildRubricPrompt assembles the scoring prompt. webContext is optional;
// when present it is attached as read-only grounding ahead of the rubric.
func buildRubricPrompt(submission models.IdeaSubmission, webContext string) string {
	builder := strings.Builder{}
	builder.WriteString("You are an expert judge for a college AI idea challenge.\n")
	builder.WriteString("Evaluate the student's idea critically and specifically.\n\n")
	builder.WriteString("Student: ")
	builder.WriteString(submission.Name)
	builder.WriteString("\nBranch: ")
	builder.WriteString(submission.Branch)
	builder.WriteString("\nRoll Number: ")
	builder.WriteString(submission.RollNumber)
	builder.WriteString("\n\nBusiness Idea:\n")
	builder.WriteString(submission.Idea)

	if webContext != "" {
		builder.WriteString("\n\n")
		builder.WriteString(webContext)
	}

	builder.WriteString("\n\nScore each of the following 5 criteria on a scale of 0-100 (integers only):\n")
	builder.WriteString("- aiRelevance: how central and plausible is the use of AI\n")
	builder.WriteString("- creativity: originality and novelty of the concept\n")
	builder.WriteString("- impact: real-world benefit and timeliness\n")
	builder.WriteString("- clarity: how clearly the pitch communicates the idea\n")
	builder.WriteString("- funFactor: delight, wow, memorability\n\n")
	builder.WriteString("Provide constructive feedback (2-3 paragraphs, at least 50 characters) covering strengths and improvements.\n\n")
	builder.WriteString("Respond ONLY in strict JSON (no markdown) with these keys:\n")
	builder.WriteString(`{"aiRelevance": 0-100, "creativity": 0-100, "impact": 0-100, "clarity": 0-100, "funFactor": 0-100, "feedback": "<2-3 paragraphs>"}`)
	builder.WriteString("\n")

	return builder.String()
}

// buildChatPrompt wraps a student message in the coding-assistant persona.
func buildChatPrompt(message string) string {
	builder := strings.Builder{}
	builder.WriteString("You are a strict coding assistant that helps students turn short AI idea pitches into working prototype code.\n")
	builder.WriteString("Rules:\n")
	builder.WriteString("- Give short, specific answers that fit on a phone screen.\n")
	builder.WriteString("- Always provide working code snippets or direct step-by-step instructions.\n")
	builder.WriteString("- Format code in copy-friendly fenced blocks.\n")
	builder.WriteString("- Default to JavaScript and Python unless another language is requested.\n")
	builder.WriteString("- If the question is vague, ask one clarifying question instead of guessing.\n")
	builder.WriteString("- Never output evaluation scores or JSON rubrics; redirect non-technical questions back to coding support.\n\n")
	builder.WriteString("Student message: ")
	builder.WriteString(message)
	return builder.String()
}
