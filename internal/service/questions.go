package service

import (
	"math"

	"github.com/hirevox/hirevox/pkg/models"
)

// DefaultQuestions is the fixed question set used when an invite carries no
// explicit questions.
func DefaultQuestions() models.QuestionList {
	return models.QuestionList{
		"Tell me about yourself and your professional background.",
		"Why are you interested in this position?",
		"Describe a challenging project you worked on and how you handled it.",
		"What are your greatest strengths and how do they apply to this role?",
		"Where do you see yourself in five years?",
	}
}

// PerformanceScore derives a 0-100 score from transcript length alone:
// average response length divided by ten, clamped to [20, 100], rounded.
// No responses means zero.
func PerformanceScore(responses []models.InterviewResponse) int {
	if len(responses) == 0 {
		return 0
	}
	var total int
	for _, r := range responses {
		total += len(r.ResponseText)
	}
	avg := float64(total) / float64(len(responses))
	score := avg / 10
	if score < 20 {
		score = 20
	}
	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}
