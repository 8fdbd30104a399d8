package services

import (
	"math"

	"learnhub/backend/models"
)

// Unanswered is rendered in place of an option string when the user
// skipped a question.
const Unanswered = "unanswered"

// AnswerDetail is the per-question grading record kept with a quiz result
// so review screens can replay the attempt. Order follows question order.
type AnswerDetail struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	IsCorrect     bool   `json:"is_correct"`
}

type GradedQuiz struct {
	Score        int
	CorrectCount int
	Details      []AnswerDetail
}

// GradeQuiz scores the submitted answers against the quiz questions.
// answers maps question id to the selected option index; missing entries
// count as unanswered. score = round(100 * correct / total).
func GradeQuiz(questions []models.Question, answers map[uint]int) (GradedQuiz, error) {
	if len(questions) == 0 {
		return GradedQuiz{}, ErrNoQuestions
	}

	graded := GradedQuiz{Details: make([]AnswerDetail, 0, len(questions))}
	for _, question := range questions {
		options := question.OptionList()

		detail := AnswerDetail{
			QuestionID:  question.ID,
			Question:    question.Text,
			UserAnswer:  Unanswered,
			Explanation: question.Explanation,
		}
		if question.Correct >= 0 && question.Correct < len(options) {
			detail.CorrectAnswer = options[question.Correct]
		}

		if index, ok := answers[question.ID]; ok && index >= 0 && index < len(options) {
			detail.UserAnswer = options[index]
			detail.IsCorrect = index == question.Correct
		}
		if detail.IsCorrect {
			graded.CorrectCount++
		}

		graded.Details = append(graded.Details, detail)
	}

	graded.Score = int(math.Round(float64(graded.CorrectCount) / float64(len(questions)) * 100))
	return graded, nil
}
