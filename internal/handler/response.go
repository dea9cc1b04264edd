package handler

import "github.com/zizouhuweidi/trivia/internal/domain"

// CategoriesResponse is returned by GET /categories
type CategoriesResponse struct {
	Success     bool              `json:"success"`
	Categories  []domain.Category `json:"categories"`
	TotalLength int               `json:"totalLength"`
}

// QuestionsResponse is returned by GET /questions
type QuestionsResponse struct {
	Success        bool              `json:"success"`
	TotalQuestions int               `json:"total_questions"`
	Questions      []domain.Question `json:"questions"`
	Categories     []domain.Category `json:"categories"`
}

// CategoryQuestionsResponse is returned by GET /categories/:id/questions
type CategoryQuestionsResponse struct {
	Success         bool              `json:"success"`
	TotalQuestions  int               `json:"total_questions"`
	Questions       []domain.Question `json:"questions"`
	Categories      []domain.Category `json:"categories"`
	CurrentCategory string            `json:"current_category"`
}

type SearchResponse struct {
	Success        bool              `json:"success"`
	TotalQuestions int               `json:"total_questions"`
	Questions      []domain.Question `json:"questions"`
}

type DeleteQuestionResponse struct {
	Success           bool  `json:"success"`
	DeletedQuestionID int64 `json:"deleted_question_id"`
}

type CreateQuestionResponse struct {
	Success    bool  `json:"success"`
	QuestionID int64 `json:"question_id"`
}

// QuizResponse carries a null question once the quiz is complete
type QuizResponse struct {
	Success  bool             `json:"success"`
	Question *domain.Question `json:"question"`
}

type AnswerResponse struct {
	Success bool   `json:"success"`
	Correct bool   `json:"correct"`
	Answer  string `json:"answer"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}
