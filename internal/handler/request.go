package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FlexInt is an integer that also accepts a quoted number in JSON
type FlexInt int64

// UnmarshalJSON accepts 3 as well as "3"
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if s, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = FlexInt(v)
	return nil
}

// CreateQuestionRequest represents the request to create a new question
type CreateQuestionRequest struct {
	Question   string   `json:"question" validate:"required"`
	Answer     string   `json:"answer" validate:"required"`
	Category   *FlexInt `json:"category" validate:"required,gt=0"`
	Difficulty *FlexInt `json:"difficulty" validate:"required"`
}

// SearchRequest represents the request body of a question search
type SearchRequest struct {
	SearchTerm *string `json:"searchTerm" validate:"required"`
}

// QuizCategory selects the category a quiz draws from. ID 0 means any.
type QuizCategory struct {
	ID   *FlexInt `json:"id" validate:"required"`
	Type string   `json:"type"`
}

// QuizRequest represents the request for the next quiz question
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category" validate:"required"`
	PreviousQuestions []FlexInt     `json:"previous_questions" validate:"required"`
}

// Previous returns the already served question IDs
func (r *QuizRequest) Previous() []int64 {
	ids := make([]int64, len(r.PreviousQuestions))
	for i, id := range r.PreviousQuestions {
		ids[i] = int64(id)
	}
	return ids
}

// AnswerRequest represents a guess for a quiz question
type AnswerRequest struct {
	QuestionID *FlexInt `json:"question_id" validate:"required"`
	Answer     *string  `json:"answer" validate:"required"`
}

// RequestValidator adapts go-playground/validator to echo.Validator
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate validates a bound request struct
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
