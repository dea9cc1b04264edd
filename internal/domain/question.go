package domain

import (
	"context"
	"errors"
)

// AllCategories is the quiz category id that disables category filtering.
const AllCategories int64 = 0

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Question represents a trivia question
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category represents a question category
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// List retrieves all questions ordered by ID
	List(ctx context.Context) ([]Question, error)

	// ListByCategory retrieves the questions of a category ordered by ID
	ListByCategory(ctx context.Context, categoryID int64) ([]Question, error)

	// Search retrieves the questions whose text contains term, ignoring case
	Search(ctx context.Context, term string) ([]Question, error)

	// IDs retrieves question IDs, restricted to a category unless it is AllCategories
	IDs(ctx context.Context, categoryID int64) ([]int64, error)

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id int64) (*Question, error)

	// Create creates a new question and sets its ID
	Create(ctx context.Context, question *Question) error

	// Delete deletes a question
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines the interface for category-related operations
type CategoryRepository interface {
	// List retrieves all categories ordered by ID
	List(ctx context.Context) ([]Category, error)

	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id int64) (*Category, error)
}
