package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/validation"
	"github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
)

// EventPublisher delivers question events to live clients
type EventPublisher interface {
	Broadcast(eventType string, payload any) error
}

// QuestionPage is one page of the question listing
type QuestionPage struct {
	Total      int
	Questions  []domain.Question
	Categories []domain.Category
}

// SearchResult is one page of search matches
type SearchResult struct {
	Total     int
	Questions []domain.Question
}

// CategoryQuestions are all questions of one category
type CategoryQuestions struct {
	Total           int
	Questions       []domain.Question
	Categories      []domain.Category
	CurrentCategory string
}

// AnswerResult is the grade of a submitted quiz answer
type AnswerResult struct {
	Correct bool
	Answer  string
}

// TriviaService implements the trivia API operations
type TriviaService struct {
	questions  domain.QuestionRepository
	categories domain.CategoryRepository
	selector   *quiz.Selector
	events     EventPublisher
	logger     *zap.Logger
}

// NewTriviaService creates a new trivia service
func NewTriviaService(
	questions domain.QuestionRepository,
	categories domain.CategoryRepository,
	selector *quiz.Selector,
	events EventPublisher,
	logger *zap.Logger,
) *TriviaService {
	return &TriviaService{
		questions:  questions,
		categories: categories,
		selector:   selector,
		events:     events,
		logger:     logger,
	}
}

// ListCategories returns every category. No categories is reported as ErrNotFound.
func (s *TriviaService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, notFound("no categories")
	}
	return categories, nil
}

// ListQuestions returns a page of questions ordered by ID together with all
// categories. An empty page or no categories is reported as ErrNotFound.
func (s *TriviaService) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	current := pagination.Page(questions, page, pagination.QuestionsPerPage)
	if len(current) == 0 || len(categories) == 0 {
		return nil, notFound("no questions on page %d", page)
	}

	return &QuestionPage{
		Total:      len(questions),
		Questions:  current,
		Categories: categories,
	}, nil
}

// DeleteQuestion deletes a question. Every failure, including an unknown
// ID, is reported as ErrUnprocessable.
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		s.logger.Warn("delete question failed", zap.Int64("question_id", id), zap.Error(err))
		return unprocessable("delete question", err)
	}

	s.logger.Info("question deleted", zap.Int64("question_id", id))
	s.publish(websocket.EventQuestionDeleted, map[string]int64{"id": id})
	return nil
}

// CreateQuestion stores a new question and sets its ID
func (s *TriviaService) CreateQuestion(ctx context.Context, question *domain.Question) error {
	if err := s.questions.Create(ctx, question); err != nil {
		s.logger.Error("create question failed", zap.Error(err))
		return unprocessable("create question", err)
	}

	s.logger.Info("question created",
		zap.Int64("question_id", question.ID),
		zap.Int64("category", question.Category),
	)
	s.publish(websocket.EventQuestionCreated, question)
	return nil
}

// SearchQuestions returns a page of the questions containing term. No
// match at all is reported as ErrNotFound.
func (s *TriviaService) SearchQuestions(ctx context.Context, term string, page int) (*SearchResult, error) {
	matches, err := s.questions.Search(ctx, term)
	if err != nil {
		s.logger.Error("search questions failed", zap.String("term", term), zap.Error(err))
		return nil, unprocessable("search questions", err)
	}
	if len(matches) == 0 {
		return nil, notFound("no question matches %q", term)
	}

	return &SearchResult{
		Total:     len(matches),
		Questions: pagination.Page(matches, page, pagination.QuestionsPerPage),
	}, nil
}

// QuestionsByCategory returns every question of a category. An unknown
// category or one without questions is reported as ErrNotFound.
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int64) (*CategoryQuestions, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, notFound("category %d", categoryID)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	questions, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if len(questions) == 0 || len(categories) == 0 {
		return nil, notFound("no questions in category %d", categoryID)
	}

	return &CategoryQuestions{
		Total:           len(questions),
		Questions:       questions,
		Categories:      categories,
		CurrentCategory: category.Type,
	}, nil
}

// NextQuizQuestion picks a random question of the category that is not in
// previous. domain.AllCategories considers every question. A nil question
// with a nil error means the quiz is complete.
func (s *TriviaService) NextQuizQuestion(ctx context.Context, categoryID int64, previous []int64) (*domain.Question, error) {
	ids, err := s.questions.IDs(ctx, categoryID)
	if err != nil {
		s.logger.Error("load quiz candidates failed", zap.Int64("category", categoryID), zap.Error(err))
		return nil, unprocessable("load quiz candidates", err)
	}

	id, ok := s.selector.Pick(ids, previous)
	if !ok {
		return nil, nil
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("load quiz question failed", zap.Int64("question_id", id), zap.Error(err))
		return nil, unprocessable("load quiz question", err)
	}
	return question, nil
}

// CheckAnswer grades guess against the stored answer of a question
func (s *TriviaService) CheckAnswer(ctx context.Context, questionID int64, guess string) (*AnswerResult, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, notFound("question %d", questionID)
		}
		return nil, unprocessable("load question", err)
	}

	return &AnswerResult{
		Correct: validation.IsSimilarAnswer(question.Answer, guess),
		Answer:  question.Answer,
	}, nil
}

func (s *TriviaService) publish(eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Broadcast(eventType, payload); err != nil {
		s.logger.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}
