// Package memory implements the question and category repositories in
// process memory. It backs the handler tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Store holds questions and categories behind a single lock
type Store struct {
	mu         sync.RWMutex
	questions  map[int64]domain.Question
	categories map[int64]domain.Category
	nextID     int64
}

// NewStore creates a store holding the given categories
func NewStore(categories ...domain.Category) *Store {
	s := &Store{
		questions:  make(map[int64]domain.Question),
		categories: make(map[int64]domain.Category, len(categories)),
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	return s
}

// Questions returns the store as a domain.QuestionRepository
func (s *Store) Questions() *QuestionRepository {
	return &QuestionRepository{store: s}
}

// Categories returns the store as a domain.CategoryRepository
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{store: s}
}

// QuestionRepository implements the domain.QuestionRepository interface
type QuestionRepository struct {
	store *Store
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.store.filter(func(domain.Question) bool { return true }), nil
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	return r.store.filter(func(q domain.Question) bool { return q.Category == categoryID }), nil
}

func (r *QuestionRepository) Search(ctx context.Context, term string) ([]domain.Question, error) {
	term = strings.ToLower(term)
	return r.store.filter(func(q domain.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (r *QuestionRepository) IDs(ctx context.Context, categoryID int64) ([]int64, error) {
	questions := r.store.filter(func(q domain.Question) bool {
		return categoryID == domain.AllCategories || q.Category == categoryID
	})

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q, ok := r.store.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextID++
	question.ID = r.store.nextID
	r.store.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, id)
	return nil
}

// CategoryRepository implements the domain.CategoryRepository interface
type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

// filter returns the matching questions ordered by ID
func (s *Store) filter(keep func(domain.Question) bool) []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Question{}
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
