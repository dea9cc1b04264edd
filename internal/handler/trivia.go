package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// TriviaHandler handles question, category and quiz HTTP requests
type TriviaHandler struct {
	trivia *service.TriviaService
}

// NewTriviaHandler creates a new trivia handler
func NewTriviaHandler(trivia *service.TriviaService) *TriviaHandler {
	return &TriviaHandler{trivia: trivia}
}

// Register registers the trivia routes
func (h *TriviaHandler) Register(e *echo.Echo) {
	e.GET("/categories", h.ListCategories)
	e.GET("/categories/:id/questions", h.QuestionsByCategory)

	e.GET("/questions", h.ListQuestions)
	e.POST("/questions", h.CreateQuestion)
	e.POST("/questions/search", h.SearchQuestions)
	e.DELETE("/questions/:id", h.DeleteQuestion)

	e.POST("/quizzes", h.PlayQuiz)
	e.POST("/quizzes/answer", h.CheckAnswer)
}

// ListCategories returns every category
func (h *TriviaHandler) ListCategories(c echo.Context) error {
	categories, err := h.trivia.ListCategories(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, CategoriesResponse{
		Success:     true,
		Categories:  categories,
		TotalLength: len(categories),
	})
}

// ListQuestions returns the page of questions selected by ?page
func (h *TriviaHandler) ListQuestions(c echo.Context) error {
	page := pagination.ParsePage(c.QueryParam("page"))

	result, err := h.trivia.ListQuestions(c.Request().Context(), page)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, QuestionsResponse{
		Success:        true,
		TotalQuestions: result.Total,
		Questions:      result.Questions,
		Categories:     result.Categories,
	})
}

// DeleteQuestion deletes a question by ID
func (h *TriviaHandler) DeleteQuestion(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.ErrNotFound
	}

	if err := h.trivia.DeleteQuestion(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, DeleteQuestionResponse{
		Success:           true,
		DeletedQuestionID: id,
	})
}

// CreateQuestion stores a new question
func (h *TriviaHandler) CreateQuestion(c echo.Context) error {
	var req CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	question := &domain.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   int64(*req.Category),
		Difficulty: int(*req.Difficulty),
	}
	if err := h.trivia.CreateQuestion(c.Request().Context(), question); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, CreateQuestionResponse{
		Success:    true,
		QuestionID: question.ID,
	})
}

// SearchQuestions returns the page of questions matching the search term
func (h *TriviaHandler) SearchQuestions(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	page := pagination.ParsePage(c.QueryParam("page"))
	result, err := h.trivia.SearchQuestions(c.Request().Context(), *req.SearchTerm, page)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Success:        true,
		TotalQuestions: result.Total,
		Questions:      result.Questions,
	})
}

// QuestionsByCategory returns every question of one category
func (h *TriviaHandler) QuestionsByCategory(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return echo.ErrNotFound
	}

	result, err := h.trivia.QuestionsByCategory(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, CategoryQuestionsResponse{
		Success:         true,
		TotalQuestions:  result.Total,
		Questions:       result.Questions,
		Categories:      result.Categories,
		CurrentCategory: result.CurrentCategory,
	})
}

// PlayQuiz returns a random question the player has not seen yet
func (h *TriviaHandler) PlayQuiz(c echo.Context) error {
	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	categoryID := int64(*req.QuizCategory.ID)
	question, err := h.trivia.NextQuizQuestion(c.Request().Context(), categoryID, req.Previous())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, QuizResponse{
		Success:  true,
		Question: question,
	})
}

// CheckAnswer grades a quiz answer
func (h *TriviaHandler) CheckAnswer(c echo.Context) error {
	var req AnswerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	result, err := h.trivia.CheckAnswer(c.Request().Context(), int64(*req.QuestionID), *req.Answer)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, AnswerResponse{
		Success: true,
		Correct: result.Correct,
		Answer:  result.Answer,
	})
}

// idParam parses the :id path segment. Non-numeric IDs match no resource.
func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
