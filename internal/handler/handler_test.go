package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, store *memory.Store, limiter Limiter) *echo.Echo {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := websocket.NewHub(zap.NewNop())
	go hub.Run(ctx)

	svc := service.NewTriviaService(
		store.Questions(),
		store.Categories(),
		quiz.NewSelector(rand.NewSource(7)),
		hub,
		zap.NewNop(),
	)
	return NewServer(svc, hub, limiter, zap.NewNop())
}

func seededServer(t *testing.T) *echo.Echo {
	t.Helper()

	store, err := memory.Seed(context.Background())
	require.NoError(t, err)
	return newTestServer(t, store, nil)
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()

	require.Equal(t, code, rec.Code, rec.Body.String())
	body := decode[ErrorResponse](t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, code, body.Error)
	assert.Equal(t, message, body.Message)
}

func TestListCategories(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[CategoriesResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, 6, body.TotalLength)
	assert.Equal(t, memory.DefaultCategories, body.Categories)
}

func TestListCategoriesEmpty(t *testing.T) {
	e := newTestServer(t, memory.NewStore(), nil)

	assertError(t, do(e, http.MethodGet, "/categories", ""), http.StatusNotFound, "resource not found")
}

func TestListQuestions(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[QuestionsResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, 15, body.TotalQuestions)
	assert.Len(t, body.Questions, 10)
	assert.Len(t, body.Categories, 6)

	rec = do(e, http.MethodGet, "/questions?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[QuestionsResponse](t, rec)
	assert.Len(t, body.Questions, 5)
	assert.Equal(t, int64(11), body.Questions[0].ID)

	rec = do(e, http.MethodGet, "/questions?page=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[QuestionsResponse](t, rec).Questions, 10)
}

func TestListQuestionsBeyondLastPage(t *testing.T) {
	e := seededServer(t)

	assertError(t, do(e, http.MethodGet, "/questions?page=1000", ""), http.StatusNotFound, "resource not found")
	assertError(t, do(e, http.MethodGet, "/questions?page=0", ""), http.StatusNotFound, "resource not found")
	assertError(t, do(e, http.MethodGet, "/questions?page=922337203685477582", ""), http.StatusNotFound, "resource not found")
}

func TestSearchQuestionsHugePage(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodPost, "/questions/search?page=922337203685477582", `{"searchTerm":"world cup"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[SearchResponse](t, rec)
	assert.Equal(t, 2, body.TotalQuestions)
	assert.NotNil(t, body.Questions)
	assert.Empty(t, body.Questions)
}

func TestDeleteQuestion(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodDelete, "/questions/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[DeleteQuestionResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, int64(5), body.DeletedQuestionID)

	rec = do(e, http.MethodGet, "/questions?page=1", "")
	for _, q := range decode[QuestionsResponse](t, rec).Questions {
		assert.NotEqual(t, int64(5), q.ID)
	}

	assertError(t, do(e, http.MethodDelete, "/questions/5", ""), http.StatusUnprocessableEntity, "unprocessable")
	assertError(t, do(e, http.MethodDelete, "/questions/1000", ""), http.StatusUnprocessableEntity, "unprocessable")
	assertError(t, do(e, http.MethodDelete, "/questions/abc", ""), http.StatusNotFound, "resource not found")
}

func TestCreateQuestion(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodPost, "/questions",
		`{"question":"Who painted Guernica?","answer":"Pablo Picasso","category":2,"difficulty":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[CreateQuestionResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, int64(16), body.QuestionID)

	rec = do(e, http.MethodGet, "/categories/2/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found *domain.Question
	for _, q := range decode[CategoryQuestionsResponse](t, rec).Questions {
		if q.ID == body.QuestionID {
			q := q
			found = &q
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Pablo Picasso", found.Answer)
	assert.Equal(t, 3, found.Difficulty)
}

func TestCreateQuestionBadRequest(t *testing.T) {
	e := seededServer(t)

	cases := map[string]string{
		"no body":          "",
		"empty object":     `{}`,
		"missing answer":   `{"question":"q","category":1,"difficulty":1}`,
		"missing category": `{"question":"q","answer":"a","difficulty":1}`,
		"invalid category": `{"question":"q","answer":"a","category":"abc","difficulty":1}`,
		"zero category":    `{"question":"q","answer":"a","category":0,"difficulty":1}`,
		"malformed json":   `{"question":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assertError(t, do(e, http.MethodPost, "/questions", body), http.StatusBadRequest, "bad request")
		})
	}
}

func TestSearchQuestions(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodPost, "/questions/search", `{"searchTerm":"WORLD CUP"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[SearchResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.TotalQuestions)
	assert.Len(t, body.Questions, 2)

	rec = do(e, http.MethodPost, "/questions/search", `{"searchTerm":"penicillin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[SearchResponse](t, rec)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, "Alexander Fleming", body.Questions[0].Answer)

	rec = do(e, http.MethodPost, "/questions/search?page=2", `{"searchTerm":"e"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[SearchResponse](t, rec)
	assert.Greater(t, body.TotalQuestions, 10)
	assert.Len(t, body.Questions, body.TotalQuestions-10)
}

func TestSearchQuestionsErrors(t *testing.T) {
	e := seededServer(t)

	assertError(t, do(e, http.MethodPost, "/questions/search", `{"searchTerm":"no such question"}`),
		http.StatusNotFound, "resource not found")
	assertError(t, do(e, http.MethodPost, "/questions/search", ""), http.StatusBadRequest, "bad request")
	assertError(t, do(e, http.MethodPost, "/questions/search", `{"term":"x"}`), http.StatusBadRequest, "bad request")
}

func TestQuestionsByCategory(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodGet, "/categories/6/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[CategoryQuestionsResponse](t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Sports", body.CurrentCategory)
	assert.Equal(t, 2, body.TotalQuestions)
	assert.Len(t, body.Categories, 6)
	for _, q := range body.Questions {
		assert.Equal(t, int64(6), q.Category)
	}

	assertError(t, do(e, http.MethodGet, "/categories/1000/questions", ""), http.StatusNotFound, "resource not found")
	assertError(t, do(e, http.MethodGet, "/categories/x/questions", ""), http.StatusNotFound, "resource not found")
}

func TestPlayQuiz(t *testing.T) {
	e := seededServer(t)

	var previous []int64
	for i := 0; i < 3; i++ {
		prev, _ := json.Marshal(append([]int64{}, previous...))
		rec := do(e, http.MethodPost, "/quizzes",
			`{"quiz_category":{"id":1,"type":"Science"},"previous_questions":`+string(prev)+`}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decode[QuizResponse](t, rec)
		assert.True(t, body.Success)
		require.NotNil(t, body.Question)
		assert.Equal(t, int64(1), body.Question.Category)
		assert.NotContains(t, previous, body.Question.ID)
		previous = append(previous, body.Question.ID)
	}

	prev, _ := json.Marshal(previous)
	rec := do(e, http.MethodPost, "/quizzes", `{"quiz_category":{"id":"1"},"previous_questions":`+string(prev)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"question":null}`, rec.Body.String())
}

func TestPlayQuizAllCategories(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodPost, "/quizzes", `{"quiz_category":{"id":0,"type":"click"},"previous_questions":[1,2,3]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[QuizResponse](t, rec)
	require.NotNil(t, body.Question)
	assert.NotContains(t, []int64{1, 2, 3}, body.Question.ID)
}

func TestPlayQuizBadRequest(t *testing.T) {
	e := seededServer(t)

	for _, body := range []string{
		"",
		`{}`,
		`{"previous_questions":[]}`,
		`{"quiz_category":{"type":"Art"},"previous_questions":[]}`,
		`{"quiz_category":{"id":1}}`,
	} {
		assertError(t, do(e, http.MethodPost, "/quizzes", body), http.StatusBadRequest, "bad request")
	}
}

func TestCheckAnswer(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodPost, "/quizzes/answer", `{"question_id":13,"answer":"alexander flemming"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[AnswerResponse](t, rec)
	assert.True(t, body.Success)
	assert.True(t, body.Correct)
	assert.Equal(t, "Alexander Fleming", body.Answer)

	rec = do(e, http.MethodPost, "/quizzes/answer", `{"question_id":13,"answer":"Louis Pasteur"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[AnswerResponse](t, rec).Correct)

	assertError(t, do(e, http.MethodPost, "/quizzes/answer", `{"question_id":1000,"answer":"x"}`),
		http.StatusNotFound, "resource not found")
	assertError(t, do(e, http.MethodPost, "/quizzes/answer", `{"question_id":13}`),
		http.StatusBadRequest, "bad request")
}

func TestRouterErrors(t *testing.T) {
	e := seededServer(t)

	assertError(t, do(e, http.MethodPatch, "/categories", ""), http.StatusMethodNotAllowed, "method not allowed")
	assertError(t, do(e, http.MethodGet, "/nothing/here", ""), http.StatusNotFound, "resource not found")
}

func TestAccessControlHeaders(t *testing.T) {
	e := seededServer(t)

	for _, rec := range []*httptest.ResponseRecorder{
		do(e, http.MethodGet, "/categories", ""),
		do(e, http.MethodDelete, "/questions/1000", ""),
	} {
		h := rec.Header()
		assert.Equal(t, "*", h.Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "Content-Type, Authorization", h.Get(echo.HeaderAccessControlAllowHeaders))
		assert.Equal(t, "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT", h.Get(echo.HeaderAccessControlAllowMethods))
		assert.NotEmpty(t, h.Get(echo.HeaderXRequestID))
	}
}

func TestPreflight(t *testing.T) {
	e := seededServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/questions", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestHealth(t *testing.T) {
	e := seededServer(t)

	rec := do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type countingLimiter struct {
	mu    sync.Mutex
	limit int
	seen  int
	err   error
}

func (l *countingLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return false, l.err
	}
	l.seen++
	return l.seen <= l.limit, nil
}

func TestRateLimit(t *testing.T) {
	store, err := memory.Seed(context.Background())
	require.NoError(t, err)
	e := newTestServer(t, store, &countingLimiter{limit: 2})

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/categories", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/categories", "").Code)
	assertError(t, do(e, http.MethodGet, "/categories", ""), http.StatusTooManyRequests, "too many requests")
}

func TestRateLimitFailsOpen(t *testing.T) {
	store, err := memory.Seed(context.Background())
	require.NoError(t, err)
	e := newTestServer(t, store, &countingLimiter{err: errors.New("redis down")})

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/categories", "").Code)
}

func TestFlexIntUnmarshal(t *testing.T) {
	var n FlexInt
	require.NoError(t, json.Unmarshal([]byte(`42`), &n))
	assert.Equal(t, FlexInt(42), n)
	require.NoError(t, json.Unmarshal([]byte(`" 7 "`), &n))
	assert.Equal(t, FlexInt(7), n)
	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &n))
	assert.Error(t, json.Unmarshal([]byte(`1.5`), &n))
}

func TestRecoverLogsThroughZap(t *testing.T) {
	store, err := memory.Seed(context.Background())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.ErrorLevel)
	svc := service.NewTriviaService(store.Questions(), store.Categories(), quiz.NewSelector(nil), nil, zap.NewNop())
	e := NewServer(svc, websocket.NewHub(zap.NewNop()), nil, zap.New(core))
	e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	assertError(t, do(e, http.MethodGet, "/boom", ""), http.StatusInternalServerError, "internal server error")

	recovered := logs.FilterMessage("recovered from panic").All()
	require.Len(t, recovered, 1)
	fields := recovered[0].ContextMap()
	assert.Equal(t, "/boom", fields["uri"])
	assert.Contains(t, fields["error"], "boom")
	assert.NotEmpty(t, fields["stack"])
}
