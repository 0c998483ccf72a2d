package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/service"
)

type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) LogFood(ctx context.Context, input service.LogFoodInput) (*domain.LogEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LogEntry), args.Error(1)
}

func (m *MockLogService) DeleteEntry(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLogService) DailyLogFor(ctx context.Context, date string) (*service.DailyLog, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DailyLog), args.Error(1)
}

func (m *MockLogService) Today() string {
	return m.Called().String(0)
}

func postLog(handler *LogHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.Create(w, req)
	return w
}

func TestLogHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("LogFood", mock.Anything, mock.MatchedBy(func(input service.LogFoodInput) bool {
		return input.Name == "apple" && input.Quantity != nil && *input.Quantity == 2 &&
			input.LogDate == "2024-01-10" && input.Calories == 95
	})).Return(&domain.LogEntry{ID: 1}, nil)

	w := postLog(handler, `{"name":"apple","quantity":2,"log_date":"2024-01-10","calories":95,"protein":0.5,"fat":0.3,"carbs":25}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestLogHandler_Create_MissingName(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	for _, body := range []string{`{}`, `{"name":""}`, `{"name":"   "}`} {
		w := postLog(handler, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing name")
	}

	mockSvc.AssertNotCalled(t, "LogFood", mock.Anything, mock.Anything)
}

func TestLogHandler_Create_InvalidBody(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	w := postLog(handler, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandler_Create_OmittedQuantity(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("LogFood", mock.Anything, mock.MatchedBy(func(input service.LogFoodInput) bool {
		return input.Name == "banana" && input.Quantity == nil
	})).Return(&domain.LogEntry{ID: 2}, nil)

	w := postLog(handler, `{"name":"banana"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestLogHandler_Create_NullQuantityIsZero(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("LogFood", mock.Anything, mock.MatchedBy(func(input service.LogFoodInput) bool {
		return input.Name == "banana" && input.Quantity != nil && *input.Quantity == 0
	})).Return(&domain.LogEntry{ID: 5}, nil)

	w := postLog(handler, `{"name":"banana","quantity":null}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestLogHandler_Create_NumericStringsAccepted(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("LogFood", mock.Anything, mock.MatchedBy(func(input service.LogFoodInput) bool {
		return input.Quantity != nil && *input.Quantity == 2 && input.Calories == 95
	})).Return(&domain.LogEntry{ID: 3}, nil)

	w := postLog(handler, `{"name":"apple","quantity":"2","calories":"95"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestLogHandler_Create_UnparseableNumbersAbsorbToZero(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("LogFood", mock.Anything, mock.MatchedBy(func(input service.LogFoodInput) bool {
		return input.Quantity != nil && *input.Quantity == 0 && input.Calories == 0
	})).Return(&domain.LogEntry{ID: 4}, nil)

	w := postLog(handler, `{"name":"apple","quantity":"a lot","calories":"many"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func deleteLog(handler *LogHandler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/logs/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	return w
}

func TestLogHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	mockSvc.On("DeleteEntry", mock.Anything, int64(42)).Return(nil)

	w := deleteLog(handler, "42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"deleted","id":42}`, w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestLogHandler_Delete_InvalidID(t *testing.T) {
	mockSvc := new(MockLogService)
	handler := NewLogHandler(mockSvc)

	w := deleteLog(handler, "abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "DeleteEntry", mock.Anything, mock.Anything)
}
