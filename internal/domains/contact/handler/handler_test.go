package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"podcasthub-backend/internal/domains/contact/model"
	"podcasthub-backend/internal/domains/contact/service"
)

type mockContactService struct{ mock.Mock }

func (m *mockContactService) Submit(ctx context.Context, req model.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}

func submit(t *testing.T, svc service.ContactService, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/contact", NewHandler(svc).Submit)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestSubmit(t *testing.T) {
	svc := &mockContactService{}
	svc.On("Submit", mock.Anything, model.ContactRequest{Name: "Jane", Email: "jane@example.com", Message: "hi"}).Return(nil)

	w, env := submit(t, svc, `{"name":"Jane","email":"jane@example.com","message":"hi"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "success", env["status"])
	svc.AssertExpectations(t)
}

func TestSubmit_Errors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		w, env := submit(t, &mockContactService{}, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeValidation, env["code"])
	})

	t.Run("validation", func(t *testing.T) {
		svc := &mockContactService{}
		svc.On("Submit", mock.Anything, mock.Anything).Return(&service.ValidationError{Err: errors.New("email: must be a valid email address.")})

		w, env := submit(t, svc, `{"name":"Jane","email":"x","message":"hi"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeValidation, env["code"])
	})

	t.Run("queue down", func(t *testing.T) {
		svc := &mockContactService{}
		svc.On("Submit", mock.Anything, mock.Anything).Return(errors.New("redis down"))

		w, env := submit(t, svc, `{"name":"Jane","email":"jane@example.com","message":"hi"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to send message", env["message"])
	})
}
