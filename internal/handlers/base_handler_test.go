package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flashquiz/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestBaseHandler_RespondServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "client error",
			err:             models.NewError(models.ErrInvalidInput, "title cannot be empty"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "title cannot be empty",
		},
		{
			name:            "wrapped client error",
			err:             fmt.Errorf("failed to create quiz: %w", models.NewError(models.ErrForbidden, "you do not have access to this quiz")),
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "you do not have access to this quiz",
		},
		{
			name:            "wrapped sentinel",
			err:             fmt.Errorf("quiz not found: %w", models.ErrNotFound),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "quiz not found: not found",
		},
		{
			name:            "invalid credentials",
			err:             models.NewError(models.ErrInvalidCredentials, "invalid email or password"),
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "invalid email or password",
		},
		{
			name:            "conflict",
			err:             models.NewError(models.ErrAlreadyExists, "email already exists"),
			expectedStatus:  http.StatusConflict,
			expectedMessage: "email already exists",
		},
		{
			name:            "upstream",
			err:             models.NewError(models.ErrUpstream, "failed to generate flashcards, please try again"),
			expectedStatus:  http.StatusBadGateway,
			expectedMessage: "failed to generate flashcards, please try again",
		},
		{
			name:            "internal error is hidden",
			err:             errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{Logger: zap.NewNop()}
			rec := httptest.NewRecorder()

			h.RespondServiceError(rec, tt.err, "request failed")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedMessage, decodeError(t, rec))
		})
	}
}
