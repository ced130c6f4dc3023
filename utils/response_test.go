package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"snapgram_server/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid argument", apperrors.ErrEmptyMessage, http.StatusBadRequest},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrNotParticipant, http.StatusForbidden},
		{"not found", apperrors.ErrConversationNotFound, http.StatusNotFound},
		{"conflict", apperrors.ErrUsernameTaken, http.StatusConflict},
		{"dependency", apperrors.ErrUploadFailed, http.StatusInternalServerError},
		{"unclassified", errors.New("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("secret connection string"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong", body["message"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestSuccessMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Post created successfully", map[string]interface{}{
		"postId": "p1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Post created successfully", body["message"])
	assert.Equal(t, "p1", body["postId"])
}
