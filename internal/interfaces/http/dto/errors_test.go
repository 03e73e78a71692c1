package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"PRECONDITION_FAILED", http.StatusPreconditionFailed},
		{"PROVIDER_TIMEOUT", http.StatusGatewayTimeout},
		{"PROVIDER_ERROR", http.StatusBadGateway},
		{"EMPTY_RESULT", http.StatusNotFound},
		{"PERSISTENCE_ERROR", http.StatusInternalServerError},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 41, 1, 20)
		assert.True(t, resp.Success)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("zero page size does not divide by zero", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 41, 1, 0)
		assert.Equal(t, 0, resp.Meta.TotalPages)
	})
}

func TestListRequestApplyDefaults(t *testing.T) {
	req := ListRequest{}
	req.ApplyDefaults()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)

	req = ListRequest{Page: 3, PageSize: 50}
	req.ApplyDefaults()
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 50, req.PageSize)
}
