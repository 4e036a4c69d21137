package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"duplicate", Duplicate("dup"), http.StatusBadRequest},
		{"auth", Auth("no"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"unexpected", Unexpected(errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("load order: %w", NotFound("Order not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesUnexpectedDetail(t *testing.T) {
	err := Unexpected(errors.New("pq: relation \"orders\" does not exist"))

	assert.Equal(t, "Internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "relation")
	assert.Equal(t, "Product not found", PublicMessage(NotFound("Product not found")))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Duplicate("x"), KindDuplicate))
	assert.False(t, Is(nil, KindUnexpected))
	assert.True(t, Is(errors.New("x"), KindUnexpected))
}
