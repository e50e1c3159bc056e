package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("value must be %d", 1), http.StatusBadRequest},
		{"not found", NotFound("answer"), http.StatusNotFound},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"storage", Storage(errors.New("connection refused")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestStorage(t *testing.T) {
	assert.NoError(t, Storage(nil))
	assert.ErrorIs(t, Storage(gorm.ErrRecordNotFound), ErrNotFound)

	cause := errors.New("deadlock detected")
	err := Storage(cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, Storage(err), "already classified errors pass through")
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(Storage(errors.New("password=hunter2"))))
	assert.Equal(t, "comment not found", PublicMessage(NotFound("comment")))
	assert.Equal(t, "bad value", PublicMessage(Validation("bad value")))
}
