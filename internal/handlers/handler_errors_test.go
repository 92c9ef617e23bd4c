package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("account x: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"validation", apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity},
		{"conflict", apperrors.ErrEntryNotDraft, http.StatusConflict},
		{"integrity", apperrors.ErrChainBreak, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}
