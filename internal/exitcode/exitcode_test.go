package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"clickform/internal/service"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", service.NewError(service.KindValidation, "List ID is required"), UserError},
		{"no token", service.NewError(service.KindNoToken, "No API token configured"), AuthError},
		{"invalid token", service.NewError(service.KindInvalidToken, "API token is invalid"), AuthError},
		{"wrapped invalid token", fmt.Errorf("lookup: %w", service.NewError(service.KindInvalidToken, "x")), AuthError},
		{"api error", service.NewError(service.KindAPI, "List not found"), BackendError},
		{"transport", service.NewError(service.KindTransport, "request timed out"), BackendError},
		{"plain error", errors.New("boom"), BackendError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Errorf("FromError() = %d, want %d", got, tt.want)
			}
		})
	}
}
